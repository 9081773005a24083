package store

import (
	"encoding/json"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

// GetProposal returns nil without error when the proposal does not exist.
func (s *Store) GetProposal(id string) (*Proposal, error) {
	var proposal Proposal
	if err := s.db.Where("id = ?", id).First(&proposal).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &proposal, nil
}

func (s *Store) CreateProposal(p *Proposal) error {
	return s.db.Create(p).Error
}

func (s *Store) UpdateProposalContent(id string, fields map[string]interface{}) error {
	return s.db.Model(&Proposal{}).Where("id = ?", id).Updates(fields).Error
}

func (s *Store) DeleteProposal(id string) error {
	if err := s.db.Where("proposal = ?", id).Delete(&Vote{}).Error; err != nil {
		return err
	}
	return s.db.Where("id = ?", id).Delete(&Proposal{}).Error
}

func (s *Store) FlagProposal(id string) error {
	return s.db.Model(&Proposal{}).Where("id = ?", id).Update("flagged", true).Error
}

func (s *Store) CountSpaceProposalsSince(space string, since uint64) (uint64, error) {
	var total uint64
	err := s.db.Model(&Proposal{}).Where("space = ? AND created >= ?", space, since).Count(&total).Error
	return total, err
}

func (s *Store) CountActiveProposalsByAuthor(space, author string, now uint64) (uint64, error) {
	var total uint64
	err := s.db.Model(&Proposal{}).
		Where(`space = ? AND author = ? AND "end" >= ?`, space, author, now).
		Count(&total).Error
	return total, err
}

// ProposalsAwaitingValues batches proposals that still need their
// per-strategy USD values, scanning forward from the cursor id.
func (s *Store) ProposalsAwaitingValues(cursor string, now uint64, limit int) ([]Proposal, error) {
	var proposals []Proposal
	err := s.db.
		Where("cb IN (?, ?) AND start < ? AND id > ?",
			int(types.StatusPendingSync), int(types.StatusSyncError), now, cursor).
		Order("id asc").Limit(limit).Find(&proposals).Error
	return proposals, err
}

// ProposalsWithValues batches proposals whose vp_value_by_strategy is known,
// i.e. whose votes are ready to be valued.
func (s *Store) ProposalsWithValues(cursor string, limit int) ([]Proposal, error) {
	var proposals []Proposal
	err := s.db.
		Where("cb >= ? AND id > ?", int(types.StatusPendingCompute), cursor).
		Order("id asc").Limit(limit).Find(&proposals).Error
	return proposals, err
}

// SetProposalStatus advances cb. Terminal records are never touched: the
// guard keeps Ineligible and Final authoritative.
func (s *Store) SetProposalStatus(id string, cb types.StatusCode) error {
	return s.db.Model(&Proposal{}).
		Where("id = ? AND cb < ?", id, int(types.StatusIneligible)).
		Update("cb", int(cb)).Error
}

func (s *Store) SetProposalValues(id string, values []float64, cb types.StatusCode) error {
	return s.db.Model(&Proposal{}).
		Where("id = ? AND cb < ?", id, int(types.StatusIneligible)).
		Updates(map[string]interface{}{
			"vp_value_by_strategy": marshalFloats(values),
			"cb":                   int(cb),
		}).Error
}

// MarkProposalScoresFinal settles scores_state once voting has closed.
func (s *Store) MarkProposalScoresFinal(id string) error {
	return s.db.Model(&Proposal{}).
		Where("id = ? AND scores_state <> ?", id, types.VpStateFinal).
		Update("scores_state", types.VpStateFinal).Error
}

// RecomputeProposalValue refreshes scores_total_value from the votes table
// and advances a non-terminal cb to PendingFinal or Final.
func (s *Store) RecomputeProposalValue(id string) error {
	err := s.db.Exec(
		`UPDATE proposals SET scores_total_value =
			(SELECT COALESCE(SUM(vp_value), 0) FROM votes WHERE proposal = ?)
		 WHERE id = ?`, id, id).Error
	if err != nil {
		return err
	}
	return s.db.Exec(
		`UPDATE proposals SET cb = CASE WHEN scores_state = ? THEN ? ELSE ? END
		 WHERE id = ? AND cb IN (?, ?)`,
		types.VpStateFinal, int(types.StatusFinal), int(types.StatusPendingFinal),
		id, int(types.StatusPendingCompute), int(types.StatusPendingFinal)).Error
}

// RecomputeProposalScores rebuilds the synchronous vote aggregates: total
// score, the per-vote per-strategy matrix, and the vote count.
func (s *Store) RecomputeProposalScores(id string, end uint64, now uint64) error {
	var votes []Vote
	if err := s.db.Where("proposal = ?", id).Order("created asc, id asc").Find(&votes).Error; err != nil {
		return err
	}
	total := float64(0)
	matrix := make([][]float64, 0, len(votes))
	for _, v := range votes {
		total += v.Vp
		row := unmarshalFloats(v.VpByStrategy)
		if row == nil {
			row = []float64{}
		}
		matrix = append(matrix, row)
	}
	state := types.VpStatePending
	if now >= end {
		state = types.VpStateFinal
	}
	dat, _ := json.Marshal(matrix)
	return s.db.Model(&Proposal{}).Where("id = ?", id).Updates(map[string]interface{}{
		"scores_total":       total,
		"scores_by_strategy": string(dat),
		"scores_state":       state,
		"vote_count":         uint64(len(votes)),
		"updated":            now,
	}).Error
}

func (p *Proposal) ParseStrategies() []types.Strategy {
	return unmarshalStrategies(p.Strategies)
}

func (p *Proposal) ParseVpValues() []float64 {
	return unmarshalFloats(p.VpValueByStrategy)
}

func (p *Proposal) ParseChoices() []string {
	var choices []string
	if err := json.Unmarshal([]byte(p.Choices), &choices); err != nil {
		return nil
	}
	return choices
}
