package store

import (
	"fmt"
	"strings"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

// CurrentVote returns the single current row for (voter, proposal, space),
// or nil when the voter has not voted yet.
func (s *Store) CurrentVote(voter, proposal, space string) (*Vote, error) {
	var vote Vote
	err := s.db.Where("voter = ? AND proposal = ? AND space = ?", voter, proposal, space).
		First(&vote).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

func (s *Store) CreateVote(v *Vote) error {
	return s.db.Create(v).Error
}

// SupersedeVote overwrites the stored row in place, keeping the
// one-current-vote-per-voter invariant. The message id changes with the
// superseding message.
func (s *Store) SupersedeVote(oldID string, v *Vote) error {
	return s.db.Model(&Vote{}).Where("id = ?", oldID).Updates(map[string]interface{}{
		"id":             v.ID,
		"ipfs":           v.IPFS,
		"choice":         v.Choice,
		"reason":         v.Reason,
		"app":            v.App,
		"vp":             v.Vp,
		"vp_by_strategy": v.VpByStrategy,
		"vp_state":       v.VpState,
		"vp_value":       float64(0),
		"created":        v.Created,
		"cb":             int(types.StatusPendingSync),
	}).Error
}

// VotesAwaitingValue batches votes of one proposal that still need their USD
// value. PendingSync rows qualify too: once the proposal carries strategy
// values the first valuation pass is implicit. With finalize set, PendingFinal
// rows are revisited so they can settle once the proposal's scores are final.
func (s *Store) VotesAwaitingValue(proposal string, finalize bool, limit int) ([]Vote, error) {
	statuses := []int{int(types.StatusPendingSync), int(types.StatusPendingCompute)}
	if finalize {
		statuses = append(statuses, int(types.StatusPendingFinal))
	}
	var votes []Vote
	err := s.db.
		Where("proposal = ? AND cb IN (?)", proposal, statuses).
		Order("id asc").Limit(limit).Find(&votes).Error
	return votes, err
}

type VoteValueUpdate struct {
	ID    string
	Value float64
	Cb    types.StatusCode
}

// ApplyVoteValues writes values and next statuses for a whole batch in a
// single CASE-keyed statement, keeping lock duration minimal.
func (s *Store) ApplyVoteValues(updates []VoteValueUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	var sb strings.Builder
	args := make([]interface{}, 0, len(updates)*5)
	sb.WriteString("UPDATE votes SET vp_value = CASE id")
	for _, u := range updates {
		sb.WriteString(" WHEN ? THEN ?")
		args = append(args, u.ID, u.Value)
	}
	sb.WriteString(" END, cb = CASE id")
	for _, u := range updates {
		sb.WriteString(" WHEN ? THEN ?")
		args = append(args, u.ID, int(u.Cb))
	}
	sb.WriteString(fmt.Sprintf(" END WHERE id IN (?%s) AND cb < ?",
		strings.Repeat(", ?", len(updates)-1)))
	for _, u := range updates {
		args = append(args, u.ID)
	}
	args = append(args, int(types.StatusIneligible))
	return s.db.Exec(sb.String(), args...).Error
}
