package store

import (
	"encoding/json"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

// GetSpace returns nil without error when the space does not exist.
func (s *Store) GetSpace(id string) (*Space, error) {
	var space Space
	if err := s.db.Where("id = ?", id).First(&space).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &space, nil
}

func (s *Store) SaveSpace(space *Space) error {
	return s.db.Save(space).Error
}

func (s *Store) MarkSpaceDeleted(id string, at uint64) error {
	return s.db.Model(&Space{}).Where("id = ?", id).
		Updates(map[string]interface{}{"deleted": true, "updated": at}).Error
}

func (s *Store) FlagSpace(id string, flagged bool) error {
	return s.db.Model(&Space{}).Where("id = ?", id).
		Update("flagged", flagged).Error
}

func (sp *Space) ParseSettings() (*types.SpaceSettings, error) {
	settings := new(types.SpaceSettings)
	if err := json.Unmarshal([]byte(sp.Settings), settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Tier-dependent proposal rate limits.
func (sp *Space) ProposalDayLimit() uint64 {
	switch {
	case sp.Turbo:
		return 40
	case sp.Verified:
		return 20
	default:
		return 3
	}
}

func (sp *Space) ProposalMonthLimit() uint64 {
	switch {
	case sp.Turbo:
		return 200
	case sp.Verified:
		return 100
	default:
		return 15
	}
}
