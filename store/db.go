package store

import (
	"encoding/json"
	"errors"

	"cosmossdk.io/log"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	logger log.Logger
	db     *gorm.DB
}

func Open(dbPath string, logger log.Logger) (*Store, error) {
	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&Space{}, &Proposal{}, &Vote{}, &Alias{}, &Follow{}, &Subscription{},
		&User{}, &Statement{}, &Message{}, &Leaderboard{},
	).Error; err != nil {
		return nil, err
	}
	return &Store{
		logger: logger.With("module", "store"),
		db:     db,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for package-internal batch statements.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func marshalFloats(v []float64) string {
	if v == nil {
		v = []float64{}
	}
	dat, _ := json.Marshal(v)
	return string(dat)
}

func unmarshalFloats(dat string) []float64 {
	if dat == "" {
		return nil
	}
	var v []float64
	if err := json.Unmarshal([]byte(dat), &v); err != nil {
		return nil
	}
	return v
}

func marshalStrategies(v []types.Strategy) string {
	if v == nil {
		v = []types.Strategy{}
	}
	dat, _ := json.Marshal(v)
	return string(dat)
}

func unmarshalStrategies(dat string) []types.Strategy {
	if dat == "" {
		return nil
	}
	var v []types.Strategy
	if err := json.Unmarshal([]byte(dat), &v); err != nil {
		return nil
	}
	return v
}
