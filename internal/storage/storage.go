package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
)

// Preferences stores the engine options last applied over UCI, so a
// fresh process starts where the previous one left off.
type Preferences struct {
	HashMB   int       `json:"hash_mb"`
	MultiPV  int       `json:"multi_pv"`
	Ponder   bool      `json:"ponder"`
	LastUsed time.Time `json:"last_used"`
}

// DefaultPreferences returns the engine option defaults.
func DefaultPreferences() *Preferences {
	return &Preferences{
		HashMB:   64,
		MultiPV:  1,
		Ponder:   false,
		LastUsed: time.Now(),
	}
}

// SearchStats accumulates search activity across engine sessions.
type SearchStats struct {
	Searches      int           `json:"searches"`
	TotalNodes    uint64        `json:"total_nodes"`
	DeepestSearch int           `json:"deepest_search"`
	TotalTime     time.Duration `json:"total_time"`
}

// NewSearchStats returns empty statistics.
func NewSearchStats() *SearchStats {
	return &SearchStats{}
}

// SearchRecord describes one completed search.
type SearchRecord struct {
	Depth    int
	Nodes    uint64
	Duration time.Duration
}

// NodesPerSecond returns the lifetime average search speed.
func (s *SearchStats) NodesPerSecond() float64 {
	if s.TotalTime <= 0 {
		return 0
	}
	return float64(s.TotalNodes) / s.TotalTime.Seconds()
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens the database in an explicit directory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logging is noise on a UCI console

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves the engine preferences.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads the engine preferences, returning defaults if
// none were saved.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil // use defaults
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

// SaveStats saves the search statistics.
func (s *Storage) SaveStats(stats *SearchStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads the search statistics, returning empty stats if none
// were saved.
func (s *Storage) LoadStats() (*SearchStats, error) {
	stats := NewSearchStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil // use empty stats
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordSearch folds one completed search into the statistics.
func (s *Storage) RecordSearch(rec SearchRecord) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.Searches++
	stats.TotalNodes += rec.Nodes
	stats.TotalTime += rec.Duration
	if rec.Depth > stats.DeepestSearch {
		stats.DeepestSearch = rec.Depth
	}

	return s.SaveStats(stats)
}
