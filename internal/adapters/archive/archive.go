// Package archive persists rating state between replay runs. Riders and
// processed races are stored as JSON values in a bolt database so a run can
// be resumed, audited, or exported without re-reading the raw results.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/SamMorton123/velo-research/internal/domain/model"
	"github.com/boltdb/bolt"
)

// Bucket names inside the bolt file.
var (
	ridersBucket = []byte("riders")
	racesBucket  = []byte("races")
)

// Snapshot is the persisted form of one rider's rating state.
type Snapshot struct {
	Name       string              `json:"name"`
	Age        int                 `json:"age,omitempty"`
	Rating     float64             `json:"rating"`
	Deviation  float64             `json:"deviation,omitempty"`
	Volatility float64             `json:"volatility,omitempty"`
	ActiveYear int                 `json:"active_year"`
	History    []model.RatingPoint `json:"history"`
}

// SnapshotOf captures a rider's current state and rating timeline.
func SnapshotOf(r *model.Rider) Snapshot {
	return Snapshot{
		Name:       r.Name,
		Age:        r.Age,
		Rating:     r.Rating,
		Deviation:  r.Deviation,
		Volatility: r.Volatility,
		ActiveYear: r.MostRecentActiveYear,
		History:    r.History(),
	}
}

// Store is a bolt-backed archive of rider snapshots and processed races.
type Store struct {
	db *bolt.DB

	fileMode    os.FileMode
	openTimeout time.Duration
}

// Open opens (or creates) the archive file at path.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		fileMode:    0o600,
		openTimeout: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := bolt.Open(path, s.fileMode, &bolt.Options{Timeout: s.openTimeout})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenArchive, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{ridersBucket, racesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: creating buckets: %w", ErrOpenArchive, err)
	}

	s.db = db
	return s, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}
	return nil
}

// PutRiders writes a batch of rider snapshots in a single transaction,
// replacing any previous snapshot under the same name.
func (s *Store) PutRiders(_ context.Context, snaps []Snapshot) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(ridersBucket)
		for _, snap := range snaps {
			data, err := json.Marshal(snap)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(snap.Name), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: riders: %w", ErrArchiveWrite, err)
	}
	return nil
}

// Rider returns the stored snapshot for one rider.
func (s *Store) Rider(_ context.Context, name string) (Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(ridersBucket).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: rider %q", ErrNotArchived, name)
		}
		return json.Unmarshal(data, &snap)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Riders returns every stored snapshot, sorted by rider name.
func (s *Store) Riders(_ context.Context) ([]Snapshot, error) {
	var out []Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(ridersBucket).ForEach(func(_, v []byte) error {
			var snap Snapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return err
			}
			out = append(out, snap)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: riders: %w", ErrArchiveRead, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// PutRaces records races as processed, keyed by name and date.
func (s *Store) PutRaces(_ context.Context, races []model.Race) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(racesBucket)
		for _, race := range races {
			data, err := json.Marshal(race)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(race.Key()), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: races: %w", ErrArchiveWrite, err)
	}
	return nil
}

// Races returns every archived race, sorted by date then name.
func (s *Store) Races(_ context.Context) ([]model.Race, error) {
	var out []model.Race
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(racesBucket).ForEach(func(_, v []byte) error {
			var race model.Race
			if err := json.Unmarshal(v, &race); err != nil {
				return err
			}
			out = append(out, race)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: races: %w", ErrArchiveRead, err)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
