// Package store archives games in BadgerDB, keyed by game id.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

const keyPrefix = "game/"

// Record is an archived game. Position data is kept only in its exported
// text forms, the FEN and the repetition signature.
type Record struct {
	ID        uuid.UUID `json:"id"`
	FEN       string    `json:"fen"`
	Signature string    `json:"signature"`
	Moves     string    `json:"moves"`
	Status    string    `json:"status"`
	Result    string    `json:"result"`
	Winner    string    `json:"winner,omitempty"`
	Plies     int       `json:"plies"`
	SavedAt   time.Time `json:"saved_at"`
}

// Store wraps BadgerDB for the game archive.
type Store struct {
	db *badger.DB
}

// Open opens the archive in dir. An empty dir keeps the archive in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open store %q", dir)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func key(id uuid.UUID) []byte {
	return []byte(keyPrefix + id.String())
}

// Save writes rec, replacing any record with the same id. A nil id is
// replaced by a fresh one and a zero SavedAt by the current time.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(rec.ID), data)
	})
}

// Load returns the record stored under id, or an error wrapping ErrNotFound.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec := &Record{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(errors.ErrNotFound, "game %s", id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns every record, oldest first.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	var out []*Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := &Record{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			}); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SavedAt.Before(out[j].SavedAt)
	})
	return out, nil
}

// Delete removes the record stored under id. Deleting a missing record
// returns an error wrapping ErrNotFound.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key(id)); err == badger.ErrKeyNotFound {
			return errors.Wrapf(errors.ErrNotFound, "game %s", id)
		} else if err != nil {
			return err
		}
		return txn.Delete(key(id))
	})
}

// RecordOf snapshots g into a record with the given id.
func RecordOf(id uuid.UUID, g *engine.Game) *Record {
	rec := &Record{
		ID:        id,
		FEN:       g.FEN(),
		Signature: g.Signature(),
		Moves:     g.MoveHistoryText(),
		Status:    g.Status().String(),
		Result:    g.Status().Result(),
		Plies:     g.Ply(),
	}
	if w, ok := g.Winner(); ok {
		rec.Winner = w.String()
	}
	return rec
}
