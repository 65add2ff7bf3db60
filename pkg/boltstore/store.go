// Package boltstore persists player records in a bbolt database.
package boltstore

import (
	"errors"
	"fmt"
	"os"
	"time"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/gamedb"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("boltstore: player not found")

// Store wraps a bbolt database of player records. Records are keyed by
// persistent id; a secondary index maps lowercased names to ids.
type Store struct {
	bolt *bbolt.DB
	log  *zap.Logger
}

// Open opens or creates a bbolt database file and ensures all buckets exist.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	// a running server holds the file lock
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketPlayers, bucketIndex} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketMeta).Put(keyVersion, idToKey(schemaVersion))
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltstore: create buckets: %w", err)
	}

	return &Store{bolt: db, log: log}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	if s.bolt != nil {
		return s.bolt.Close()
	}
	return nil
}

// Path returns the filesystem path of the underlying bbolt database.
func (s *Store) Path() string {
	if s.bolt != nil {
		return s.bolt.Path()
	}
	return ""
}

// Get loads the record with the given id.
func (s *Store) Get(id gamedb.PlayerID) (*gamedb.PlayerRecord, error) {
	var rec *gamedb.PlayerRecord
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		var err error
		rec, err = getTx(tx, id)
		return err
	})
	return rec, err
}

// GetByName loads the record for a player name, case-insensitively.
func (s *Store) GetByName(name string) (*gamedb.PlayerRecord, error) {
	var rec *gamedb.PlayerRecord
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketIndex).Get(nameKey(name))
		if v == nil {
			return ErrNotFound
		}
		var err error
		rec, err = getTx(tx, keyToID(v))
		return err
	})
	return rec, err
}

func getTx(tx *bbolt.Tx, id gamedb.PlayerID) (*gamedb.PlayerRecord, error) {
	v := tx.Bucket(bucketPlayers).Get(idToKey(id))
	if v == nil {
		return nil, ErrNotFound
	}
	rec, err := decodeRecord(v)
	if err != nil {
		return nil, fmt.Errorf("boltstore: decode player %d: %w", id, err)
	}
	return rec, nil
}

// Put saves a record. A record without an id is given the next persistent
// id first. The name index follows renames.
func (s *Store) Put(rec *gamedb.PlayerRecord) error {
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		players := tx.Bucket(bucketPlayers)
		index := tx.Bucket(bucketIndex)

		if rec.ID == gamedb.NoPlayer || rec.ID == 0 {
			seq, err := players.NextSequence()
			if err != nil {
				return fmt.Errorf("boltstore: next id: %w", err)
			}
			rec.ID = gamedb.PlayerID(seq)
		} else if old, err := getTx(tx, rec.ID); err == nil && !sameName(old.Name, rec.Name) {
			if err := index.Delete(nameKey(old.Name)); err != nil {
				return err
			}
		}

		data, err := encodeRecord(rec)
		if err != nil {
			return fmt.Errorf("boltstore: encode player %s: %w", rec.Name, err)
		}
		if err := players.Put(idToKey(rec.ID), data); err != nil {
			return err
		}
		return index.Put(nameKey(rec.Name), idToKey(rec.ID))
	})
}

// Delete removes a record and its name index entry.
func (s *Store) Delete(id gamedb.PlayerID) error {
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		rec, err := getTx(tx, id)
		if err != nil {
			return err
		}
		index := tx.Bucket(bucketIndex)
		if v := index.Get(nameKey(rec.Name)); v != nil && keyToID(v) == id {
			if err := index.Delete(nameKey(rec.Name)); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketPlayers).Delete(idToKey(id))
	})
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	n := 0
	s.bolt.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketPlayers).Stats().KeyN
		return nil
	})
	return n
}

// Backup creates a hot snapshot of the bbolt database using tx.WriteTo().
func (s *Store) Backup(path string) error {
	return s.bolt.View(func(tx *bbolt.Tx) error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("boltstore: create backup %s: %w", path, err)
		}
		defer f.Close()
		if _, err := tx.WriteTo(f); err != nil {
			return fmt.Errorf("boltstore: write backup: %w", err)
		}
		s.log.Info("boltstore: backup written", zap.String("path", path))
		return nil
	})
}

func sameName(a, b string) bool {
	return string(nameKey(a)) == string(nameKey(b))
}
