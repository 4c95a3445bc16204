// Package visits persists the per-repository log of checkout visits. The
// log is written by a short-lived hook process on every checkout and read by
// the recency ranker, so every mutation happens inside bbolt's cross-process
// exclusive file lock.
package visits

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/poy5861R/scutiger/internal/git"
)

var (
	// ErrLockTimeout reports that exclusive access to the log could not be
	// acquired within the configured wait, even after retrying.
	ErrLockTimeout = errors.New("timed out waiting for visit log lock")

	// ErrCorrupt reports a record that could not be decoded. Callers must be
	// able to tell a damaged log from an empty one, so this is never
	// swallowed into an empty result.
	ErrCorrupt = errors.New("visit log is corrupt")
)

var logBucket = []byte("visits")

// Record is one persisted visit: a subject checked out at a point in time.
type Record struct {
	Subject git.Subject
	At      time.Time
}

// Options tune how the store acquires its file lock.
type Options struct {
	// LockTimeout bounds a single open attempt. Zero falls back to the
	// default; the store never waits unboundedly.
	LockTimeout time.Duration
	// LockRetries is how many extra open attempts to make on contention.
	LockRetries int
	// LockBackoff is the pause between attempts.
	LockBackoff time.Duration
}

// DefaultOptions returns the lock settings used when no configuration
// overrides them.
func DefaultOptions() Options {
	return Options{
		LockTimeout: 500 * time.Millisecond,
		LockRetries: 3,
		LockBackoff: 50 * time.Millisecond,
	}
}

// Store is an append-mostly log of visit records backed by a single bbolt
// file. Open it, operate, Close it; the zero value is not usable.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the visit log at path. Lock contention
// is retried a bounded number of times before reporting ErrLockTimeout.
func Open(path string, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create visit log directory: %w", err)
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = DefaultOptions().LockTimeout
	}

	var db *bolt.DB
	var err error
	for attempt := 0; attempt <= opts.LockRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(opts.LockBackoff)
		}
		db, err = bolt.Open(path, 0o600, &bolt.Options{Timeout: opts.LockTimeout})
		if err == nil {
			return &Store{db: db}, nil
		}
		if !errors.Is(err, bolt.ErrTimeout) {
			return nil, fmt.Errorf("open visit log: %w", err)
		}
	}
	return nil, ErrLockTimeout
}

// Close releases the store and its file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one visit. The append is a single transaction, so a crash
// mid-write leaves previously appended records intact and the torn record
// invisible.
func (s *Store) Record(subject git.Subject, at time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(logBucket)
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(itob(seq), encodeRecord(subject, at))
	})
}

// ReadAll returns every persisted record in append order. Ordering for
// ranking is the caller's responsibility; each record carries its own
// timestamp. A record that fails to decode reports ErrCorrupt.
func (s *Store) ReadAll() ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(logBucket)
		if b == nil {
			return nil // no visits yet
		}
		return b.ForEach(func(_, v []byte) error {
			rec, err := decodeRecord(v)
			if err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Compact keeps, for each subject, only the record with the greatest
// timestamp, bounding log growth. It runs in one read-write transaction, so
// concurrent appends from other processes serialize before or after it and
// are never lost.
func (s *Store) Compact() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(logBucket)
		if b == nil {
			return nil
		}

		type newest struct {
			key []byte
			at  time.Time
		}
		latest := make(map[git.Subject]newest)
		var stale [][]byte

		err := b.ForEach(func(k, v []byte) error {
			rec, err := decodeRecord(v)
			if err != nil {
				return err
			}
			prev, ok := latest[rec.Subject]
			if !ok {
				latest[rec.Subject] = newest{key: append([]byte(nil), k...), at: rec.At}
				return nil
			}
			if rec.At.After(prev.at) {
				stale = append(stale, prev.key)
				latest[rec.Subject] = newest{key: append([]byte(nil), k...), at: rec.At}
			} else {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// On-disk record layout: 1-byte subject kind tag, 8-byte big-endian unix
// timestamp (seconds), then the subject value bytes.
const recordHeaderLen = 9

func encodeRecord(subject git.Subject, at time.Time) []byte {
	buf := make([]byte, recordHeaderLen, recordHeaderLen+len(subject.Name))
	buf[0] = byte(subject.Kind)
	binary.BigEndian.PutUint64(buf[1:], uint64(at.Unix()))
	return append(buf, subject.Name...)
}

func decodeRecord(v []byte) (Record, error) {
	if len(v) < recordHeaderLen {
		return Record{}, fmt.Errorf("%w: record truncated at %d bytes", ErrCorrupt, len(v))
	}
	kind := git.SubjectKind(v[0])
	if kind != git.SubjectRef && kind != git.SubjectCommit {
		return Record{}, fmt.Errorf("%w: unknown subject kind %d", ErrCorrupt, v[0])
	}
	ts := int64(binary.BigEndian.Uint64(v[1:recordHeaderLen]))
	name := string(bytes.Clone(v[recordHeaderLen:]))
	return Record{
		Subject: git.Subject{Kind: kind, Name: name},
		At:      time.Unix(ts, 0).UTC(),
	}, nil
}

// itob returns an 8-byte big-endian representation of v, so bucket keys sort
// in append order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
