package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/planner/repository"
)

var (
	bucketUsers      = []byte("users")
	bucketUserEmails = []byte("user_emails")
	bucketTeams      = []byte("teams")
	bucketMembers    = []byte("members")
	bucketProjects   = []byte("projects")
	bucketTasks      = []byte("tasks")

	allBuckets = [][]byte{bucketUsers, bucketUserEmails, bucketTeams, bucketMembers, bucketProjects, bucketTasks}
)

var errReadOnlyTx = errors.New("boltdb: write attempted inside read-only transaction")

// Store keeps planner records in a single BoltDB file. Every write happens in
// a bolt read-write transaction, which bolt serializes.
type Store struct {
	db *bolt.DB
}

// Open initializes the BoltDB file and ensures the buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Repositories wires every repository of the store into a repository.Store.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Users:    &userRepository{store: s},
		Teams:    &teamRepository{store: s},
		Members:  &memberRepository{store: s},
		Projects: &projectRepository{store: s},
		Tasks:    &taskRepository{store: s},
		Tx:       s,
	}
}

type txKey struct{}

// RunInTx runs fn inside one bolt read-write transaction. Nested calls join
// the outer transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := txFrom(ctx); tx != nil && tx.Writable() {
		return fn(ctx)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Ping reports whether the database file is open.
func (s *Store) Ping() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bolt.Tx) error { return nil })
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func txFrom(ctx context.Context) *bolt.Tx {
	if ctx == nil {
		return nil
	}
	tx, _ := ctx.Value(txKey{}).(*bolt.Tx)
	return tx
}

func (s *Store) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if tx := txFrom(ctx); tx != nil {
		return fn(tx)
	}
	return s.db.View(fn)
}

func (s *Store) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if tx := txFrom(ctx); tx != nil {
		if !tx.Writable() {
			return errReadOnlyTx
		}
		return fn(tx)
	}
	return s.db.Update(fn)
}

func getJSON(tx *bolt.Tx, bucket []byte, key string, v interface{}) (bool, error) {
	raw := tx.Bucket(bucket).Get([]byte(key))
	if raw == nil {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func putJSON(tx *bolt.Tx, bucket []byte, key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return tx.Bucket(bucket).Put([]byte(key), payload)
}

// scan decodes every record of bucket into a fresh T and passes it to fn.
func scan[T any](tx *bolt.Tx, bucket []byte, fn func(item T)) error {
	return tx.Bucket(bucket).ForEach(func(_, v []byte) error {
		var item T
		if err := json.Unmarshal(v, &item); err != nil {
			return err
		}
		fn(item)
		return nil
	})
}
