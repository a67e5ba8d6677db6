// Package kvstore is the local persisted fallback backend used when no
// remote database is configured. Each entity collection is one
// JSON-serialized array under a fixed, human-readable key in the data
// directory. Operations are whole-collection read/modify/write cycles
// guarded by an in-process lock; a second concurrent process can still lose
// an update, which is an accepted limitation of the fallback path.
package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Collection keys, mirroring the original client-side store names.
const (
	usersKey      = "school_users"
	studentsKey   = "school_students"
	paymentsKey   = "school_payments"
	feeConfigsKey = "school_fee_configurations"
	busStopsKey   = "school_bus_stops"
)

type DB struct {
	dir string
	mu  sync.RWMutex
}

func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating data dir %s", dir)
	}
	return &DB{dir: dir}, nil
}

func (db *DB) path(key string) string {
	return filepath.Join(db.dir, key+".json")
}

// load reads an entire collection into v; a missing file is an empty
// collection, not an error.
func (db *DB) load(key string, v interface{}) error {
	b, err := os.ReadFile(db.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "reading collection %s", key)
	}
	if len(b) == 0 {
		return nil
	}
	if err = json.Unmarshal(b, v); err != nil {
		return errors.Wrapf(err, "decoding collection %s", key)
	}
	return nil
}

// save writes an entire collection back.
func (db *DB) save(key string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding collection %s", key)
	}
	if err = os.WriteFile(db.path(key), b, 0o644); err != nil {
		return errors.Wrapf(err, "writing collection %s", key)
	}
	return nil
}

// newID returns a timestamp-derived identity token for local rows.
func newID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}
