// internal/docstore/docstore.go
package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"

	"github.com/bytemart/bytemart-backend/internal/apperrors"
)

// Collection names. One bbolt bucket per collection; records are JSON
// documents keyed by their id, so the stored shape stays the same JSON the
// API serves.
const (
	Users      = "users"
	Stores     = "stores"
	Products   = "products"
	Sales      = "sales"
	BlockedIPs = "blocked_ips"
)

var collections = []string{Users, Stores, Products, Sales, BlockedIPs}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DB is an embedded per-collection document store. Every mutation runs in a
// single bbolt update transaction, so concurrent read-modify-write cycles on
// the same collection serialize instead of losing updates.
type DB struct {
	bolt *bolt.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	b, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = b.Update(func(tx *bolt.Tx) error {
		for _, name := range collections {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		b.Close()
		return nil, err
	}

	return &DB{bolt: b}, nil
}

func (db *DB) Close() error {
	return db.bolt.Close()
}

// Tx wraps a bbolt transaction so a single request can touch several
// collections atomically (e.g. delete a product and prune its store's list).
type Tx struct {
	btx *bolt.Tx
}

func (db *DB) Update(fn func(tx *Tx) error) error {
	return db.bolt.Update(func(btx *bolt.Tx) error {
		return fn(&Tx{btx: btx})
	})
}

func (db *DB) View(fn func(tx *Tx) error) error {
	return db.bolt.View(func(btx *bolt.Tx) error {
		return fn(&Tx{btx: btx})
	})
}

// TxAll decodes every document in a collection. Corrupt documents fail the
// whole read; callers never see a partially parsed collection.
func TxAll[T any](tx *Tx, collection string) ([]T, error) {
	bucket := tx.btx.Bucket([]byte(collection))
	if bucket == nil {
		return nil, apperrors.Internal(fmt.Errorf("unknown collection %q", collection))
	}

	var items []T
	err := bucket.ForEach(func(_, v []byte) error {
		var item T
		if err := json.Unmarshal(v, &item); err != nil {
			return apperrors.Internal(fmt.Errorf("corrupt document in %s: %w", collection, err))
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func TxGet[T any](tx *Tx, collection, id string) (T, error) {
	var item T
	bucket := tx.btx.Bucket([]byte(collection))
	if bucket == nil {
		return item, apperrors.Internal(fmt.Errorf("unknown collection %q", collection))
	}

	raw := bucket.Get([]byte(id))
	if raw == nil {
		return item, apperrors.NotFound("record")
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, apperrors.Internal(fmt.Errorf("corrupt document %s/%s: %w", collection, id, err))
	}
	return item, nil
}

func TxPut[T any](tx *Tx, collection, id string, doc T) error {
	bucket := tx.btx.Bucket([]byte(collection))
	if bucket == nil {
		return apperrors.Internal(fmt.Errorf("unknown collection %q", collection))
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to encode %s/%s: %w", collection, id, err))
	}
	if err := bucket.Put([]byte(id), raw); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func TxDelete(tx *Tx, collection, id string) error {
	bucket := tx.btx.Bucket([]byte(collection))
	if bucket == nil {
		return apperrors.Internal(fmt.Errorf("unknown collection %q", collection))
	}
	if err := bucket.Delete([]byte(id)); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// Convenience single-operation wrappers.

func All[T any](db *DB, collection string) ([]T, error) {
	var items []T
	err := db.View(func(tx *Tx) error {
		var err error
		items, err = TxAll[T](tx, collection)
		return err
	})
	return items, err
}

func Get[T any](db *DB, collection, id string) (T, error) {
	var item T
	err := db.View(func(tx *Tx) error {
		var err error
		item, err = TxGet[T](tx, collection, id)
		return err
	})
	return item, err
}

func Put[T any](db *DB, collection, id string, doc T) error {
	return db.Update(func(tx *Tx) error {
		return TxPut(tx, collection, id, doc)
	})
}

func Delete(db *DB, collection, id string) error {
	return db.Update(func(tx *Tx) error {
		return TxDelete(tx, collection, id)
	})
}
