package metadata

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var metadataBucket = []byte("metadata")

// BoltRepository keeps values in a single bbolt bucket.
type BoltRepository struct {
	db *bbolt.DB
}

var _ Repository = (*BoltRepository)(nil)

func NewBoltRepository(db *bbolt.DB) *BoltRepository {
	return &BoltRepository{db: db}
}

// OpenBoltRepository opens (or creates) the bbolt file at path.
func OpenBoltRepository(path string) (*BoltRepository, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewBoltRepository(db), nil
}

// Close closes the underlying bbolt database.
func (r *BoltRepository) Close() error {
	return r.db.Close()
}

func (r *BoltRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(metadataBucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			// v is only valid inside the transaction.
			value = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *BoltRepository) Set(ctx context.Context, key string, value []byte) error {
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(metadataBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *BoltRepository) Delete(ctx context.Context, key string) error {
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(metadataBucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}
