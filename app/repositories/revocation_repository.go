package repositories

import (
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerRevocationRepository implements RevocationRepository with TTL'd keys,
// so entries disappear on their own once the token would have expired.
type BadgerRevocationRepository struct {
	db *badger.DB
}

// NewBadgerRevocationRepository creates a new BadgerRevocationRepository
func NewBadgerRevocationRepository(db *badger.DB) *BadgerRevocationRepository {
	return &BadgerRevocationRepository{db: db}
}

// Revoke marks tokenID as revoked until the given time.
func (r *BadgerRevocationRepository) Revoke(tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(RevokedKeyPrefix+tokenID), []byte{1}).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

// IsRevoked reports whether tokenID is currently revoked.
func (r *BadgerRevocationRepository) IsRevoked(tokenID string) (bool, error) {
	revoked := false
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(RevokedKeyPrefix + tokenID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		revoked = true
		return nil
	})
	return revoked, err
}
