package repository

import (
	"context"

	"gorm.io/gorm"
)

// NewStore creates a Store backed by db
func NewStore(db *gorm.DB) *Store {
	s := &Store{
		Accounts:      NewAccountRepository(db),
		Memberships:   NewMembershipRepository(db),
		DropOffPoints: NewDropOffPointRepository(db),
	}
	s.runInTx = func(ctx context.Context, fn func(store *Store) error) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(NewStore(tx))
		})
	}
	return s
}
