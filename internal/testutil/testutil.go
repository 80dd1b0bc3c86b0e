// Package testutil holds database fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/dropoff-point-api/internal/database"
	"github.com/yukikurage/dropoff-point-api/internal/logging"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database with foreign keys on.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open("file::memory:?_foreign_keys=on"), logging.Discard())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, logging.Discard()))
	return db
}

// AccountOption customizes an account created by CreateAccount.
type AccountOption func(a *models.Account)

func Organization() AccountOption {
	return func(a *models.Account) {
		a.IsOrganization = true
	}
}

func Superuser() AccountOption {
	return func(a *models.Account) {
		a.IsSuperuser = true
	}
}

func Inactive() AccountOption {
	return func(a *models.Account) {
		a.IsActive = false
	}
}

func WithFullName(name string) AccountOption {
	return func(a *models.Account) {
		a.FullName = &name
	}
}

// CreateAccount inserts an active account with email.
func CreateAccount(t *testing.T, db *gorm.DB, email string, opts ...AccountOption) *models.Account {
	t.Helper()

	account := &models.Account{
		Email:    email,
		IsActive: true,
	}
	for _, opt := range opts {
		opt(account)
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

// CreateMembership inserts a membership of member in organization.
func CreateMembership(t *testing.T, db *gorm.DB, organization, member *models.Account, pending bool) *models.Membership {
	t.Helper()

	membership := &models.Membership{
		OrganizationID: organization.ID,
		MemberID:       member.ID,
		IsPending:      pending,
	}
	require.NoError(t, db.Create(membership).Error)
	return membership
}

// CreateDropOffPoint inserts a drop-off point owned by owner.
func CreateDropOffPoint(t *testing.T, db *gorm.DB, owner *models.Account, title string, responsible *models.Membership) *models.DropOffPoint {
	t.Helper()

	point := &models.DropOffPoint{
		Title:   title,
		OwnerID: owner.ID,
	}
	if responsible != nil {
		id := responsible.ID
		point.ResponsibleID = &id
	}
	require.NoError(t, db.Create(point).Error)
	return point
}
