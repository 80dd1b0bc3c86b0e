package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"github.com/yukikurage/dropoff-point-api/internal/utils"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// Create creates a new account
	Create(ctx context.Context, account *models.Account) error

	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)

	// FindByEmail finds an account by email
	FindByEmail(ctx context.Context, email string) (*models.Account, error)

	// List returns a page of accounts and the total count
	List(ctx context.Context, page utils.PaginationParams) ([]models.Account, int64, error)

	// Update writes an existing account, gorm.ErrRecordNotFound when it is gone
	Update(ctx context.Context, account *models.Account) error

	// Delete deletes an account together with its memberships and drop-off points
	Delete(ctx context.Context, id uuid.UUID) error
}

// MembershipRepository defines the interface for membership data access
type MembershipRepository interface {
	// Create creates a new membership
	Create(ctx context.Context, membership *models.Membership) error

	// FindByID finds a membership by ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Membership, error)

	// FindByPair finds the membership between two accounts in either direction
	FindByPair(ctx context.Context, a, b uuid.UUID) (*models.Membership, error)

	// FindByOrganizationAndMember finds the membership of member in organization
	FindByOrganizationAndMember(ctx context.Context, organizationID, memberID uuid.UUID) (*models.Membership, error)

	// FindAccepted finds an accepted membership belonging to organization
	FindAccepted(ctx context.Context, organizationID, id uuid.UUID) (*models.Membership, error)

	// Accept flips a pending membership of member to accepted and reports
	// whether a row changed
	Accept(ctx context.Context, id, memberID uuid.UUID) (bool, error)

	// Delete clears drop-off point references to the membership, then deletes it
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByMember lists memberships of member joined with organization details
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]MembershipWithOrganization, error)

	// ListByOrganization lists memberships of organization joined with member details
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]MembershipWithMember, error)
}

// DropOffPointRepository defines the interface for drop-off point data access
type DropOffPointRepository interface {
	// Create creates a new drop-off point
	Create(ctx context.Context, point *models.DropOffPoint) error

	// FindByID finds a drop-off point by ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.DropOffPoint, error)

	// FindByIDForUpdate finds a drop-off point by ID and locks its row
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.DropOffPoint, error)

	// FindWithOwner finds a drop-off point by ID joined with its owner's name
	FindWithOwner(ctx context.Context, id uuid.UUID) (*DropOffPointWithOwner, error)

	// List retrieves drop-off points with filtering and pagination
	List(ctx context.Context, filter DropOffPointFilter) ([]DropOffPointWithOwner, int64, error)

	// Update writes an existing drop-off point, gorm.ErrRecordNotFound when it is gone
	Update(ctx context.Context, point *models.DropOffPoint) error

	// Delete deletes a drop-off point
	Delete(ctx context.Context, id uuid.UUID) error
}

// DropOffPointFilter holds filtering options for listing drop-off points
type DropOffPointFilter struct {
	// VisibleTo restricts results to points owned by, or delegated to, the
	// account. Nil returns every point.
	VisibleTo *uuid.UUID
	Page      utils.PaginationParams
}

// MembershipWithOrganization is a membership joined with its organization account
type MembershipWithOrganization struct {
	models.Membership
	OrganizationEmail string
	OrganizationName  *string
}

// MembershipWithMember is a membership joined with its member account
type MembershipWithMember struct {
	models.Membership
	MemberEmail          string
	MemberFullName       *string
	MemberIsActive       bool
	MemberIsSuperuser    bool
	MemberIsOrganization bool
}

// DropOffPointWithOwner is a drop-off point joined with its owner's name
type DropOffPointWithOwner struct {
	models.DropOffPoint
	OwnerFullName *string
}

// Store groups the repositories bound to one database handle
type Store struct {
	Accounts      AccountRepository
	Memberships   MembershipRepository
	DropOffPoints DropOffPointRepository

	runInTx func(ctx context.Context, fn func(store *Store) error) error
}

// RunInTx runs fn against repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) RunInTx(ctx context.Context, fn func(store *Store) error) error {
	return s.runInTx(ctx, fn)
}
