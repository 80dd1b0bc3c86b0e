package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yukikurage/dropoff-point-api/internal/database"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"gorm.io/gorm"
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Create creates a new membership
func (r *GormMembershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

// FindByID finds a membership by ID
func (r *GormMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindByPair finds the membership between two accounts in either direction
func (r *GormMembershipRepository) FindByPair(ctx context.Context, a, b uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.WithContext(ctx).
		Where("pair_key = ?", models.MembershipPairKey(a, b)).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindByOrganizationAndMember finds the membership of member in organization
func (r *GormMembershipRepository) FindByOrganizationAndMember(ctx context.Context, organizationID, memberID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND member_id = ?", organizationID, memberID).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindAccepted finds an accepted membership belonging to organization
func (r *GormMembershipRepository) FindAccepted(ctx context.Context, organizationID, id uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ? AND is_pending = ?", id, organizationID, false).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// Accept flips a pending membership of member to accepted
func (r *GormMembershipRepository) Accept(ctx context.Context, id, memberID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("id = ? AND member_id = ? AND is_pending = ?", id, memberID, true).
		Update("is_pending", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete clears every drop-off point delegated through the membership and
// then removes the membership, in that order, within one transaction
func (r *GormMembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.DropOffPoint{}).
			Where("responsible_id = ?", id).
			Update("responsible_id", nil).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Membership{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// ListByMember lists memberships of member joined with organization details
func (r *GormMembershipRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]MembershipWithOrganization, error) {
	var memberships []MembershipWithOrganization
	if err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select("memberships.*, accounts.email AS organization_email, accounts.full_name AS organization_name").
		Joins("JOIN accounts ON accounts.id = memberships.organization_id").
		Where("memberships.member_id = ?", memberID).
		Scopes(database.CreationOrder("memberships")).
		Scan(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListByOrganization lists memberships of organization joined with member details
func (r *GormMembershipRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]MembershipWithMember, error) {
	var memberships []MembershipWithMember
	if err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select(`memberships.*,
			accounts.email AS member_email,
			accounts.full_name AS member_full_name,
			accounts.is_active AS member_is_active,
			accounts.is_superuser AS member_is_superuser,
			accounts.is_organization AS member_is_organization`).
		Joins("JOIN accounts ON accounts.id = memberships.member_id").
		Where("memberships.organization_id = ?", organizationID).
		Scopes(database.CreationOrder("memberships")).
		Scan(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
