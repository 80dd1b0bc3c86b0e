package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yukikurage/dropoff-point-api/internal/database"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"github.com/yukikurage/dropoff-point-api/internal/utils"
	"gorm.io/gorm"
)

// GormAccountRepository is a GORM implementation of AccountRepository
type GormAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &GormAccountRepository{db: db}
}

// Create creates a new account
func (r *GormAccountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByEmail finds an account by email
func (r *GormAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// List returns a page of accounts and the total count
func (r *GormAccountRepository) List(ctx context.Context, page utils.PaginationParams) ([]models.Account, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var accounts []models.Account
	if err := r.db.WithContext(ctx).
		Scopes(database.CreationOrder("accounts"), database.Paginate(page)).
		Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// Update writes every column of an existing account. An account that no
// longer exists yields gorm.ErrRecordNotFound instead of being inserted again.
func (r *GormAccountRepository) Update(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).
		Model(account).
		Select("*").
		Omit("created_at").
		Updates(account)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes an account and everything that references it in a transaction.
// Delegations held through the account's memberships are cleared before the
// memberships go, so points owned by other organizations survive.
func (r *GormAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberships := tx.Model(&models.Membership{}).
			Select("id").
			Where("organization_id = ? OR member_id = ?", id, id)

		if err := tx.Model(&models.DropOffPoint{}).
			Where("responsible_id IN (?)", memberships).
			Update("responsible_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("owner_id = ?", id).Delete(&models.DropOffPoint{}).Error; err != nil {
			return err
		}

		if err := tx.Where("organization_id = ? OR member_id = ?", id, id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Account{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
