package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yukikurage/dropoff-point-api/internal/database"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dropOffPointWithOwnerColumns = "drop_off_points.*, accounts.full_name AS owner_full_name"

// GormDropOffPointRepository is a GORM implementation of DropOffPointRepository
type GormDropOffPointRepository struct {
	db *gorm.DB
}

// NewDropOffPointRepository creates a new DropOffPointRepository
func NewDropOffPointRepository(db *gorm.DB) DropOffPointRepository {
	return &GormDropOffPointRepository{db: db}
}

// Create creates a new drop-off point
func (r *GormDropOffPointRepository) Create(ctx context.Context, point *models.DropOffPoint) error {
	return r.db.WithContext(ctx).Create(point).Error
}

// FindByID finds a drop-off point by ID
func (r *GormDropOffPointRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.DropOffPoint, error) {
	var point models.DropOffPoint
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&point).Error; err != nil {
		return nil, err
	}
	return &point, nil
}

// FindByIDForUpdate finds a drop-off point by ID and locks it for the rest
// of the transaction
func (r *GormDropOffPointRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.DropOffPoint, error) {
	var point models.DropOffPoint
	if err := r.db.WithContext(ctx).Scopes(database.ForUpdate).Where("id = ?", id).First(&point).Error; err != nil {
		return nil, err
	}
	return &point, nil
}

// FindWithOwner finds a drop-off point by ID joined with its owner's name
func (r *GormDropOffPointRepository) FindWithOwner(ctx context.Context, id uuid.UUID) (*DropOffPointWithOwner, error) {
	var points []DropOffPointWithOwner
	if err := r.withOwner(ctx).
		Where("drop_off_points.id = ?", id).
		Limit(1).
		Scan(&points).Error; err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &points[0], nil
}

// List retrieves drop-off points with filtering and pagination. The total
// counts every row matching the filter, regardless of the page.
func (r *GormDropOffPointRepository) List(ctx context.Context, filter DropOffPointFilter) ([]DropOffPointWithOwner, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.DropOffPoint{}).
		Scopes(r.visibleTo(filter.VisibleTo)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	points := []DropOffPointWithOwner{}
	if err := r.withOwner(ctx).
		Scopes(
			r.visibleTo(filter.VisibleTo),
			database.CreationOrder("drop_off_points"),
			database.Paginate(filter.Page),
		).
		Scan(&points).Error; err != nil {
		return nil, 0, err
	}

	return points, total, nil
}

// Update writes every column of an existing drop-off point. A point that no
// longer exists yields gorm.ErrRecordNotFound instead of being inserted again.
func (r *GormDropOffPointRepository) Update(ctx context.Context, point *models.DropOffPoint) error {
	result := r.db.WithContext(ctx).
		Model(point).
		Select("*").
		Omit("created_at", clause.Associations).
		Updates(point)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes a drop-off point
func (r *GormDropOffPointRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DropOffPoint{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormDropOffPointRepository) withOwner(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.DropOffPoint{}).
		Select(dropOffPointWithOwnerColumns).
		Joins("LEFT JOIN accounts ON accounts.id = drop_off_points.owner_id")
}

// visibleTo keeps points owned by the account or delegated to it through an
// accepted membership.
func (r *GormDropOffPointRepository) visibleTo(accountID *uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if accountID == nil {
			return db
		}
		delegated := r.db.Model(&models.Membership{}).
			Select("id").
			Where("member_id = ? AND is_pending = ?", *accountID, false)
		return db.Where("drop_off_points.owner_id = ? OR drop_off_points.responsible_id IN (?)", *accountID, delegated)
	}
}
