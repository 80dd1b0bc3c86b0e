package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yukikurage/dropoff-point-api/internal/models"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Account{},
		&models.Membership{},
		&models.DropOffPoint{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB, logger *log.Logger) error {
	logger.Info("running database migrations")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database migrations completed")
	return nil
}

// SeedSuperuser makes sure an active superuser with email exists. It is a
// no-op when email is empty or the account is already present.
func SeedSuperuser(ctx context.Context, db *gorm.DB, logger *log.Logger, email, fullName string) error {
	if email == "" {
		return nil
	}

	var existing models.Account
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up superuser: %w", err)
	}

	name := fullName
	account := &models.Account{
		Email:       email,
		FullName:    &name,
		IsActive:    true,
		IsSuperuser: true,
	}
	if err := db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("failed to create superuser: %w", err)
	}

	logger.Info("created first superuser", "email", email, "id", account.ID)
	return nil
}
