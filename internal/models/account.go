package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is a user or, when IsOrganization is set, an organization.
type Account struct {
	ID             uuid.UUID `gorm:"type:char(36);primarykey" json:"id"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName       *string   `gorm:"type:varchar(255)" json:"full_name"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	IsSuperuser    bool      `gorm:"not null" json:"is_superuser"`
	IsOrganization bool      `gorm:"not null" json:"is_organization"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
