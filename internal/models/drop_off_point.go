package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DropOffPoint struct {
	ID            uuid.UUID  `gorm:"type:char(36);primarykey" json:"id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Description   *string    `gorm:"type:text" json:"description"`
	Address       *string    `gorm:"type:text" json:"address"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	OwnerID       uuid.UUID  `gorm:"type:char(36);not null;index" json:"owner_id"`
	ResponsibleID *uuid.UUID `gorm:"type:char(36);index" json:"responsible_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations, declared for schema constraints only; never preloaded.
	Owner       *Account    `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Responsible *Membership `gorm:"foreignKey:ResponsibleID;constraint:OnDelete:SET NULL" json:"-"`
}

func (p *DropOffPoint) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SetCoordinates stores a resolved position, or clears it when ok is false.
func (p *DropOffPoint) SetCoordinates(lat, lon float64, ok bool) {
	if !ok {
		p.Latitude, p.Longitude = nil, nil
		return
	}
	p.Latitude, p.Longitude = &lat, &lon
}
