package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Membership links an organization account to a member account.
// PairKey is identical for (a, b) and (b, a), so its unique index
// allows a single membership per unordered pair.
type Membership struct {
	ID             uuid.UUID `gorm:"type:char(36);primarykey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:char(36);not null;index" json:"organization_id"`
	MemberID       uuid.UUID `gorm:"type:char(36);not null;index" json:"member_id"`
	PairKey        string    `gorm:"type:varchar(73);uniqueIndex;not null" json:"-"`
	IsPending      bool      `gorm:"not null" json:"is_pending"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations, declared for schema constraints only; never preloaded.
	Organization *Account `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	Member       *Account `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.PairKey = MembershipPairKey(m.OrganizationID, m.MemberID)
	return nil
}

// MembershipPairKey returns the order-independent key of two account IDs.
func MembershipPairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}
