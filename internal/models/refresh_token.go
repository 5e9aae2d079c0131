package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken stores the sha256 of an opaque refresh token. Role records
// which kind of account the token belongs to, since citizen and department
// ids live in different tables.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;index" json:"account_id"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
