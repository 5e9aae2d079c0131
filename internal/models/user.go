package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a citizen account. Username and email are both unique; the pincode
// scopes which complaints the user sees and is copied onto every complaint the
// user files.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Pincode   string    `gorm:"size:6;not null;index" json:"pincode"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
