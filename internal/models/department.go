package models

import (
	"time"

	"github.com/google/uuid"
)

// Department is a department account. The (category, pincode) pair is globally
// unique: at most one account administers a given category within a pincode,
// and that pair is exactly the account's jurisdiction.
type Department struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Category  Category  `gorm:"size:20;not null;uniqueIndex:idx_departments_category_pincode" json:"department"`
	Pincode   string    `gorm:"size:6;not null;uniqueIndex:idx_departments_category_pincode;index" json:"pincode"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
