package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Status is the complaint lifecycle state. The only transition is
// active → resolved; complaints are never deleted.
type Status string

const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
)

// Complaint is a citizen-filed issue. Category and pincode are fixed at
// creation (the pincode comes from the reporter's account, never the request)
// and together determine which department account may resolve it.
//
// Upvotes/Downvotes are denormalized counters kept in sync with the votes
// table by VoteService; they are only ever moved by atomic SQL deltas.
type Complaint struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username       string         `gorm:"size:50;not null;index" json:"username"`
	Category       Category       `gorm:"size:20;not null;index:idx_complaints_pincode_category,priority:2" json:"category"`
	Address        string         `gorm:"size:500;not null" json:"address"`
	Description    string         `gorm:"size:500" json:"description,omitempty"`
	Pincode        string         `gorm:"size:6;not null;index:idx_complaints_pincode_category,priority:1" json:"pincode"`
	Upvotes        int            `gorm:"not null;default:0" json:"upvotes"`
	Downvotes      int            `gorm:"not null;default:0" json:"downvotes"`
	Status         Status         `gorm:"size:10;not null;default:'active';index" json:"status"`
	Classification datatypes.JSON `gorm:"type:jsonb" json:"classification,omitempty"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
