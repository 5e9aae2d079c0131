package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is an append-only remark on a complaint. Comments are never edited
// or deleted.
type Comment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_complaint_created,priority:1" json:"complaint_id"`
	Username    string    `gorm:"size:50;not null;index" json:"username"`
	Content     string    `gorm:"size:500;not null" json:"content"`
	CreatedAt   time.Time `gorm:"index:idx_comments_complaint_created,priority:2,sort:desc" json:"created_at"`
}
