package models

import (
	"time"

	"github.com/google/uuid"
)

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Vote records a voter's current stance on a complaint. The composite unique
// index is the authority for "at most one vote per (complaint, voter)": a
// concurrent duplicate insert fails at the database, not in process.
type Vote struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_complaint_voter;index" json:"complaint_id"`
	Username    string    `gorm:"size:50;not null;uniqueIndex:idx_votes_complaint_voter;index" json:"username"`
	Type        VoteType  `gorm:"size:10;not null" json:"vote_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
