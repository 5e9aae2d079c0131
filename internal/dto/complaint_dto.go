package dto

import (
	"time"

	"github.com/civiclens/civic-lens-backend/internal/models"
	"github.com/google/uuid"
)

// ComplaintResponse is the wire shape of a complaint. UserVote carries the
// calling citizen's own stance ("upvote"/"downvote") and is omitted on
// department feeds.
type ComplaintResponse struct {
	ID          uuid.UUID       `json:"id"`
	Username    string          `json:"username"`
	Category    models.Category `json:"category"`
	Address     string          `json:"address"`
	Description string          `json:"description,omitempty"`
	Pincode     string          `json:"pincode"`
	Upvotes     int             `json:"upvotes"`
	Downvotes   int             `json:"downvotes"`
	Status      models.Status   `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UserVote    *string         `json:"userVote,omitempty"`
}

type ComplaintListResponse struct {
	Complaints []ComplaintResponse `json:"complaints"`
}

type CreateComplaintResponse struct {
	Message            string            `json:"message"`
	Complaint          ComplaintResponse `json:"complaint"`
	UsedClassification bool              `json:"usedMLClassification"`
}

type ResolveComplaintResponse struct {
	Message   string            `json:"message"`
	Complaint ComplaintResponse `json:"complaint"`
}

// VoteResponse returns the counters after a cast plus the voter's new state;
// UserVote is nil when the vote was toggled off.
type VoteResponse struct {
	Message  string  `json:"message"`
	Upvote   int     `json:"upvote"`
	Downvote int     `json:"downvote"`
	UserVote *string `json:"userVote"`
}

type CommentResponse struct {
	ID          uuid.UUID `json:"id"`
	ComplaintID uuid.UUID `json:"complaintId"`
	Username    string    `json:"username"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AddCommentResponse struct {
	Message string          `json:"message"`
	Comment CommentResponse `json:"comment"`
}

type Pagination struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalComments int64 `json:"totalComments"`
	HasNextPage   bool  `json:"hasNextPage"`
	HasPrevPage   bool  `json:"hasPrevPage"`
}

type CommentListResponse struct {
	Comments   []CommentResponse `json:"comments"`
	Pagination Pagination        `json:"pagination"`
}
