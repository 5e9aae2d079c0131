package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/civiclens/civic-lens-backend/internal/authz"
	"github.com/civiclens/civic-lens-backend/internal/dto"
	"github.com/civiclens/civic-lens-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentService is an append-only store: comments are never edited or
// deleted, and both active and resolved complaints accept them.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) Add(claims authz.Claims, complaintID uuid.UUID, content string) (*dto.AddCommentResponse, error) {
	if d := authz.Authorize(claims, authz.ActionComment, authz.Resource{}); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, Validation("comment content is required")
	}
	if len(content) > 500 {
		return nil, Validation("comment content must be less than 500 characters")
	}

	if err := s.complaintExists(complaintID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:          uuid.New(),
		ComplaintID: complaintID,
		Username:    claims.Username,
		Content:     content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return &dto.AddCommentResponse{
		Message: "Comment added successfully",
		Comment: mapComment(&comment),
	}, nil
}

// List returns a page of comments, newest first.
func (s *CommentService) List(claims authz.Claims, complaintID uuid.UUID, page, limit int) (*dto.CommentListResponse, error) {
	if d := authz.Authorize(claims, authz.ActionReadComments, authz.Resource{}); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	if err := s.complaintExists(complaintID); err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.Model(&models.Comment{}).Where("complaint_id = ?", complaintID).Count(&total).Error; err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := s.db.
		Where("complaint_id = ?", complaintID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	resp := &dto.CommentListResponse{
		Comments: make([]dto.CommentResponse, len(comments)),
		Pagination: dto.Pagination{
			CurrentPage:   page,
			TotalPages:    totalPages,
			TotalComments: total,
			HasNextPage:   page < totalPages,
			HasPrevPage:   page > 1,
		},
	}
	for i := range comments {
		resp.Comments[i] = mapComment(&comments[i])
	}
	return resp, nil
}

func (s *CommentService) complaintExists(complaintID uuid.UUID) error {
	var complaint models.Complaint
	if err := s.db.Select("id").First(&complaint, "id = ?", complaintID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComplaintNotFound
		}
		return err
	}
	return nil
}

func mapComment(c *models.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:          c.ID,
		ComplaintID: c.ComplaintID,
		Username:    c.Username,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
	}
}
