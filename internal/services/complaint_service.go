package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/civiclens/civic-lens-backend/internal/authz"
	"github.com/civiclens/civic-lens-backend/internal/dto"
	"github.com/civiclens/civic-lens-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrForbidden         = errors.New("forbidden")
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrInvalidCategory   = errors.New("invalid category")
)

// Classifier is the contract ComplaintService needs from the image
// classification collaborator.
type Classifier interface {
	IsAvailable() bool
	Classify(ctx context.Context, filename, contentType string, image []byte) (*Classification, error)
}

// ImageUpload is a complaint photo held in memory just long enough to be
// forwarded to the classifier.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type CreateComplaintRequest struct {
	Category    string
	Address     string
	Description string
	Image       *ImageUpload
}

type ComplaintService struct {
	db         *gorm.DB
	classifier Classifier
}

func NewComplaintService(db *gorm.DB, classifier Classifier) *ComplaintService {
	return &ComplaintService{db: db, classifier: classifier}
}

// Create files a new complaint for the calling citizen. The pincode always
// comes from the reporter's account, never the request. When no category is
// given and an image is attached, the classifier picks one; any classifier
// failure degrades to CategoryOthers instead of failing the request.
func (s *ComplaintService) Create(ctx context.Context, claims authz.Claims, req *CreateComplaintRequest) (*dto.CreateComplaintResponse, error) {
	if d := authz.Authorize(claims, authz.ActionCreateComplaint, authz.Resource{}); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, Validation("address is required")
	}
	description := strings.TrimSpace(req.Description)
	if len(description) > 500 {
		return nil, Validation("description must be at most 500 characters")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", claims.AccountID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	category := req.Category
	usedClassification := false
	var classification datatypes.JSON

	if category == "" && req.Image != nil {
		usedClassification = true
		result, err := s.classifier.Classify(ctx, req.Image.Filename, req.Image.ContentType, req.Image.Data)
		if err != nil {
			slog.Warn("image classification failed, falling back to others",
				"username", user.Username, "error", err)
			category = string(models.CategoryOthers)
		} else {
			category = string(result.Category)
			if b, err := json.Marshal(result); err == nil {
				classification = datatypes.JSON(b)
			}
			slog.Info("image classified",
				"username", user.Username, "category", result.Category,
				"class_name", result.ClassName, "confidence", result.Confidence)
		}
	}

	if category == "" {
		return nil, Validation("category is required or image must be provided for classification")
	}
	if !models.Category(category).Valid() {
		return nil, ErrInvalidCategory
	}

	complaint := models.Complaint{
		ID:             uuid.New(),
		Username:       user.Username,
		Category:       models.Category(category),
		Address:        address,
		Description:    description,
		Pincode:        user.Pincode,
		Status:         models.StatusActive,
		Classification: classification,
	}

	if err := s.db.Create(&complaint).Error; err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	return &dto.CreateComplaintResponse{
		Message:            "Complaint created successfully",
		Complaint:          mapComplaint(&complaint, nil),
		UsedClassification: usedClassification,
	}, nil
}

// ListForUser returns the caller's area feed: complaints in the caller's
// pincode with the given status, newest first, each annotated with the
// caller's own vote.
func (s *ComplaintService) ListForUser(claims authz.Claims, status models.Status) (*dto.ComplaintListResponse, error) {
	if d := authz.Authorize(claims, authz.ActionListOwnArea, authz.Resource{}); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	// Re-read the account so a profile pincode change takes effect without
	// waiting for the token to rotate.
	var user models.User
	if err := s.db.First(&user, "id = ?", claims.AccountID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	var complaints []models.Complaint
	err := s.db.
		Where("pincode = ? AND status = ?", user.Pincode, status).
		Order("created_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}

	voteMap, err := s.votesByUser(user.Username, complaints)
	if err != nil {
		return nil, err
	}

	resp := &dto.ComplaintListResponse{Complaints: make([]dto.ComplaintResponse, len(complaints))}
	for i := range complaints {
		resp.Complaints[i] = mapComplaint(&complaints[i], voteMap)
	}
	return resp, nil
}

// ListForDepartment returns the jurisdiction feed: complaints matching the
// department's category and pincode with the given status, most upvoted
// first so community-validated issues surface for triage, ties broken by
// recency.
func (s *ComplaintService) ListForDepartment(claims authz.Claims, status models.Status) (*dto.ComplaintListResponse, error) {
	if d := authz.Authorize(claims, authz.ActionListJurisdiction, authz.Resource{}); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}
	if claims.Department == "" || claims.Pincode == "" {
		return nil, Validation("department information missing")
	}

	var complaints []models.Complaint
	err := s.db.
		Where("category = ? AND pincode = ? AND status = ?", claims.Department, claims.Pincode, status).
		Order("upvotes DESC, created_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}

	resp := &dto.ComplaintListResponse{Complaints: make([]dto.ComplaintResponse, len(complaints))}
	for i := range complaints {
		resp.Complaints[i] = mapComplaint(&complaints[i], nil)
	}
	return resp, nil
}

// Resolve marks a complaint resolved. Only the department whose category and
// pincode match the complaint may resolve it. Resolving an already-resolved
// complaint is an idempotent no-op.
func (s *ComplaintService) Resolve(claims authz.Claims, complaintID uuid.UUID) (*dto.ResolveComplaintResponse, error) {
	var complaint models.Complaint
	if err := s.db.First(&complaint, "id = ?", complaintID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	d := authz.Authorize(claims, authz.ActionResolve, authz.Resource{
		Category: complaint.Category,
		Pincode:  complaint.Pincode,
	})
	if !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	if complaint.Status != models.StatusResolved {
		if err := s.db.Model(&complaint).Update("status", models.StatusResolved).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve complaint: %w", err)
		}
		complaint.Status = models.StatusResolved
	}

	return &dto.ResolveComplaintResponse{
		Message:   "Complaint marked as resolved successfully",
		Complaint: mapComplaint(&complaint, nil),
	}, nil
}

// votesByUser fetches the user's votes for the given complaints in one query.
func (s *ComplaintService) votesByUser(username string, complaints []models.Complaint) (map[uuid.UUID]models.VoteType, error) {
	if len(complaints) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, len(complaints))
	for i := range complaints {
		ids[i] = complaints[i].ID
	}

	var votes []models.Vote
	if err := s.db.Where("complaint_id IN ? AND username = ?", ids, username).Find(&votes).Error; err != nil {
		return nil, err
	}

	voteMap := make(map[uuid.UUID]models.VoteType, len(votes))
	for _, v := range votes {
		voteMap[v.ComplaintID] = v.Type
	}
	return voteMap, nil
}

func mapComplaint(c *models.Complaint, voteMap map[uuid.UUID]models.VoteType) dto.ComplaintResponse {
	resp := dto.ComplaintResponse{
		ID:          c.ID,
		Username:    c.Username,
		Category:    c.Category,
		Address:     c.Address,
		Description: c.Description,
		Pincode:     c.Pincode,
		Upvotes:     c.Upvotes,
		Downvotes:   c.Downvotes,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
	}
	if voteMap != nil {
		if t, ok := voteMap[c.ID]; ok {
			s := string(t)
			resp.UserVote = &s
		}
	}
	return resp
}
