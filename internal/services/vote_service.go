package services

import (
	"errors"
	"fmt"

	"github.com/civiclens/civic-lens-backend/internal/authz"
	"github.com/civiclens/civic-lens-backend/internal/dto"
	"github.com/civiclens/civic-lens-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDuplicateVote = errors.New("you have already voted on this complaint")
	ErrInvalidVote   = errors.New("invalid vote type")
)

// Counter decrements clamp at zero so concurrent double-decrements can never
// drive a count negative.
var (
	decUpvotes   = gorm.Expr("CASE WHEN upvotes > 0 THEN upvotes - 1 ELSE 0 END")
	decDownvotes = gorm.Expr("CASE WHEN downvotes > 0 THEN downvotes - 1 ELSE 0 END")
)

// VoteService is the vote ledger: the authority for each voter's current
// stance (none/up/down) per complaint and for the counters on the complaint.
type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// Cast applies one vote event and returns the resulting counters and voter
// state. Per (complaint, voter) pair:
//
//	no vote  + same direction  → vote created, counter +1
//	vote     + same direction  → vote deleted, counter -1 (toggle off)
//	vote     + other direction → vote flipped, old counter -1, new counter +1
//
// The vote row mutation and the counter deltas happen in one transaction, and
// the counters move only by atomic SQL expressions. Voting stays open on
// resolved complaints.
func (s *VoteService) Cast(claims authz.Claims, complaintID uuid.UUID, direction models.VoteType) (*dto.VoteResponse, error) {
	if !direction.Valid() {
		return nil, ErrInvalidVote
	}
	if d := authz.Authorize(claims, authz.ActionVote, authz.Resource{}); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	var (
		message  string
		userVote *string
		after    models.Complaint
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var complaint models.Complaint
		if err := tx.First(&complaint, "id = ?", complaintID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrComplaintNotFound
			}
			return err
		}

		// Fresh statement per delta; a chained *gorm.DB must not be reused
		// across finisher calls.
		bump := func(column string, expr interface{}) error {
			return tx.Model(&models.Complaint{}).Where("id = ?", complaintID).
				UpdateColumn(column, expr).Error
		}

		var existing models.Vote
		err := tx.Where("complaint_id = ? AND username = ?", complaintID, claims.Username).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First interaction: insert. The unique index on
			// (complaint_id, username) makes the loser of a concurrent race
			// fail here with a conflict rather than a duplicate row.
			vote := models.Vote{
				ID:          uuid.New(),
				ComplaintID: complaintID,
				Username:    claims.Username,
				Type:        direction,
			}
			if err := tx.Create(&vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrDuplicateVote
				}
				return err
			}
			if direction == models.VoteUp {
				if err := bump("upvotes", gorm.Expr("upvotes + 1")); err != nil {
					return err
				}
				message = "Upvoted successfully"
			} else {
				if err := bump("downvotes", gorm.Expr("downvotes + 1")); err != nil {
					return err
				}
				message = "Downvoted successfully"
			}
			v := string(direction)
			userVote = &v

		case err != nil:
			return err

		case existing.Type == direction:
			// Same direction again: toggle off.
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if direction == models.VoteUp {
				if err := bump("upvotes", decUpvotes); err != nil {
					return err
				}
				message = "Upvote removed"
			} else {
				if err := bump("downvotes", decDownvotes); err != nil {
					return err
				}
				message = "Downvote removed"
			}
			userVote = nil

		default:
			// Opposite direction: flip the row in place.
			if err := tx.Model(&existing).Update("type", direction).Error; err != nil {
				return err
			}
			if direction == models.VoteUp {
				if err := bump("downvotes", decDownvotes); err != nil {
					return err
				}
				if err := bump("upvotes", gorm.Expr("upvotes + 1")); err != nil {
					return err
				}
				message = "Switched to upvote"
			} else {
				if err := bump("upvotes", decUpvotes); err != nil {
					return err
				}
				if err := bump("downvotes", gorm.Expr("downvotes + 1")); err != nil {
					return err
				}
				message = "Switched to downvote"
			}
			v := string(direction)
			userVote = &v
		}

		// Snapshot the counters before committing so the response reports
		// this cast's outcome, not a later concurrent cast's.
		return tx.First(&after, "id = ?", complaintID).Error
	})
	if err != nil {
		return nil, err
	}

	return &dto.VoteResponse{
		Message:  message,
		Upvote:   after.Upvotes,
		Downvote: after.Downvotes,
		UserVote: userVote,
	}, nil
}

// State returns the voter's current stance on a complaint, nil for none.
func (s *VoteService) State(username string, complaintID uuid.UUID) (*models.VoteType, error) {
	var vote models.Vote
	err := s.db.Where("complaint_id = ? AND username = ?", complaintID, username).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := vote.Type
	return &t, nil
}
