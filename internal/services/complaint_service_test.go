package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/civiclens/civic-lens-backend/internal/models"
	"github.com/google/uuid"
)

// stubClassifier scripts the classifier collaborator.
type stubClassifier struct {
	result *Classification
	err    error
	called bool
}

func (s *stubClassifier) IsAvailable() bool { return true }

func (s *stubClassifier) Classify(_ context.Context, _, _ string, _ []byte) (*Classification, error) {
	s.called = true
	return s.result, s.err
}

func TestCreateComplaint(t *testing.T) {
	db := newTestDB(t)
	svc := NewComplaintService(db, &stubClassifier{})
	user := seedUser(t, db, "ravi", "560001")

	resp, err := svc.Create(context.Background(), userClaims(user), &CreateComplaintRequest{
		Category:    string(models.CategoryPotholes),
		Address:     "  12 MG Road  ",
		Description: "Deep pothole near the bus stop",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	c := resp.Complaint
	if c.Username != "ravi" {
		t.Errorf("username = %q, want ravi", c.Username)
	}
	if c.Pincode != "560001" {
		t.Errorf("pincode = %q, want reporter's 560001", c.Pincode)
	}
	if c.Category != models.CategoryPotholes {
		t.Errorf("category = %q, want potholes", c.Category)
	}
	if c.Address != "12 MG Road" {
		t.Errorf("address = %q, want trimmed", c.Address)
	}
	if c.Status != models.StatusActive {
		t.Errorf("status = %q, want active", c.Status)
	}
	if c.Upvotes != 0 || c.Downvotes != 0 {
		t.Errorf("counters = (%d,%d), want (0,0)", c.Upvotes, c.Downvotes)
	}
	if resp.UsedClassification {
		t.Error("usedMLClassification = true, want false for explicit category")
	}
}

func TestCreateComplaintValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewComplaintService(db, &stubClassifier{})
	user := seedUser(t, db, "ravi", "560001")
	claims := userClaims(user)

	tests := []struct {
		name string
		req  CreateComplaintRequest
	}{
		{"missing address", CreateComplaintRequest{Category: "potholes"}},
		{"blank address", CreateComplaintRequest{Category: "potholes", Address: "   "}},
		{"no category and no image", CreateComplaintRequest{Address: "12 MG Road"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), claims, &tt.req)
			if !IsValidation(err) {
				t.Fatalf("Create() error = %v, want validation error", err)
			}
		})
	}

	_, err := svc.Create(context.Background(), claims, &CreateComplaintRequest{
		Category: "roadworks",
		Address:  "12 MG Road",
	})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("Create() error = %v, want ErrInvalidCategory", err)
	}
}

func TestCreateComplaintDepartmentForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewComplaintService(db, &stubClassifier{})
	dept := seedDepartment(t, db, models.CategoryPotholes, "560001")

	_, err := svc.Create(context.Background(), deptClaims(dept), &CreateComplaintRequest{
		Category: "potholes",
		Address:  "12 MG Road",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Create() error = %v, want ErrForbidden", err)
	}
}

func TestCreateComplaintClassifiesImage(t *testing.T) {
	db := newTestDB(t)
	classifier := &stubClassifier{
		result: &Classification{
			Category:   models.CategoryWaterlogging,
			ClassName:  "flooded_street",
			Confidence: 0.92,
		},
	}
	svc := NewComplaintService(db, classifier)
	user := seedUser(t, db, "ravi", "560001")

	resp, err := svc.Create(context.Background(), userClaims(user), &CreateComplaintRequest{
		Address: "12 MG Road",
		Image:   &ImageUpload{Filename: "street.jpg", ContentType: "image/jpeg", Data: []byte("jpegdata")},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !classifier.called {
		t.Fatal("classifier was not called")
	}
	if !resp.UsedClassification {
		t.Error("usedMLClassification = false, want true")
	}
	if resp.Complaint.Category != models.CategoryWaterlogging {
		t.Errorf("category = %q, want waterlogging", resp.Complaint.Category)
	}

	var stored models.Complaint
	if err := db.First(&stored, "id = ?", resp.Complaint.ID).Error; err != nil {
		t.Fatalf("failed to load complaint: %v", err)
	}
	if len(stored.Classification) == 0 {
		t.Error("classification metadata not stored")
	}
}

func TestCreateComplaintClassifierFailureFallsBack(t *testing.T) {
	db := newTestDB(t)
	classifier := &stubClassifier{err: errors.New("connection refused")}
	svc := NewComplaintService(db, classifier)
	user := seedUser(t, db, "ravi", "560001")

	resp, err := svc.Create(context.Background(), userClaims(user), &CreateComplaintRequest{
		Address: "12 MG Road",
		Image:   &ImageUpload{Filename: "street.jpg", ContentType: "image/jpeg", Data: []byte("jpegdata")},
	})
	if err != nil {
		t.Fatalf("Create() error = %v, classifier failure must not fail the request", err)
	}
	if resp.Complaint.Category != models.CategoryOthers {
		t.Errorf("category = %q, want fallback others", resp.Complaint.Category)
	}
	if !resp.UsedClassification {
		t.Error("usedMLClassification = false, want true even on fallback")
	}
}

func TestCreateComplaintExplicitCategorySkipsClassifier(t *testing.T) {
	db := newTestDB(t)
	classifier := &stubClassifier{result: &Classification{Category: models.CategoryGarbages}}
	svc := NewComplaintService(db, classifier)
	user := seedUser(t, db, "ravi", "560001")

	resp, err := svc.Create(context.Background(), userClaims(user), &CreateComplaintRequest{
		Category: string(models.CategoryStreetlight),
		Address:  "12 MG Road",
		Image:    &ImageUpload{Filename: "street.jpg", ContentType: "image/jpeg", Data: []byte("jpegdata")},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if classifier.called {
		t.Error("classifier called despite explicit category")
	}
	if resp.Complaint.Category != models.CategoryStreetlight {
		t.Errorf("category = %q, want streetlight", resp.Complaint.Category)
	}
}

func TestListForUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewComplaintService(db, &stubClassifier{})
	voteSvc := NewVoteService(db)
	user := seedUser(t, db, "ravi", "560001")

	inArea := seedComplaint(t, db, "asha", models.CategoryPotholes, "560001")
	newer := seedComplaint(t, db, "meera", models.CategoryGarbages, "560001")
	seedComplaint(t, db, "zoya", models.CategoryPotholes, "110001") // other pincode

	resolved := seedComplaint(t, db, "asha", models.CategoryStreetlight, "560001")
	if err := db.Model(&resolved).Update("status", models.StatusResolved).Error; err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}

	// Deterministic recency order.
	db.Model(&inArea).Update("created_at", time.Now().Add(-2*time.Hour))
	db.Model(&newer).Update("created_at", time.Now().Add(-1*time.Hour))

	if _, err := voteSvc.Cast(userClaims(user), inArea.ID, models.VoteUp); err != nil {
		t.Fatalf("Cast() error = %v", err)
	}

	resp, err := svc.ListForUser(userClaims(user), models.StatusActive)
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(resp.Complaints) != 2 {
		t.Fatalf("got %d complaints, want 2", len(resp.Complaints))
	}
	if resp.Complaints[0].ID != newer.ID {
		t.Errorf("first complaint = %v, want newest %v", resp.Complaints[0].ID, newer.ID)
	}

	// Own vote annotated, others bare.
	for _, c := range resp.Complaints {
		switch c.ID {
		case inArea.ID:
			if c.UserVote == nil || *c.UserVote != "upvote" {
				t.Errorf("userVote = %v, want upvote", c.UserVote)
			}
		default:
			if c.UserVote != nil {
				t.Errorf("userVote = %v, want nil", *c.UserVote)
			}
		}
	}

	resolvedFeed, err := svc.ListForUser(userClaims(user), models.StatusResolved)
	if err != nil {
		t.Fatalf("ListForUser(resolved) error = %v", err)
	}
	if len(resolvedFeed.Complaints) != 1 || resolvedFeed.Complaints[0].ID != resolved.ID {
		t.Errorf("resolved feed = %v, want just %v", resolvedFeed.Complaints, resolved.ID)
	}
}

func TestListForDepartment(t *testing.T) {
	db := newTestDB(t)
	svc := NewComplaintService(db, &stubClassifier{})
	dept := seedDepartment(t, db, models.CategoryPotholes, "560001")

	quiet := seedComplaint(t, db, "asha", models.CategoryPotholes, "560001")
	popular := seedComplaint(t, db, "meera", models.CategoryPotholes, "560001")
	seedComplaint(t, db, "ravi", models.CategoryGarbages, "560001")  // other category
	seedComplaint(t, db, "zoya", models.CategoryPotholes, "110001") // other pincode

	if err := db.Model(&popular).Update("upvotes", 7).Error; err != nil {
		t.Fatalf("failed to set upvotes: %v", err)
	}

	resp, err := svc.ListForDepartment(deptClaims(dept), models.StatusActive)
	if err != nil {
		t.Fatalf("ListForDepartment() error = %v", err)
	}
	if len(resp.Complaints) != 2 {
		t.Fatalf("got %d complaints, want 2 in jurisdiction", len(resp.Complaints))
	}
	if resp.Complaints[0].ID != popular.ID || resp.Complaints[1].ID != quiet.ID {
		t.Errorf("order = [%v %v], want most upvoted first", resp.Complaints[0].ID, resp.Complaints[1].ID)
	}
	for _, c := range resp.Complaints {
		if c.UserVote != nil {
			t.Errorf("department feed carries userVote %v", *c.UserVote)
		}
	}
}

func TestListForDepartmentWrongRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewComplaintService(db, &stubClassifier{})
	user := seedUser(t, db, "ravi", "560001")

	_, err := svc.ListForDepartment(userClaims(user), models.StatusActive)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("ListForDepartment() error = %v, want ErrForbidden", err)
	}
}

func TestResolve(t *testing.T) {
	db := newTestDB(t)
	svc := NewComplaintService(db, &stubClassifier{})
	dept := seedDepartment(t, db, models.CategoryPotholes, "560001")
	complaint := seedComplaint(t, db, "asha", models.CategoryPotholes, "560001")

	resp, err := svc.Resolve(deptClaims(dept), complaint.ID)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resp.Complaint.Status != models.StatusResolved {
		t.Errorf("status = %q, want resolved", resp.Complaint.Status)
	}

	// Resolving again is a no-op, not an error.
	resp, err = svc.Resolve(deptClaims(dept), complaint.ID)
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if resp.Complaint.Status != models.StatusResolved {
		t.Errorf("status after second resolve = %q, want resolved", resp.Complaint.Status)
	}
}

func TestResolveOutOfJurisdiction(t *testing.T) {
	db := newTestDB(t)
	svc := NewComplaintService(db, &stubClassifier{})
	complaint := seedComplaint(t, db, "asha", models.CategoryPotholes, "560001")

	wrongCategory := seedDepartment(t, db, models.CategoryGarbages, "560001")
	if _, err := svc.Resolve(deptClaims(wrongCategory), complaint.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Resolve() by wrong category error = %v, want ErrForbidden", err)
	}

	wrongPincode := seedDepartment(t, db, models.CategoryPotholes, "110001")
	if _, err := svc.Resolve(deptClaims(wrongPincode), complaint.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Resolve() by wrong pincode error = %v, want ErrForbidden", err)
	}

	var stored models.Complaint
	if err := db.First(&stored, "id = ?", complaint.ID).Error; err != nil {
		t.Fatalf("failed to load complaint: %v", err)
	}
	if stored.Status != models.StatusActive {
		t.Errorf("status = %q, want still active after denied resolves", stored.Status)
	}
}

func TestResolveByCitizenForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewComplaintService(db, &stubClassifier{})
	user := seedUser(t, db, "ravi", "560001")
	complaint := seedComplaint(t, db, "ravi", models.CategoryPotholes, "560001")

	_, err := svc.Resolve(userClaims(user), complaint.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Resolve() error = %v, want ErrForbidden", err)
	}
}

func TestResolveNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewComplaintService(db, &stubClassifier{})
	dept := seedDepartment(t, db, models.CategoryPotholes, "560001")

	_, err := svc.Resolve(deptClaims(dept), uuid.New())
	if !errors.Is(err, ErrComplaintNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrComplaintNotFound", err)
	}
}
