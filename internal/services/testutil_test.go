package services

import (
	"testing"
	"time"

	"github.com/civiclens/civic-lens-backend/internal/authz"
	"github.com/civiclens/civic-lens-backend/internal/config"
	"github.com/civiclens/civic-lens-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database migrated with the full schema.
// A single connection keeps every query on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.RefreshToken{},
		&models.Complaint{},
		&models.Vote{},
		&models.Comment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func seedUser(t *testing.T, db *gorm.DB, username, pincode string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Pincode:  pincode,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func seedDepartment(t *testing.T, db *gorm.DB, category models.Category, pincode string) models.Department {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	dept := models.Department{
		ID:       uuid.New(),
		Category: category,
		Pincode:  pincode,
		Password: string(hash),
	}
	if err := db.Create(&dept).Error; err != nil {
		t.Fatalf("failed to seed department %s/%s: %v", category, pincode, err)
	}
	return dept
}

func seedComplaint(t *testing.T, db *gorm.DB, username string, category models.Category, pincode string) models.Complaint {
	t.Helper()

	complaint := models.Complaint{
		ID:       uuid.New(),
		Username: username,
		Category: category,
		Address:  "12 MG Road",
		Pincode:  pincode,
		Status:   models.StatusActive,
	}
	if err := db.Create(&complaint).Error; err != nil {
		t.Fatalf("failed to seed complaint: %v", err)
	}
	return complaint
}

func userClaims(u models.User) authz.Claims {
	return authz.Claims{
		AccountID: u.ID,
		Role:      authz.RoleUser,
		Username:  u.Username,
		Pincode:   u.Pincode,
	}
}

func deptClaims(d models.Department) authz.Claims {
	return authz.Claims{
		AccountID:  d.ID,
		Role:       authz.RoleDepartment,
		Department: d.Category,
		Pincode:    d.Pincode,
	}
}
