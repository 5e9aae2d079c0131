package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/civiclens/civic-lens-backend/internal/authz"
	"github.com/civiclens/civic-lens-backend/internal/config"
	"github.com/civiclens/civic-lens-backend/internal/dto"
	"github.com/civiclens/civic-lens-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken       = errors.New("username already exists")
	ErrEmailTaken          = errors.New("email already exists")
	ErrDepartmentSlotTaken = errors.New("department already registered for this pincode")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired refresh token")
	ErrUserNotFound        = errors.New("user not found")
	ErrDepartmentNotFound  = errors.New("department not found")
)

var (
	pincodeRe = regexp.MustCompile(`^\d{6}$`)
	emailRe   = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) RegisterUser(req *dto.SignupRequest) (*dto.AuthResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Pincode == "" {
		return nil, Validation("all fields are required")
	}
	if len(req.Username) < 3 {
		return nil, Validation("username must be at least 3 characters")
	}
	if len(req.Password) < 6 {
		return nil, Validation("password must be at least 6 characters")
	}
	if !pincodeRe.MatchString(req.Pincode) {
		return nil, Validation("pincode must be a 6-digit number")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRe.MatchString(email) {
		return nil, Validation("invalid email address")
	}

	// Pre-check to distinguish which field is taken; the unique indexes still
	// back this up under concurrency.
	var existing models.User
	if err := s.db.Where("username = ? OR email = ?", req.Username, email).First(&existing).Error; err == nil {
		if existing.Username == req.Username {
			return nil, ErrUsernameTaken
		}
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Username: req.Username,
		Email:    email,
		Password: string(hash),
		Pincode:  req.Pincode,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.userAuthResponse("User created successfully", &user)
}

func (s *AuthService) LoginUser(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, Validation("username and password are required")
	}

	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.userAuthResponse("Login successful", &user)
}

func (s *AuthService) RegisterDepartment(req *dto.DepartmentSignupRequest) (*dto.DepartmentAuthResponse, error) {
	if req.Department == "" || req.Pincode == "" || req.Password == "" {
		return nil, Validation("all fields are required")
	}
	if len(req.Password) < 6 {
		return nil, Validation("password must be at least 6 characters")
	}
	if !pincodeRe.MatchString(req.Pincode) {
		return nil, Validation("pincode must be a 6-digit number")
	}
	category := models.Category(req.Department)
	if !category.Valid() {
		return nil, Validation("invalid department category")
	}

	var existing models.Department
	if err := s.db.Where("category = ? AND pincode = ?", category, req.Pincode).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: pincode %s already has a %s department", ErrDepartmentSlotTaken, req.Pincode, category)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dept := models.Department{
		ID:       uuid.New(),
		Category: category,
		Pincode:  req.Pincode,
		Password: string(hash),
	}

	if err := s.db.Create(&dept).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: pincode %s already has a %s department", ErrDepartmentSlotTaken, req.Pincode, category)
		}
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	return s.departmentAuthResponse("Department account created successfully", &dept)
}

func (s *AuthService) LoginDepartment(req *dto.DepartmentLoginRequest) (*dto.DepartmentAuthResponse, error) {
	if req.Department == "" || req.Pincode == "" || req.Password == "" {
		return nil, Validation("department, pincode, and password are required")
	}

	var dept models.Department
	if err := s.db.Where("category = ? AND pincode = ?", req.Department, req.Pincode).First(&dept).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(dept.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.departmentAuthResponse("Login successful", &dept)
}

// Refresh rotates a refresh token and issues a new access token for whichever
// account kind the stored token belongs to.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.RefreshResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}
	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}
	s.db.Model(&stored).Update("revoked", true)

	switch authz.Role(stored.Role) {
	case authz.RoleUser:
		var user models.User
		if err := s.db.First(&user, "id = ?", stored.AccountID).Error; err != nil {
			return nil, ErrUserNotFound
		}
		access, refresh, err := s.issueTokens(user.ID, authz.RoleUser, user.Username, "", user.Pincode)
		if err != nil {
			return nil, err
		}
		return &dto.RefreshResponse{Token: access, RefreshToken: refresh}, nil
	case authz.RoleDepartment:
		var dept models.Department
		if err := s.db.First(&dept, "id = ?", stored.AccountID).Error; err != nil {
			return nil, ErrDepartmentNotFound
		}
		access, refresh, err := s.issueTokens(dept.ID, authz.RoleDepartment, "", dept.Category, dept.Pincode)
		if err != nil {
			return nil, err
		}
		return &dto.RefreshResponse{Token: access, RefreshToken: refresh}, nil
	default:
		return nil, ErrInvalidToken
	}
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

func (s *AuthService) GetUser(id uuid.UUID) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &dto.UserResponse{ID: user.ID, Username: user.Username, Email: user.Email, Pincode: user.Pincode}, nil
}

func (s *AuthService) GetDepartment(id uuid.UUID) (*dto.DepartmentResponse, error) {
	var dept models.Department
	if err := s.db.First(&dept, "id = ?", id).Error; err != nil {
		return nil, ErrDepartmentNotFound
	}
	return &dto.DepartmentResponse{ID: dept.ID, Department: dept.Category, Pincode: dept.Pincode}, nil
}

// UpdateProfile changes username, pincode, or password on the caller's own
// account. Email is immutable.
func (s *AuthService) UpdateProfile(claims authz.Claims, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	d := authz.Authorize(claims, authz.ActionUpdateProfile, authz.Resource{OwnerUsername: claims.Username})
	if !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", claims.AccountID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if req.Username != "" && req.Username != user.Username {
		if len(req.Username) < 3 {
			return nil, Validation("username must be at least 3 characters")
		}
		var existing models.User
		if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
			return nil, ErrUsernameTaken
		}
		user.Username = req.Username
	}

	if req.Pincode != "" {
		if !pincodeRe.MatchString(req.Pincode) {
			return nil, Validation("pincode must be a 6-digit number")
		}
		user.Pincode = req.Pincode
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, Validation("current password is required to change password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			return nil, ErrInvalidCredentials
		}
		if len(req.NewPassword) < 6 {
			return nil, Validation("new password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hash)
	}

	if err := s.db.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &dto.UserResponse{ID: user.ID, Username: user.Username, Email: user.Email, Pincode: user.Pincode}, nil
}

func (s *AuthService) userAuthResponse(message string, user *models.User) (*dto.AuthResponse, error) {
	access, refresh, err := s.issueTokens(user.ID, authz.RoleUser, user.Username, "", user.Pincode)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Message:      message,
		Token:        access,
		RefreshToken: refresh,
		User:         dto.UserResponse{ID: user.ID, Username: user.Username, Email: user.Email, Pincode: user.Pincode},
	}, nil
}

func (s *AuthService) departmentAuthResponse(message string, dept *models.Department) (*dto.DepartmentAuthResponse, error) {
	access, refresh, err := s.issueTokens(dept.ID, authz.RoleDepartment, "", dept.Category, dept.Pincode)
	if err != nil {
		return nil, err
	}
	return &dto.DepartmentAuthResponse{
		Message:      message,
		Token:        access,
		RefreshToken: refresh,
		Department:   dto.DepartmentResponse{ID: dept.ID, Department: dept.Category, Pincode: dept.Pincode},
	}, nil
}

func (s *AuthService) issueTokens(accountID uuid.UUID, role authz.Role, username string, department models.Category, pincode string) (string, string, error) {
	claims := jwt.MapClaims{
		"sub":     accountID.String(),
		"role":    string(role),
		"pincode": pincode,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}
	if username != "" {
		claims["username"] = username
	}
	if department != "" {
		claims["department"] = string(department)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	access, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}

	refresh, err := s.storeRefreshToken(accountID, role)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *AuthService) storeRefreshToken(accountID uuid.UUID, role authz.Role) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		AccountID: accountID,
		Role:      string(role),
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
