package dto

import (
	"github.com/civiclens/civic-lens-backend/internal/models"
	"github.com/google/uuid"
)

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Pincode  string `json:"pincode"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type DepartmentSignupRequest struct {
	Department string `json:"department"`
	Pincode    string `json:"pincode"`
	Password   string `json:"password"`
}

type DepartmentLoginRequest struct {
	Department string `json:"department"`
	Pincode    string `json:"pincode"`
	Password   string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest updates a citizen's own profile. Every field is
// optional; a password change requires the current password.
type UpdateProfileRequest struct {
	Username        string `json:"username"`
	Pincode         string `json:"pincode"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Pincode  string    `json:"pincode"`
}

type DepartmentResponse struct {
	ID         uuid.UUID       `json:"id"`
	Department models.Category `json:"department"`
	Pincode    string          `json:"pincode"`
}

type AuthResponse struct {
	Message      string       `json:"message"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type DepartmentAuthResponse struct {
	Message      string             `json:"message"`
	Token        string             `json:"token"`
	RefreshToken string             `json:"refresh_token"`
	Department   DepartmentResponse `json:"department"`
}

type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
