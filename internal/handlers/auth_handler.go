package handlers

import (
	"github.com/civiclens/civic-lens-backend/internal/authz"
	"github.com/civiclens/civic-lens-backend/internal/dto"
	"github.com/civiclens/civic-lens-backend/internal/middleware"
	"github.com/civiclens/civic-lens-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// UserSignup registers a citizen account and returns a token pair.
func (h *AuthHandler) UserSignup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.RegisterUser(&req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) UserLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.LoginUser(&req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// DepartmentSignup registers a department account. One department exists per
// category and pincode pair.
func (h *AuthHandler) DepartmentSignup(c *fiber.Ctx) error {
	var req dto.DepartmentSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.RegisterDepartment(&req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) DepartmentLogin(c *fiber.Ctx) error {
	var req dto.DepartmentLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.LoginDepartment(&req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// Refresh rotates a refresh token. The old token is revoked whether or not
// the exchange succeeds.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}

	if err := h.authService.Logout(&req); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me returns the calling citizen's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}
	if d := authz.Authorize(claims, authz.ActionReadProfile, authz.Resource{}); !d.Allowed {
		return forbidden(c, "access denied: "+string(d.Reason))
	}

	user, err := h.authService.GetUser(claims.AccountID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// DepartmentMe returns the calling department's profile.
func (h *AuthHandler) DepartmentMe(c *fiber.Ctx) error {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}
	if d := authz.Authorize(claims, authz.ActionReadProfile, authz.Resource{}); !d.Allowed {
		return forbidden(c, "access denied: "+string(d.Reason))
	}

	dept, err := h.authService.GetDepartment(claims.AccountID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"department": dept})
}

// UpdateProfile lets a citizen change username, pincode, or password.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.authService.UpdateProfile(claims, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
