package handlers

import (
	"errors"
	"log/slog"

	"github.com/civiclens/civic-lens-backend/internal/dto"
	"github.com/civiclens/civic-lens-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// serviceError translates service sentinels into HTTP responses. Anything
// unrecognized is logged and hidden behind a generic 500.
func serviceError(c *fiber.Ctx, err error) error {
	var status int
	switch {
	case services.IsValidation(err),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidVote):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrComplaintNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrDepartmentNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrDepartmentSlotTaken),
		errors.Is(err, services.ErrDuplicateVote):
		status = fiber.StatusConflict
	default:
		slog.Error("request failed", "path", c.Path(), "method", c.Method(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Internal server error",
		})
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Message: err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
