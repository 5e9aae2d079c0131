package handlers

import (
	"io"
	"strings"

	"github.com/civiclens/civic-lens-backend/internal/middleware"
	"github.com/civiclens/civic-lens-backend/internal/models"
	"github.com/civiclens/civic-lens-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxImageSize = 5 * 1024 * 1024

type ComplaintHandler struct {
	complaintService *services.ComplaintService
	voteService      *services.VoteService
}

func NewComplaintHandler(complaintService *services.ComplaintService, voteService *services.VoteService) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		voteService:      voteService,
	}
}

// Create files a complaint from a multipart form. The image part is optional;
// when present without a category it drives classification.
func (h *ComplaintHandler) Create(c *fiber.Ctx) error {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}

	req := services.CreateComplaintRequest{
		Category:    c.FormValue("category"),
		Address:     c.FormValue("address"),
		Description: c.FormValue("description"),
	}

	if header, err := c.FormFile("image"); err == nil {
		if header.Size > maxImageSize {
			return badRequest(c, "image must be at most 5MB")
		}
		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return badRequest(c, "only image uploads are accepted")
		}

		file, err := header.Open()
		if err != nil {
			return badRequest(c, "failed to read image")
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return badRequest(c, "failed to read image")
		}

		req.Image = &services.ImageUpload{
			Filename:    header.Filename,
			ContentType: contentType,
			Data:        data,
		}
	}

	resp, err := h.complaintService.Create(c.Context(), claims, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListActive is the citizen's area feed of open complaints.
func (h *ComplaintHandler) ListActive(c *fiber.Ctx) error {
	return h.listForUser(c, models.StatusActive)
}

// ListResolved is the citizen's area feed of resolved complaints.
func (h *ComplaintHandler) ListResolved(c *fiber.Ctx) error {
	return h.listForUser(c, models.StatusResolved)
}

func (h *ComplaintHandler) listForUser(c *fiber.Ctx, status models.Status) error {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}

	resp, err := h.complaintService.ListForUser(claims, status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// DepartmentListActive is the department's triage queue, most upvoted first.
func (h *ComplaintHandler) DepartmentListActive(c *fiber.Ctx) error {
	return h.listForDepartment(c, models.StatusActive)
}

// DepartmentListResolved lists the complaints the department already closed.
func (h *ComplaintHandler) DepartmentListResolved(c *fiber.Ctx) error {
	return h.listForDepartment(c, models.StatusResolved)
}

func (h *ComplaintHandler) listForDepartment(c *fiber.Ctx, status models.Status) error {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}

	resp, err := h.complaintService.ListForDepartment(claims, status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func (h *ComplaintHandler) Upvote(c *fiber.Ctx) error {
	return h.vote(c, models.VoteUp)
}

func (h *ComplaintHandler) Downvote(c *fiber.Ctx) error {
	return h.vote(c, models.VoteDown)
}

func (h *ComplaintHandler) vote(c *fiber.Ctx, direction models.VoteType) error {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}

	complaintID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid complaint id")
	}

	resp, err := h.voteService.Cast(claims, complaintID, direction)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// Resolve closes a complaint. Jurisdiction is checked against the complaint's
// own category and pincode, not the route.
func (h *ComplaintHandler) Resolve(c *fiber.Ctx) error {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}

	complaintID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid complaint id")
	}

	resp, err := h.complaintService.Resolve(claims, complaintID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}
