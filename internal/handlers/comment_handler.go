package handlers

import (
	"github.com/civiclens/civic-lens-backend/internal/middleware"
	"github.com/civiclens/civic-lens-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Add(c *fiber.Ctx) error {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}

	complaintID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid complaint id")
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.commentService.Add(claims, complaintID, req.Content)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}

	complaintID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid complaint id")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	resp, err := h.commentService.List(claims, complaintID, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}
