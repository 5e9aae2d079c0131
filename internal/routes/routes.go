package routes

import (
	"time"

	"github.com/civiclens/civic-lens-backend/internal/config"
	"github.com/civiclens/civic-lens-backend/internal/handlers"
	"github.com/civiclens/civic-lens-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	complaintHandler *handlers.ComplaintHandler,
	commentHandler *handlers.CommentHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter 10 req/min limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/user/signup", authHandler.UserSignup)
	auth.Post("/user/login", authHandler.UserLogin)
	auth.Post("/department/signup", authHandler.DepartmentSignup)
	auth.Post("/department/login", authHandler.DepartmentLogin)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected auth routes; JWT middleware applied per route so the public
	// auth endpoints above stay public.
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/user/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Put("/auth/user/profile", middleware.JWTProtected(cfg), authHandler.UpdateProfile)
	api.Get("/auth/department/me", middleware.JWTProtected(cfg), authHandler.DepartmentMe)

	// Complaints — all protected
	complaints := api.Group("/complaints", middleware.JWTProtected(cfg))
	complaints.Post("/", complaintHandler.Create)
	complaints.Get("/user", complaintHandler.ListActive)
	complaints.Get("/user/resolved", complaintHandler.ListResolved)
	complaints.Get("/department", complaintHandler.DepartmentListActive)
	complaints.Get("/department/resolved", complaintHandler.DepartmentListResolved)
	complaints.Post("/:id/upvote", complaintHandler.Upvote)
	complaints.Post("/:id/downvote", complaintHandler.Downvote)
	complaints.Put("/:id/resolve", complaintHandler.Resolve)
	complaints.Post("/:id/comments", commentHandler.Add)
	complaints.Get("/:id/comments", commentHandler.List)
}
