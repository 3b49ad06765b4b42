package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/aula-go-api/internal/config"
	"github.com/noah-isme/aula-go-api/internal/handler"
	"github.com/noah-isme/aula-go-api/internal/middleware"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	AssignmentHandler   *handler.AssignmentHandler
	SubmissionHandler   *handler.SubmissionHandler
	GradingHandler      *handler.GradingHandler
	ReviewHandler       *handler.ReviewHandler
	AnnouncementHandler *handler.AnnouncementHandler
	FileHandler         *handler.FileHandler
	JWTMiddleware       fiber.Handler
	ResolveUser         fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/", handler.Discovery(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided middlewares, or no-ops if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	resolveUser := deps.ResolveUser
	if resolveUser == nil {
		resolveUser = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		// Registration only needs a verified credential, not a profile.
		authPublic := api.Group("/auth", jwtMiddleware)
		deps.AuthHandler.RegisterPublic(authPublic)

		auth := api.Group("/auth", jwtMiddleware, resolveUser)
		deps.AuthHandler.Register(auth)
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware, resolveUser)
		deps.AssignmentHandler.Register(assignments)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware, resolveUser,
			middleware.RateLimit("submissions", 30, time.Minute))
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.GradingHandler != nil {
		grading := api.Group("/grading", jwtMiddleware, resolveUser)
		deps.GradingHandler.Register(grading)
	}

	if deps.ReviewHandler != nil {
		// Review requests live under the grading surface they act on.
		reviews := api.Group("/grading/reviews", jwtMiddleware, resolveUser)
		deps.ReviewHandler.Register(reviews)
	}

	if deps.AnnouncementHandler != nil {
		announcements := api.Group("/announcements", jwtMiddleware, resolveUser)
		deps.AnnouncementHandler.Register(announcements)
	}

	if deps.FileHandler != nil {
		files := api.Group("/files", jwtMiddleware, resolveUser,
			middleware.RequireRole(models.RoleTeacher, models.RoleStudent),
			middleware.RateLimit("files", 20, time.Minute))
		deps.FileHandler.Register(files)
	}
}
