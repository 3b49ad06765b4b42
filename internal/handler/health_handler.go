package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/aula-go-api/internal/config"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}

// Discovery returns a handler that lists the mounted API surfaces, useful for
// clients probing a fresh deployment.
func Discovery(cfg config.Config) fiber.Handler {
	routes := fiber.Map{
		"health":        "/api/v1/health",
		"auth":          "/api/v1/auth",
		"assignments":   "/api/v1/assignments",
		"submissions":   "/api/v1/submissions",
		"grading":       "/api/v1/grading",
		"reviews":       "/api/v1/grading/reviews",
		"announcements": "/api/v1/announcements",
		"files":         "/api/v1/files",
		"metrics":       "/metrics",
	}

	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "service discovery", fiber.Map{
			"service":   cfg.AppName,
			"endpoints": routes,
		})
	}
}
