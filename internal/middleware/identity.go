package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/service"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// ResolveUser exchanges the verified token subject for the backing profile
// document and binds it to the request. A valid credential without a profile
// yields 403: the caller must register first.
func ResolveUser(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject := SubjectID(c)
		if subject == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		user, err := auth.Resolve(c.UserContext(), subject)
		if err != nil {
			if errors.Is(err, service.ErrUserRecordMissing) {
				return utils.SendError(c, fiber.StatusForbidden, "registration required")
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to resolve user")
		}

		c.Locals("current_user", user)

		return c.Next()
	}
}

// CurrentUser returns the resolved profile bound to the request.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	if value := c.Locals("current_user"); value != nil {
		if user, ok := value.(models.User); ok {
			return user, true
		}
	}
	return models.User{}, false
}
