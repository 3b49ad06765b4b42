package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aula-go-api/internal/service"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// FileHandler wires file upload HTTP routes.
type FileHandler struct {
	service service.FileService
	logger  zerolog.Logger
}

// NewFileHandler constructs the handler.
func NewFileHandler(service service.FileService, logger zerolog.Logger) *FileHandler {
	return &FileHandler{
		service: service,
		logger:  logger.With().Str("component", "file_handler").Logger(),
	}
}

// Register attaches file endpoints to the router group.
func (h *FileHandler) Register(router fiber.Router) {
	router.Post("", h.upload)
	router.Delete("/:publicId", h.delete)
	router.Get("/:publicId/signed-url", h.signedURL)
}

func (h *FileHandler) upload(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	result, err := h.service.Upload(c.UserContext(), user.ID, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "file uploaded", result)
}

func (h *FileHandler) delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), user.ID, c.Params("publicId")); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "file deleted", fiber.Map{"public_id": c.Params("publicId")})
}

func (h *FileHandler) signedURL(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	result, err := h.service.SignedURL(c.UserContext(), user.ID, c.Params("publicId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "signed url generated", result)
}

func (h *FileHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrFileRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	case errors.Is(err, service.ErrFileTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "file exceeds maximum allowed size")
	case errors.Is(err, service.ErrFileTypeNotAllowed):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, "file type not allowed")
	case errors.Is(err, service.ErrFileNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "file not found")
	case errors.Is(err, service.ErrNotFileOwner):
		return utils.SendError(c, fiber.StatusForbidden, "file belongs to another user")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
