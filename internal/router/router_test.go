package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aula-go-api/internal/config"
	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/handler"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

type stubReviewService struct{}

func (s *stubReviewService) Request(context.Context, models.User, dto.ReviewRequestCreateRequest) (dto.ReviewRequestResponse, error) {
	return dto.ReviewRequestResponse{}, nil
}

func (s *stubReviewService) Respond(context.Context, models.User, string, dto.ReviewRespondRequest) (dto.ReviewRequestResponse, error) {
	return dto.ReviewRequestResponse{}, nil
}

func (s *stubReviewService) Get(context.Context, models.User, string) (dto.ReviewRequestResponse, error) {
	return dto.ReviewRequestResponse{}, nil
}

func (s *stubReviewService) List(context.Context, models.User, int, int) (utils.PaginatedData, error) {
	return utils.PaginatedData{}, nil
}

func TestReviewRoutesMountUnderGrading(t *testing.T) {
	app := fiber.New()

	Register(app, config.Config{AppName: "aula"}, Dependencies{
		ReviewHandler: handler.NewReviewHandler(&stubReviewService{}, zerolog.New(io.Discard)),
		ResolveUser: func(c *fiber.Ctx) error {
			c.Locals("current_user", models.User{ID: "s1", Role: models.RoleStudent})
			return c.Next()
		},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/grading/reviews", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
