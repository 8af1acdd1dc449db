package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goodhive/onboarding-service/internal/observability"
	"github.com/goodhive/onboarding-service/internal/ratelimit"
	apperrors "github.com/goodhive/onboarding-service/pkg/util/errorutil"
)

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, body io.Reader, out any) {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), string(raw))
}

func newTestApp() *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics("test"), time.Second)
	return app
}

func TestErrorMiddleware_RendersDomainErrors(t *testing.T) {
	app := newTestApp()
	app.Get("/missing", func(*fiber.Ctx) error {
		return apperrors.NewNotFound("talent profile", map[string]any{"id": "x"})
	})
	app.Get("/broken", func(*fiber.Ctx) error {
		return apperrors.NewPersistenceError("unable to approve", errors.New("pq: relation talents does not exist"))
	})
	app.Get("/panic", func(*fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var body errorBody
	decode(t, resp.Body, &body)
	assert.Equal(t, apperrors.CodeNotFound, body.Error.Code)
	assert.Equal(t, "x", body.Error.Details["id"])

	resp, err = app.Test(httptest.NewRequest("GET", "/broken", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "unable to approve")
	assert.NotContains(t, string(raw), "relation talents")

	resp, err = app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestErrorMiddleware_FiberErrors(t *testing.T) {
	app := newTestApp()
	app.Get("/teapot", func(*fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad query")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body errorBody
	decode(t, resp.Body, &body)
	assert.Equal(t, apperrors.CodeValidation, body.Error.Code)

	resp, err = app.Test(httptest.NewRequest("GET", "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	app := newTestApp()
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.Options{Window: time.Minute, Max: 3}, nil)
	app.Get("/api/jobs/search", RateLimit(limiter, nil), func(c *fiber.Ctx) error {
		return c.JSON([]string{})
	})
	app.Get("/api/talents", RateLimit(limiter, nil), func(c *fiber.Ctx) error {
		return c.JSON([]string{})
	})

	var statuses []int
	for i := 0; i < 4; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/jobs/search?q=go", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
		if i == 0 {
			assert.Equal(t, "3", resp.Header.Get("X-RateLimit-Limit"))
			assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Remaining"))
		}
		if i == 3 {
			assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
			assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
			var body map[string]string
			decode(t, resp.Body, &body)
			assert.Equal(t, "Too many requests", body["message"])
		}
	}
	assert.Equal(t, []int{200, 200, 200, 429}, statuses)

	// another route has its own bucket
	resp, err := app.Test(httptest.NewRequest("GET", "/api/talents", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

type brokenStore struct{}

func (brokenStore) Hit(_ context.Context, _ string, _ ratelimit.Options, _ time.Time) (ratelimit.Bucket, bool, error) {
	return ratelimit.Bucket{}, false, errors.New("redis: connection refused")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	app := newTestApp()
	limiter := ratelimit.New(brokenStore{}, ratelimit.Options{Window: time.Minute, Max: 1}, nil)
	app.Get("/api/jobs/search", RateLimit(limiter, nil), func(c *fiber.Ctx) error {
		return c.JSON([]string{})
	})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/jobs/search", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}
