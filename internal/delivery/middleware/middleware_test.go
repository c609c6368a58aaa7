package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restaurandes/config"
	deliverycontext "restaurandes/internal/delivery/context"
	"restaurandes/internal/domain/entity"
	domainerrors "restaurandes/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	m := NewRequestIDMiddleware(slog.Default())
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var fromCtx string
	err := m.Process(func(c echo.Context) error {
		fromCtx = deliverycontext.GetRequestIDFromContext(c.Request().Context())
		assert.NotNil(t, deliverycontext.GetLogger(c.Request().Context()))

		return nil
	})(c)

	require.NoError(t, err)
	_, parseErr := uuid.Parse(fromCtx)
	assert.NoError(t, parseErr)
	assert.Equal(t, fromCtx, rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestRequestIDMiddleware_KeepsClientID(t *testing.T) {
	m := NewRequestIDMiddleware(slog.Default())
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "client-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := m.Process(func(c echo.Context) error {
		assert.Equal(t, "client-id", deliverycontext.GetRequestID(c))

		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, "client-id", rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestLoggerMiddleware_LogsUserInDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	cfg := &config.Config{}
	cfg.Env.Debug = true

	m := NewLoggerMiddleware(logger, cfg)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/favorites?limit=5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	deliverycontext.SetIdentity(c, &entity.Identity{UserID: "user-1"})

	err := m.Handle(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})(c)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"user_id":"user-1"`)
	assert.Contains(t, buf.String(), `"query":"limit=5"`)
	assert.Contains(t, buf.String(), `"status":204`)
}

func TestLoggerMiddleware_QuietWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewLoggerMiddleware(slog.New(slog.NewJSONHandler(&buf, nil)), &config.Config{})
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), httptest.NewRecorder())

	require.NoError(t, m.Handle(func(c echo.Context) error { return nil })(c))
	assert.Empty(t, buf.String())
}

func TestLoggerMiddleware_LogsFailuresWithoutDebug(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus string
		wantLevel  string
	}{
		{name: "domain error", err: domainerrors.ErrRestaurantNotFound, wantStatus: `"status":404`, wantLevel: `"level":"WARN"`},
		{name: "echo error", err: echo.ErrMethodNotAllowed, wantStatus: `"status":405`, wantLevel: `"level":"WARN"`},
		{name: "unknown error", err: errors.New("boom"), wantStatus: `"status":500`, wantLevel: `"level":"ERROR"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewLoggerMiddleware(slog.New(slog.NewJSONHandler(&buf, nil)), &config.Config{})
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/x", nil), httptest.NewRecorder())

			err := m.Handle(func(c echo.Context) error { return tt.err })(c)

			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, buf.String(), tt.wantStatus)
			assert.Contains(t, buf.String(), tt.wantLevel)
		})
	}
}

func TestRequestIDMiddleware_ReplacesMalformedClientID(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "spaces", id: "not a valid id"},
		{name: "too long", id: strings.Repeat("a", maxClientRequestIDLength+1)},
		{name: "control characters", id: "abc\x01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewRequestIDMiddleware(slog.Default())
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set(deliverycontext.HeaderXRequestID, tt.id)
			rec := httptest.NewRecorder()

			require.NoError(t, m.Process(func(c echo.Context) error { return nil })(e.NewContext(req, rec)))

			got := rec.Header().Get(deliverycontext.HeaderXRequestID)
			assert.NotEqual(t, tt.id, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}
