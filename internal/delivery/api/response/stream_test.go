package response

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurandes/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_WritesEventsUntilClosed(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/stream", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	events := make(chan entity.SnapshotChanged, 2)
	events <- entity.SnapshotChanged{Version: 1, Count: 3}
	events <- entity.SnapshotChanged{Version: 2, Count: 4}
	close(events)

	require.NoError(t, Stream(c, "snapshot", events, time.Hour))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
	body := rec.Body.String()
	assert.Contains(t, body, "event: snapshot\ndata: {\"version\":1,\"count\":3,")
	assert.Contains(t, body, "event: snapshot\ndata: {\"version\":2,\"count\":4,")
}

func TestStream_StopsWhenClientLeaves(t *testing.T) {
	e := echo.New()
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/favorites/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- Stream(c, "favorites", make(chan entity.FavoritesChanged), time.Hour)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after the client left")
	}
}
