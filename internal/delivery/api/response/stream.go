package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// StreamHeartbeat is how often an idle event stream sends a keep-alive comment.
const StreamHeartbeat = 25 * time.Second

// Stream writes every value from events as a server-sent event named name.
// It returns when the client goes away or events is closed.
func Stream[T any](c echo.Context, name string, events <-chan T, heartbeat time.Duration) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return errors.WithStack(err)
			}
			res.Flush()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := writeEvent(res, name, event); err != nil {
				return err
			}
		}
	}
}

func writeEvent(res *echo.Response, name string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return errors.WithStack(err)
	}
	res.Flush()

	return nil
}
