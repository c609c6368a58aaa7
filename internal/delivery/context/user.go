package context

import (
	"context"

	"restaurandes/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

const (
	// KeyIdentity is the key for the authenticated identity.
	KeyIdentity ContextKey = "identity"
)

// SetIdentity stores the authenticated identity in echo.Context and its request context.
func SetIdentity(c echo.Context, identity *entity.Identity) {
	c.Set(string(KeyIdentity), identity)
	c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), identity)))
}

// GetIdentity returns the authenticated identity, or nil for anonymous requests.
func GetIdentity(c echo.Context) *entity.Identity {
	if identity, ok := c.Get(string(KeyIdentity)).(*entity.Identity); ok {
		return identity
	}

	return nil
}

// WithIdentity returns a new context with the identity.
func WithIdentity(ctx context.Context, identity *entity.Identity) context.Context {
	return context.WithValue(ctx, KeyIdentity, identity)
}

// GetUserIDFromContext returns the authenticated user id, or "" when anonymous.
func GetUserIDFromContext(ctx context.Context) string {
	if identity, ok := ctx.Value(KeyIdentity).(*entity.Identity); ok && identity != nil {
		return identity.UserID
	}

	return ""
}
