package middleware

import (
	"log/slog"
	"strings"

	"restaurandes/internal/delivery/api/response"
	deliverycontext "restaurandes/internal/delivery/context"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const bearerPrefix = "Bearer "

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	Verifier service.IdentityVerifier
	Logger   *slog.Logger
}

// AuthMiddleware resolves the bearer token into an identity.
type AuthMiddleware struct {
	verifier service.IdentityVerifier
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{verifier: params.Verifier, logger: params.Logger}
}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.HandleAppError(c, domainerrors.ErrNotLoggedIn)
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if token == authHeader || token == "" {
			return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), "Invalid token format, must be Bearer token")
		}

		ctx := c.Request().Context()
		identity, err := m.verifier.Verify(ctx, token)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(ctx, m.logger).Debug("Token rejected", slog.Any("error", err))
			if errors.Is(err, domainerrors.ErrInvalidToken) {
				return response.HandleAppError(c, err)
			}

			return response.HandleAppError(c, domainerrors.ErrInvalidToken)
		}

		deliverycontext.SetIdentity(c, identity)

		c.SetRequest(c.Request().WithContext(
			deliverycontext.WithLogAttrs(c.Request().Context(), m.logger, slog.String("user_id", identity.UserID)),
		))

		return next(c)
	}
}

// GetUserID returns the authenticated user id set by Authenticate.
func GetUserID(c echo.Context) (string, bool) {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil || identity.UserID == "" {
		return "", false
	}

	return identity.UserID, true
}
