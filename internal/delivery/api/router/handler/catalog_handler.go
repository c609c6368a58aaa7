package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"restaurandes/config"
	"restaurandes/internal/delivery/api/response"
	deliverycontext "restaurandes/internal/delivery/context"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/domain/service"
	"restaurandes/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// tokenValidator validates a Google-signed OIDC token for an audience.
type tokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	Config    *config.Config
	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// CatalogHandler triggers catalog refreshes, on demand or from Pub/Sub push.
type CatalogHandler struct {
	catalogUC     usecase.CatalogUsecase
	logger        *slog.Logger
	verifyPush    bool
	pushAudience  string
	validateToken tokenValidator
}

// NewCatalogHandler is the constructor for CatalogHandler
func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	h := &CatalogHandler{
		catalogUC:     params.CatalogUC,
		logger:        params.Logger,
		validateToken: idtoken.Validate,
	}
	if params.Config.PubSub != nil {
		h.verifyPush = params.Config.PubSub.VerifyPush
		h.pushAudience = params.Config.PubSub.PushAudience
	}

	return h
}

// HealthCheck is a simple handler to check if the service is up.
func (h *CatalogHandler) HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]any{
		"status":          "ok",
		"catalog_version": h.catalogUC.Version(),
	})
}

// Refresh reloads the whole catalog from the data provider
func (h *CatalogHandler) Refresh(c echo.Context) error {
	changed, err := h.catalogUC.Refresh(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, changed)
}

// HandlePush handles Pub/Sub push messages announcing upstream catalog changes.
// Retryable failures answer 503 so Pub/Sub redelivers; malformed messages are
// acknowledged to stop redelivery.
func (h *CatalogHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPush {
		if err := h.verifyPushToken(c.Request()); err != nil {
			h.logger.Warn("[Catalog] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg service.PushMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Catalog] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.CatalogChangedEvent
	if pushMsg.Message.Data != "" {
		data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
		if err != nil {
			h.logger.Error("[Catalog] Failed to decode message data", slog.Any("error", err))

			return c.NoContent(http.StatusBadRequest)
		}

		if err := json.Unmarshal(data, &event); err != nil {
			h.logger.Error("[Catalog] Failed to parse catalog event", slog.Any("error", err))

			return c.NoContent(http.StatusBadRequest)
		}
	}

	requestID := extractRequestID(ctx, &pushMsg, &event)
	ctx = deliverycontext.WithRequest(ctx, h.logger, requestID)
	reqLogger := deliverycontext.GetLogger(ctx)

	reqLogger.Info("[Catalog] Processing catalog change",
		slog.String("message_id", pushMsg.Message.MessageID),
		slog.String("reason", event.Reason),
		slog.Int("restaurant_count", len(event.RestaurantIDs)),
	)

	changed, err := h.catalogUC.Refresh(ctx)
	if err != nil {
		retryable := isRetryable(err)
		reqLogger.Error("[Catalog] Refresh failed",
			slog.Any("error", err),
			slog.Bool("retryable", retryable),
		)
		if retryable {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Catalog] Catalog refreshed from push",
		slog.Uint64("version", changed.Version),
		slog.Int("count", changed.Count),
	)

	return c.NoContent(http.StatusOK)
}

// isRetryable reports whether Pub/Sub should redeliver the message.
func isRetryable(err error) bool {
	return errors.Is(err, domainerrors.ErrCatalogUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// extractRequestID prefers message attributes, then the event, then the request context
func extractRequestID(ctx context.Context, pushMsg *service.PushMessage, event *service.CatalogChangedEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// verifyPushToken verifies the OIDC token Google Pub/Sub attaches to push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func (h *CatalogHandler) verifyPushToken(req *http.Request) error {
	authHeader := req.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	audience := h.pushAudience
	if audience == "" {
		scheme := "https"
		if req.TLS == nil {
			scheme = "http"
		}
		audience = fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)
	}

	payload, err := h.validateToken(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
