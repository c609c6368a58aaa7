// Package location resolves the caller's position from the device report.
package location

import (
	"context"
	"log/slog"
	"time"

	"restaurandes/config"
	deliverycontext "restaurandes/internal/delivery/context"
	"restaurandes/internal/domain/entity"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/domain/service"

	"github.com/pkg/errors"
)

// deviceProvider trusts the position the client device attached to the
// request. A device that granted permission but has no fix falls back to the
// configured coordinate.
type deviceProvider struct {
	fallback *entity.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewDeviceProvider is the constructor for deviceProvider.
func NewDeviceProvider(cfg *config.Config, logger *slog.Logger) service.LocationProvider {
	return newDeviceProvider(cfg.Location, logger, time.Now)
}

func newDeviceProvider(cfg *config.LocationConfig, logger *slog.Logger, now func() time.Time) *deviceProvider {
	p := &deviceProvider{logger: logger, now: now}
	if cfg != nil && cfg.FallbackEnabled {
		p.fallback = &entity.Location{Latitude: cfg.Latitude, Longitude: cfg.Longitude}
	}

	return p
}

func (p *deviceProvider) CurrentLocation(ctx context.Context) (*entity.Location, error) {
	report := deliverycontext.GetDeviceLocation(ctx)
	if report != nil && report.PermissionDenied {
		return nil, errors.WithStack(domainerrors.ErrLocationPermissionDenied)
	}

	if report != nil && report.Location != nil {
		if !report.Location.IsValid() {
			return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("device location is out of range"))
		}
		location := *report.Location
		if location.Timestamp.IsZero() {
			location.Timestamp = p.now()
		}

		return &location, nil
	}

	if p.fallback == nil {
		return nil, errors.WithStack(domainerrors.ErrLocationUnavailable)
	}

	deliverycontext.GetLoggerOrDefault(ctx, p.logger).Debug("Using fallback location",
		slog.Float64("lat", p.fallback.Latitude),
		slog.Float64("lon", p.fallback.Longitude),
	)
	location := *p.fallback
	location.Timestamp = p.now()

	return &location, nil
}
