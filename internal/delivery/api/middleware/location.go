package middleware

import (
	"strconv"
	"strings"

	"restaurandes/internal/delivery/api/response"
	deliverycontext "restaurandes/internal/delivery/context"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

const permissionDenied = "denied"

// DeviceLocation copies the position reported in the X-Device-* headers into
// the request context. Requests without the headers pass through untouched.
func DeviceLocation(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header
		rawLat := strings.TrimSpace(header.Get(deliverycontext.HeaderDeviceLatitude))
		rawLon := strings.TrimSpace(header.Get(deliverycontext.HeaderDeviceLongitude))
		permission := strings.ToLower(strings.TrimSpace(header.Get(deliverycontext.HeaderLocationPermission)))

		if rawLat == "" && rawLon == "" && permission == "" {
			return next(c)
		}

		report := &deliverycontext.DeviceLocation{PermissionDenied: permission == permissionDenied}
		if !report.PermissionDenied && (rawLat != "" || rawLon != "") {
			lat, latErr := strconv.ParseFloat(rawLat, 64)
			lon, lonErr := strconv.ParseFloat(rawLon, 64)
			if latErr != nil || lonErr != nil {
				return response.BadRequestWithDetails(c, domainerrors.ErrValidationFailed.ErrorCode(),
					domainerrors.ErrValidationFailed.Message(), "device coordinates must be decimal degrees")
			}
			report.Location = &entity.Location{Latitude: lat, Longitude: lon}
		}

		ctx := deliverycontext.WithDeviceLocation(c.Request().Context(), report)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
