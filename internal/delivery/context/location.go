package context

import (
	"context"

	"restaurandes/internal/domain/entity"
)

const (
	// KeyDeviceLocation is the key for the location reported by the client device.
	KeyDeviceLocation ContextKey = "device_location"

	HeaderDeviceLatitude     = "X-Device-Latitude"
	HeaderDeviceLongitude    = "X-Device-Longitude"
	HeaderLocationPermission = "X-Location-Permission"
)

// DeviceLocation is what the client reported about its position.
// Location is nil when the device had no fix.
type DeviceLocation struct {
	PermissionDenied bool
	Location         *entity.Location
}

// WithDeviceLocation returns a new context carrying the device report.
func WithDeviceLocation(ctx context.Context, report *DeviceLocation) context.Context {
	return context.WithValue(ctx, KeyDeviceLocation, report)
}

// GetDeviceLocation returns the device report, or nil when the client sent none.
func GetDeviceLocation(ctx context.Context) *DeviceLocation {
	if report, ok := ctx.Value(KeyDeviceLocation).(*DeviceLocation); ok {
		return report
	}

	return nil
}
