// Package delivery defines the long-running entry points started by the fx app.
package delivery

import "context"

// Delivery is a server or background runner owned by the application lifecycle.
type Delivery interface {
	// Serve blocks until the delivery stops.
	Serve(ctx context.Context) error
}
