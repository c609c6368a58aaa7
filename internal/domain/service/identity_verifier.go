package service

import (
	"context"

	"restaurandes/internal/domain/entity"
)

// IdentityVerifier turns a bearer token into an authenticated identity.
type IdentityVerifier interface {
	// Verify validates the token and returns the identity it represents.
	Verify(ctx context.Context, token string) (*entity.Identity, error)
}
