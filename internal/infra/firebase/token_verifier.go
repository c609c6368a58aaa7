package firebase

import (
	"context"

	"restaurandes/internal/domain/entity"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/domain/service"

	"github.com/pkg/errors"
)

type tokenVerifier struct {
	clients *Clients
}

// NewTokenVerifier verifies Firebase Auth ID tokens.
func NewTokenVerifier(clients *Clients) service.IdentityVerifier {
	return &tokenVerifier{clients: clients}
}

func (v *tokenVerifier) Verify(ctx context.Context, token string) (*entity.Identity, error) {
	client, err := v.clients.Auth(ctx)
	if err != nil {
		return nil, err
	}

	verified, err := client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, err.Error())
	}

	identity := &entity.Identity{
		UserID:   verified.UID,
		Provider: verified.Firebase.SignInProvider,
	}
	if email, ok := verified.Claims["email"].(string); ok {
		identity.Email = email
	}

	return identity, nil
}
