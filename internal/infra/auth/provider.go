package auth

import (
	"log/slog"

	"restaurandes/config"
	"restaurandes/internal/domain/constants"
	"restaurandes/internal/domain/service"
	"restaurandes/internal/infra/firebase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// VerifierParams holds dependencies for IdentityVerifier, injected by Fx
type VerifierParams struct {
	fx.In

	Config  *config.Config
	Clients *firebase.Clients
	Logger  *slog.Logger
}

// NewIdentityVerifier selects the token verifier configured in auth.provider
func NewIdentityVerifier(params VerifierParams) (service.IdentityVerifier, error) {
	cfg := params.Config.Auth

	switch cfg.Provider {
	case constants.AuthProviderFirebase:
		params.Logger.Info("Verifying Firebase ID tokens")

		return firebase.NewTokenVerifier(params.Clients), nil

	case constants.AuthProviderJWT:
		params.Logger.Info("Verifying HS256 tokens", slog.String("issuer", cfg.JWTIssuer))

		return NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)

	default:
		return nil, errors.Errorf("unknown auth provider: %s", cfg.Provider)
	}
}

// Module provides the identity verifier FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewIdentityVerifier),
)
