// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"time"

	"restaurandes/internal/domain/entity"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ProviderJWT is reported as the identity provider for locally signed tokens.
const ProviderJWT = "jwt"

// Claims are the registered claims plus the user's email.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// jwtVerifier verifies HS256 tokens signed with a shared secret.
type jwtVerifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTVerifier is the constructor for jwtVerifier.
func NewJWTVerifier(secret, issuer string) (service.IdentityVerifier, error) {
	return newJWTVerifier(secret, issuer, time.Now)
}

func newJWTVerifier(secret, issuer string, now func() time.Time) (*jwtVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtVerifier{
		secret: []byte(secret),
		issuer: issuer,
		now:    now,
	}, nil
}

// Verify checks signature, expiry and issuer and returns the subject as user id.
func (v *jwtVerifier) Verify(_ context.Context, tokenString string) (*entity.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, err.Error())
	}

	if claims.Subject == "" {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "token has no subject")
	}

	return &entity.Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Provider: ProviderJWT,
	}, nil
}

// Sign issues a token for userID. It is used by local tooling and tests.
func (v *jwtVerifier) Sign(userID, email string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return signed, nil
}
