package identity

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/presenzelab/presenze-backend-go/internal/domain/user"
)

// Tokens are issued by the external auth service; this package only
// verifies them against the shared secret and extracts the caller's
// identity. No token minting happens in this process.

var (
	ErrMissingClaims = errors.New("identity claims are missing or invalid")
)

type Identity struct {
	UserID string
	Badge  string
	Role   user.Role
}

type Verifier struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewVerifier(secretKey string) *Verifier {
	return &Verifier{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (v *Verifier) JWTAuth() *jwtauth.JWTAuth {
	return v.tokenAuth
}

// FromContext extracts the authenticated identity placed in the request
// context by the jwtauth verifier middleware.
func FromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, ErrMissingClaims
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return Identity{}, ErrMissingClaims
	}
	role := user.Role(roleStr)
	if !role.Valid() {
		return Identity{}, ErrMissingClaims
	}

	badge, _ := claims["badge"].(string)

	return Identity{UserID: userID, Badge: badge, Role: role}, nil
}

type ctxKey struct{}

// WithIdentity returns a context carrying id directly, bypassing JWT
// verification. Used by tests and internal callers.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContextOrDirect prefers an identity injected via WithIdentity and
// falls back to the JWT claims.
func FromContextOrDirect(ctx context.Context) (Identity, error) {
	if id, ok := ctx.Value(ctxKey{}).(Identity); ok {
		return id, nil
	}
	return FromContext(ctx)
}
