package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"resume-intake/internal/apperr"
)

// Verifier checks HS256 bearer tokens whose subject is the user id.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify returns the user id carried by token.
func (v *Verifier) Verify(token string) (uuid.UUID, error) {
	if token == "" || len(v.secret) == 0 {
		return uuid.Nil, apperr.Auth("Unauthorized")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, apperr.New(apperr.ErrAuth, "Unauthorized", err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperr.Auth("Unauthorized")
	}
	return id, nil
}

// Issue signs a token for user that expires after ttl.
func (v *Verifier) Issue(user uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(v.secret)
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

func (v *Verifier) FromRequest(r *http.Request) (uuid.UUID, error) {
	return v.Verify(BearerToken(r))
}

type ctxKey struct{}

func WithUser(ctx context.Context, user uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFrom returns the authenticated user stored by WithUser.
func UserFrom(ctx context.Context) (uuid.UUID, bool) {
	user, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return user, ok
}
