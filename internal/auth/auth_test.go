package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-intake/internal/apperr"
)

func TestVerifyRoundTrip(t *testing.T) {
	v := NewVerifier("secret")
	user := uuid.New()

	token, err := v.Issue(user, time.Hour)
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestVerifyRejects(t *testing.T) {
	v := NewVerifier("secret")
	user := uuid.New()

	expired, err := v.Issue(user, -time.Minute)
	require.NoError(t, err)
	otherKey, err := NewVerifier("other").Issue(user, time.Hour)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: user.String()}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "not-a-uuid", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: user.String(), ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"empty":       "",
		"garbage":     "abc.def.ghi",
		"expired":     expired,
		"other key":   otherKey,
		"no expiry":   noExpiry,
		"bad subject": badSubject,
		"wrong alg":   wrongAlg,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, apperr.ErrAuth)
			assert.Equal(t, "Unauthorized", apperr.Message(err))
		})
	}
}

func TestFromRequest(t *testing.T) {
	v := NewVerifier("secret")
	user := uuid.New()
	token, err := v.Issue(user, time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest("POST", "/api/process-resume", nil)
	r.Header.Set("Authorization", "bearer "+token)
	got, err := v.FromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	r.Header.Set("Authorization", token)
	_, err = v.FromRequest(r)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestUserContext(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)

	user := uuid.New()
	got, ok := UserFrom(WithUser(context.Background(), user))
	require.True(t, ok)
	assert.Equal(t, user, got)
}
