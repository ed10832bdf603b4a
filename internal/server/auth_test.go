package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRoundTrip(t *testing.T) {
	a := NewAuth(testUser, testPassword, testSecret, time.Hour)
	token, expires, err := a.Login(testUser, testPassword)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := a.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, testUser, claims.Username)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestAuthRejects(t *testing.T) {
	a := NewAuth(testUser, testPassword, testSecret, time.Hour)

	_, _, err := a.Login("root", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, _, err := a.Login(testUser, testPassword)
	require.NoError(t, err)

	other := NewAuth(testUser, testPassword, "ffffffffffffffffffffffffffffffff", time.Hour)
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "different secret")

	a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = a.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &AdminClaims{Username: testUser})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewAuth(testUser, testPassword, testSecret, time.Hour).Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")
}

func TestAuthDisabled(t *testing.T) {
	var nilAuth *Auth
	assert.False(t, nilAuth.Enabled())

	a := NewAuth(testUser, "", testSecret, 0)
	assert.False(t, a.Enabled())
	_, _, err := a.Login(testUser, "")
	assert.ErrorIs(t, err, ErrAdminDisabled)
	_, err = a.Validate("x")
	assert.ErrorIs(t, err, ErrAdminDisabled)
}
