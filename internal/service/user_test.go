package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser() *User {
	return &User{
		jwtSecret: []byte("test-secret"),
		jwtExpire: time.Hour * 72,
	}
}

func TestUserSignJWT(t *testing.T) {
	s := newTestUser()

	now := time.Now().Truncate(time.Second)
	validBefore := now.Add(s.jwtExpire)
	signed, err := s.signJWT(42, "session-token", now, validBefore)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, strconv.Itoa(42), claims["userId"])
	assert.Equal(t, "session-token", claims["jti"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, validBefore.Unix(), exp.Unix())
}

func TestUserFromTokenRejectsBadTokens(t *testing.T) {
	s := newTestUser()
	ctx := context.Background()

	t.Run("Garbage", func(t *testing.T) {
		_, err := s.FromToken(ctx, "not.a.jwt")
		require.Error(t, err)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := &User{jwtSecret: []byte("other-secret"), jwtExpire: time.Hour}
		now := time.Now()
		signed, err := other.signJWT(1, "tok", now, now.Add(time.Hour))
		require.NoError(t, err)

		_, err = s.FromToken(ctx, signed)
		require.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		now := time.Now().Add(-2 * time.Hour)
		signed, err := s.signJWT(1, "tok", now, now.Add(time.Hour))
		require.NoError(t, err)

		_, err = s.FromToken(ctx, signed)
		require.Error(t, err)
	})

	t.Run("AlgNone", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"userId": "1",
			"jti":    "tok",
		})
		tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = s.FromToken(ctx, tokenString)
		require.Error(t, err)
	})
}
