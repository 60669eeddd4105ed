package helper

import (
	"testing"
	"time"

	"hostel_manager/constants"
	"hostel_manager/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("student123")
	require.NoError(t, err)
	assert.NotEqual(t, "student123", hash)
	assert.True(t, CheckPasswordHash("student123", hash))
	assert.False(t, CheckPasswordHash("student124", hash))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("s3cret")
	caller := model.Caller{UserID: 42, Email: "a@b.c", Role: constants.ROLE_STUDENT}

	data, err := GenerateAccessToken(secret, caller, time.Hour)
	require.NoError(t, err)
	assert.Greater(t, data.ExpiresAt, time.Now().Unix())

	got, err := ParseToken(secret, data.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, caller, got)

	_, err = ParseToken([]byte("other"), data.AccessToken)
	assert.Error(t, err)
}

func TestParseTokenRejects(t *testing.T) {
	secret := []byte("s3cret")

	expired, err := GenerateAccessToken(secret, model.Caller{UserID: 1, Role: constants.ROLE_ADMIN}, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, expired.AccessToken)
	assert.Error(t, err)

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": 1, "exp": time.Now().Add(time.Hour).Unix()})
	s, err := noRole.SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(secret, s)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": 1, "role": constants.ROLE_ADMIN})
	s, err = noExp.SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(secret, s)
	assert.Error(t, err)

	_, err = ParseToken(secret, "garbage")
	assert.Error(t, err)
}
