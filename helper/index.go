package helper

import (
	"errors"
	"fmt"
	"time"

	"hostel_manager/model"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidClaims = errors.New("invalid token claims")

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func GenerateAccessToken(secret []byte, caller model.Caller, ttl time.Duration) (model.TokenData, error) {
	expiresAt := time.Now().Add(ttl)
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = caller.UserID
	claims["email"] = caller.Email
	claims["role"] = caller.Role
	claims["exp"] = expiresAt.Unix()

	t, err := token.SignedString(secret)
	if err != nil {
		return model.TokenData{}, err
	}
	return model.TokenData{AccessToken: t, ExpiresAt: expiresAt.Unix()}, nil
}

// ParseToken verifies an HS256 token and returns the caller it was issued to.
func ParseToken(secret []byte, tokenString string) (model.Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return model.Caller{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Caller{}, ErrInvalidClaims
	}
	id, ok := claims["userId"].(float64)
	if !ok || id <= 0 {
		return model.Caller{}, ErrInvalidClaims
	}
	email, _ := claims["email"].(string)
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return model.Caller{}, ErrInvalidClaims
	}
	return model.Caller{UserID: uint(id), Email: email, Role: role}, nil
}
