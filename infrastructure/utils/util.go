package utils

import (
	"errors"
	"fmt"
	"time"

	"streamhub/infrastructure/logger"

	"github.com/golang-jwt/jwt"
)

var (
	// ErrTokenExpired is returned when a token is well-formed and correctly signed but past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers malformed tokens, bad signatures and unexpected signing methods.
	ErrTokenInvalid = errors.New("token invalid")
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken signs claims with HS256.
func GenerateToken(claims jwt.Claims, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}

// ParseToken verifies tokenString into claims. Expiry is reported as ErrTokenExpired only when the
// signature is otherwise valid, so tampering is never mistaken for expiry.
func ParseToken(tokenString, secretKey string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err == nil && token.Valid {
		return nil
	}

	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors == jwt.ValidationErrorExpired {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", ErrTokenInvalid, ve)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return ErrTokenInvalid
}
