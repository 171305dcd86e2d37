package model

import "github.com/golang-jwt/jwt"

// TokenType distinguishes the two token classes; each is signed with its own secret.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// UserClaims is the payload of both token classes. Refresh tokens only carry UserID and the jti.
type UserClaims struct {
	jwt.StandardClaims
	UserID   string    `json:"_id"`
	Email    string    `json:"email,omitempty"`
	UserName string    `json:"username,omitempty"`
	FullName string    `json:"fullName,omitempty"`
	Type     TokenType `json:"typ"`
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
