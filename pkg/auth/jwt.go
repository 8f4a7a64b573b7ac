package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and verifies the bearer tokens bound to a user id.
type TokenManager struct {
	Secret    string
	ExpiresIn time.Duration
}

type TokenClaims struct {
	UserID   int
	IssuedAt time.Time
}

func NewTokenManager(secret string, expiresIn time.Duration) *TokenManager {
	return &TokenManager{Secret: secret, ExpiresIn: expiresIn}
}

func (m *TokenManager) CreateToken(userID int) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(m.ExpiresIn).Unix(),
	})

	return token.SignedString([]byte(m.Secret))
}

func (m *TokenManager) VerifyToken(tokenString string) (TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(m.Secret), nil
	})

	if err != nil {
		return TokenClaims{}, err
	}

	if !token.Valid {
		return TokenClaims{}, fmt.Errorf("invalid access token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return TokenClaims{}, fmt.Errorf("invalid token claims")
	}

	id, ok := claims["id"].(float64)

	if !ok {
		return TokenClaims{}, fmt.Errorf("token missing user id")
	}

	iat, _ := claims["iat"].(float64)

	return TokenClaims{
		UserID:   int(id),
		IssuedAt: time.Unix(int64(iat), 0),
	}, nil
}
