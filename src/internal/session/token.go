package session

import (
	"errors"
	"fmt"

	"pctracer-svc/src/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenType = "session"

// Claims is the payload of the session cookie.
type Claims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

func SignToken(secret string, session *models.Session) (string, error) {
	claims := Claims{
		UserID:    session.UserID,
		SessionID: session.SessionID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrSessionCreating, err)
	}
	return signed, nil
}

// ParseToken checks signature, expiry and token type.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", models.ErrSessionInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, models.ErrSessionInvalid
	}

	if claims.TokenType != tokenType || claims.SessionID == "" {
		return nil, fmt.Errorf("%w: unexpected token type", models.ErrSessionInvalid)
	}

	return claims, nil
}
