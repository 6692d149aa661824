package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PlayerIdentity is the already-verified identity carried by a token.
// Issuing tokens is the identity service's job; the match engine only
// validates them.
type PlayerIdentity struct {
	ID          string
	DisplayName string
	Avatar      string
}

type AuthService struct {
	jwtSecret []byte
}

func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: []byte(jwtSecret)}
}

func (s *AuthService) ValidateToken(tokenString string) (*PlayerIdentity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	playerID, ok := claims["sub"].(string)
	if !ok || playerID == "" {
		return nil, errors.New("invalid subject in token")
	}

	identity := &PlayerIdentity{ID: playerID}
	if name, ok := claims["name"].(string); ok {
		identity.DisplayName = name
	}
	if identity.DisplayName == "" {
		identity.DisplayName = playerID
	}
	if avatar, ok := claims["avatar"].(string); ok {
		identity.Avatar = avatar
	}
	return identity, nil
}

// GenerateToken mints a token for a player identity. Kept for local
// development and tests; production tokens come from the identity
// service signed with the same secret.
func (s *AuthService) GenerateToken(identity PlayerIdentity) (string, error) {
	claims := jwt.MapClaims{
		"sub":    identity.ID,
		"name":   identity.DisplayName,
		"avatar": identity.Avatar,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
		"iat":    time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
