package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// TokenService mints and verifies signed reconnect tokens. A player who
// proved ownership of a player code gets a token binding their player id to
// the room, so later requests from any device skip the code exchange.
type TokenService struct {
	secret string
	issuer string
	ttl    time.Duration
}

// NewTokenService constructs a TokenService. ttl must be positive.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, issuer: issuer, ttl: ttl}
}

// GenerateToken signs a reconnect token for the given player in the given
// room.
func (s *TokenService) GenerateToken(playerID, roomCode string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("token service is nil")
	}
	if playerID == "" || roomCode == "" {
		return "", fmt.Errorf("player id and room code are required")
	}
	if s.secret == "" {
		return "", fmt.Errorf("token secret is not configured")
	}

	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  playerID,
		"room": roomCode,
		"exp":  time.Now().Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify parses a reconnect token and returns the player id and room code it
// carries. Expired or tampered tokens fail.
func (s *TokenService) Verify(tokenString string) (playerID, roomCode string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("invalid reconnect token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid reconnect token claims")
	}
	playerID, _ = claims["sub"].(string)
	roomCode, _ = claims["room"].(string)
	if playerID == "" || roomCode == "" {
		return "", "", fmt.Errorf("reconnect token missing subject or room")
	}
	return playerID, roomCode, nil
}
