package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid-token")

// sessionClaims carries the opaque guest identity: id plus display name.
// Fields must be exported for JSON serialization.
type sessionClaims struct {
	PlayerID string `json:"pid"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secretKey []byte
	tokenAge  time.Duration
}

func NewJWTManager(secretKey []byte, tokenAge time.Duration) *JWTManager {
	return &JWTManager{secretKey: secretKey, tokenAge: tokenAge}
}

func (m *JWTManager) Generate(playerID, name string) string {
	claims := sessionClaims{
		PlayerID: playerID,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenAge)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, _ := token.SignedString(m.secretKey)
	return signedToken
}

func (m *JWTManager) Verify(tokenString string) (playerID, name string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	})
	if err != nil {
		return "", "", ErrInvalidToken
	}

	if claims, ok := token.Claims.(*sessionClaims); ok && token.Valid {
		return claims.PlayerID, claims.Name, nil
	}
	return "", "", ErrInvalidToken
}
