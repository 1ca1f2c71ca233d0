package utils

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/visadesk/backend/internal/database"
)

// Claims represents the JWT claims. The token trusts nothing beyond the
// subject id and the role recorded at issue time.
type Claims struct {
	SubjectID uuid.UUID     `json:"subject_id"`
	Role      database.Role `json:"role"`
	jwt.StandardClaims
}

var (
	// ErrInvalidToken covers bad signatures, malformed tokens and
	// expired tokens alike.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// GenerateToken signs a bearer token embedding {subject_id, role} with
// the given expiry in hours.
func GenerateToken(secret string, subjectID uuid.UUID, role database.Role, expirationHours int) (string, error) {
	claims := Claims{
		SubjectID: subjectID,
		Role:      role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Duration(expirationHours) * time.Hour).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken validates a bearer token and returns its claims.
func ValidateToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
