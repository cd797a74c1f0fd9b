// Package auth implements the signed-token identity codec. Tokens are HS256
// JWTs carrying the subject id, email and role; verification is stateless and
// consults only the shared secret.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/photoframe/internal/common"
	"github.com/dmitrijs2005/photoframe/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the set of assertions embedded in an access token: the standard
// registered claims plus the identity projection {UserID, Email, Role}.
type Claims struct {
	jwt.RegisteredClaims
	UserID string      `json:"uid"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// GenerateToken issues a signed token for the given identity, valid for
// validityDuration from now. It has no side effects beyond signing.
func GenerateToken(user *models.User, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the embedded claims.
// Expired tokens fail with common.ErrTokenExpired; any other decode or
// signature problem fails with common.ErrInvalidToken, so callers can tell a
// client to refresh rather than re-login.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
