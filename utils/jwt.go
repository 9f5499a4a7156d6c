package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// RoleAdmin is the role claim required by the admin console endpoints.
const RoleAdmin = "admin"

// AdminClaims are the claims carried by admin console tokens.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// GenerateAdminToken creates a signed HS256 token for the given subject.
// The token expires after the specified duration.
func GenerateAdminToken(secret []byte, subject, role string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(duration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAdminToken parses tokenString and checks signature, expiry and role.
func ValidateAdminToken(secret []byte, tokenString string) (*AdminClaims, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role != RoleAdmin {
		return nil, errors.New("token does not carry the admin role")
	}
	return claims, nil
}
