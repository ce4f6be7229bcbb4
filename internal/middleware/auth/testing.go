package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
)

// SignToken issues an HS256 session token for principal. It mirrors what the
// identity provider issues and is used by tests and local tooling.
func SignToken(principal entity.Principal, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email:     principal.Email,
		FirstName: principal.FirstName,
		LastName:  principal.LastName,
		Username:  principal.Username,
		ImageURL:  principal.ImageURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
