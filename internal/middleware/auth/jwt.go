package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
	"go.uber.org/zap"
)

// SessionClaims are the claims of a Clerk session token as configured for this service.
type SessionClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	ImageURL  string `json:"image_url"`
	jwt.RegisteredClaims
}

// contextKey is used for storing the principal in context
type contextKey string

const (
	principalContextKey contextKey = "authenticated_principal"
)

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret string
	Logger *zap.Logger
	// Optional lets anonymous and unverifiable requests through without a principal.
	Optional bool
}

// JWTMiddleware validates HS256 bearer tokens and stores the principal in the request context
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if config.Optional {
					return next(c)
				}
				config.Logger.Warn("Missing authorization header",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Authorization header required",
					"code":  "MISSING_AUTH_HEADER",
				})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				if config.Optional {
					return next(c)
				}
				config.Logger.Warn("Invalid authorization header format",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid authorization header format. Expected: Bearer <token>",
					"code":  "INVALID_AUTH_FORMAT",
				})
			}

			principal, err := ParseToken(tokenString, config.Secret)
			if err != nil {
				config.Logger.Warn("JWT validation failed",
					zap.Error(err),
					zap.String("path", path))
				if config.Optional {
					return next(c)
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid or expired token",
					"code":  "INVALID_TOKEN",
				})
			}

			ctx := context.WithValue(c.Request().Context(), principalContextKey, principal)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", principal.UserID)

			config.Logger.Debug("User authenticated successfully",
				zap.String("user_id", principal.UserID),
				zap.String("path", path))

			return next(c)
		}
	}
}

// ParseToken verifies tokenString and maps its claims to a principal.
func ParseToken(tokenString, secret string) (*entity.Principal, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &entity.Principal{
		UserID:    claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Username:  claims.Username,
		ImageURL:  claims.ImageURL,
	}, nil
}

// GetPrincipalFromContext extracts the authenticated principal from the request context
func GetPrincipalFromContext(c echo.Context) (*entity.Principal, bool) {
	principal, ok := c.Request().Context().Value(principalContextKey).(*entity.Principal)
	return principal, ok && principal != nil
}

// RequireAuth is a helper function to get the principal or return an error response
func RequireAuth(c echo.Context) (*entity.Principal, error) {
	principal, ok := GetPrincipalFromContext(c)
	if !ok {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Authentication required",
			"code":  "AUTH_REQUIRED",
		})
	}
	return principal, nil
}

// WithPrincipal returns ctx carrying principal, for callers outside the middleware.
func WithPrincipal(ctx context.Context, principal *entity.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}
