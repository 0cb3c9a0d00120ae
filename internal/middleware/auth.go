package middleware

import (
	"log"
	"net/http"
	"strings"

	"cvforge/internal/common"
	"cvforge/internal/config"
	"cvforge/internal/repositories"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware validates bearer tokens and loads the authenticated user
// into the request context. Keys come from the identity provider's JWKS
// endpoint when configured, otherwise from the shared HS256 secret.
type AuthMiddleware struct {
	userRepo repositories.UserRepository
	secret   []byte
	jwks     *keyfunc.JWKS
}

func NewAuthMiddleware(userRepo repositories.UserRepository, authConfig config.AuthConfig) (*AuthMiddleware, error) {
	m := &AuthMiddleware{
		userRepo: userRepo,
		secret:   []byte(authConfig.Secret),
	}

	if authConfig.JWKSURL != "" {
		jwks, err := keyfunc.Get(authConfig.JWKSURL, keyfunc.Options{
			RefreshErrorHandler: func(err error) {
				log.Printf("WARN: JWKS refresh failed: %v", err)
			},
		})
		if err != nil {
			return nil, err
		}
		m.jwks = jwks
	}

	return m, nil
}

func (m *AuthMiddleware) keyFunc(token *jwt.Token) (interface{}, error) {
	if m.jwks != nil {
		return m.jwks.Keyfunc(token)
	}
	return m.secret, nil
}

// OptionalAuth extracts the user from a bearer token when one is present.
// A missing token is not an error: the request proceeds anonymously and
// entitlement evaluation sees a nil user. A malformed or expired token is
// rejected so a caller can distinguish "logged out" from "broken session".
func (m *AuthMiddleware) OptionalAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			token, err := jwt.Parse(tokenString, m.keyFunc)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			sub, ok := claims["sub"].(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing user_id in token")
			}

			userID, err := uuid.Parse(sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user_id format")
			}

			// The store is authoritative for tier state; claims may
			// predate an upgrade.
			user, err := m.userRepo.GetByID(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
			}

			ctx := common.WithUser(c.Request().Context(), user)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
