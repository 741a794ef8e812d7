package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hjo3-cse40/SlugConnect/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware.
const (
	ContextKeyClaims    = "user"
	ContextKeyUserID    = "userID"
	ContextKeySessionID = "sessionID"
)

// Authenticator resolves a bearer token to the claims of an open session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.JwtCustomClaims, error)
}

// JWTAuthMiddleware checks for a valid token whose session is still open and
// stores the viewer's identity in the context. Errors for which isAuthError
// returns true become 401; anything else means the session store failed.
func JWTAuthMiddleware(authn Authenticator, isAuthError func(error) bool, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := authn.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				if isAuthError(err) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired session")
				}
				log.Error("session lookup failed", zap.Error(err))
				return echo.NewHTTPError(http.StatusBadGateway, "Could not verify session")
			}

			c.Set(ContextKeyClaims, claims)
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeySessionID, claims.SessionID)
			return next(c)
		}
	}
}
