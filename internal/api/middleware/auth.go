package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Auth validates the external identity provider's HS256 access token and
// injects the subject id and email into the request context. Requests
// without a valid token are rejected.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return authMiddleware(jwtSecret, true)
}

// OptionalAuth injects claims when a valid token is present but lets
// anonymous requests through. Used on public pages whose content varies by
// entitlement (the brand directory, checkout).
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return authMiddleware(jwtSecret, false)
}

func authMiddleware(jwtSecret string, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if required {
					return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
				}
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			// Identity-provider tokens carry the account id in sub.
			sub, _ := claims["sub"].(string)
			email, _ := claims["email"].(string)
			c.Set("user_id", sub)
			c.Set("user_email", email)

			return next(c)
		}
	}
}
