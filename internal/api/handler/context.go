package handler

import "github.com/labstack/echo/v4"

// ctxUser extracts the identity injected by the Auth / OptionalAuth
// middleware. Both values are empty for anonymous requests on routes
// guarded by OptionalAuth; routes behind Auth always carry a user ID.
func ctxUser(c echo.Context) (userID, email string) {
	userID, _ = c.Get("user_id").(string)
	email, _ = c.Get("user_email").(string)
	return userID, email
}
