package middleware

// identity.go holds helpers shared across middleware files.

import (
    "github.com/labstack/echo/v4"
)

// currentUserID returns the subject stored by JWTAuth, or "anon" for
// unauthenticated requests.
func currentUserID(c echo.Context) string {
    if v, ok := c.Get("user_id").(string); ok && v != "" {
        return v
    }
    return "anon"
}
