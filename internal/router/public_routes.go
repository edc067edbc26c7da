package router

import (
    "github.com/labstack/echo/v4"
)

// RegisterPublic registers the routes that need no token: the user
// directory, token issuance and the cached camp listings.
func RegisterPublic(e *echo.Echo, h Handlers, cache echo.MiddlewareFunc) {
    e.POST("/users", h.Users.Register)
    e.GET("/users/:email", h.Users.Get)
    e.POST("/jwt", h.Tokens.Issue)

    // read-mostly; writes purge the cache
    e.GET("/camps", h.Camps.List, cache)
    e.GET("/camps/:id", h.Camps.Get, cache)
    e.GET("/popular", h.Camps.Popular, cache)

    e.GET("/feedback", h.Feedback.List)
    e.GET("/feedback/:campId", h.Feedback.ListByCamp)
}
