package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/camp-registration/internal/middleware"
    "github.com/iliyamo/camp-registration/internal/model"
)

// RegisterOrganizer registers the routes that require a valid JWT with the
// organizer role: camp mutations and the full user list.  The middleware
// is attached per route rather than through a root group so that unknown
// paths still answer 404 instead of 401.
func RegisterOrganizer(e *echo.Echo, h Handlers, jwtSecret string) {
    guard := []echo.MiddlewareFunc{
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleOrganizer),
    }

    e.POST("/camps", h.Camps.Create, guard...)
    e.PATCH("/camps/:id", h.Camps.Update, guard...)
    e.DELETE("/camps/:id", h.Camps.Delete, guard...)

    e.GET("/users", h.Users.List, guard...)
}
