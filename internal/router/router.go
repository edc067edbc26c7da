// Package router registers the HTTP routes on an echo instance.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/camp-registration/internal/handler"
)

// Handlers groups every handler the router mounts.
type Handlers struct {
    Users        *handler.UserHandler
    Tokens       *handler.TokenHandler
    Camps        *handler.CampHandler
    Participants *handler.ParticipantHandler
    Payments     *handler.PaymentHandler
    Feedback     *handler.FeedbackHandler
}

// RegisterRoutes registers the unauthenticated health endpoints.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/", handler.Root)
    e.GET("/healthz", handler.Health)
}

// RegisterAll mounts every route.  cache wraps the public camp listings;
// it may be a pass-through.
func RegisterAll(e *echo.Echo, h Handlers, jwtSecret string, cache echo.MiddlewareFunc) {
    RegisterRoutes(e)
    RegisterPublic(e, h, cache)
    RegisterParticipant(e, h)
    RegisterOrganizer(e, h, jwtSecret)
}
