package middleware

import (
    "context"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or generates one, echoes it
// on the response and stores it on the request context.
func RequestID() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            rid := c.Request().Header.Get(HeaderRequestID)
            if rid == "" {
                rid = uuid.NewString()
            }
            ctx := context.WithValue(c.Request().Context(), requestIDKey, rid)
            c.SetRequest(c.Request().WithContext(ctx))
            c.Response().Header().Set(HeaderRequestID, rid)
            return next(c)
        }
    }
}

// RequestIDFromContext returns the id stored by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
    if v, ok := ctx.Value(requestIDKey).(string); ok {
        return v
    }
    return ""
}
