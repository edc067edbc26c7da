package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"
)

// NewErrorHandler renders every error as {"error": msg}.  Errors that are
// not *echo.HTTPError are logged and answered with a generic 500, as are
// the Internal causes of 5xx HTTP errors.
func NewErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
    return func(err error, c echo.Context) {
        if c.Response().Committed {
            return
        }

        code := http.StatusInternalServerError
        msg := http.StatusText(code)

        if he, ok := err.(*echo.HTTPError); ok {
            code = he.Code
            if m, ok := he.Message.(string); ok {
                msg = m
            } else if he.Message != nil {
                msg = http.StatusText(code)
            }
            if he.Internal != nil && code >= http.StatusInternalServerError {
                log.Error().Err(he.Internal).
                    Str("request_id", RequestIDFromContext(c.Request().Context())).
                    Str("path", c.Path()).
                    Msg(msg)
            }
        } else {
            log.Error().Err(err).
                Str("request_id", RequestIDFromContext(c.Request().Context())).
                Str("path", c.Path()).
                Msg("unhandled error")
        }

        if c.Request().Method == http.MethodHead {
            _ = c.NoContent(code)
            return
        }
        _ = c.JSON(code, map[string]string{"error": msg})
    }
}
