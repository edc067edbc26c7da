package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/camp-registration/internal/service"
)

// requestTimeout bounds one handler's store and processor calls.
const requestTimeout = 10 * time.Second

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// toHTTP maps a service error onto an HTTP error.  Server-side failures
// get a short message; the cause rides along as Internal for the log.
func toHTTP(err error) error {
    if err == nil {
        return nil
    }
    var he *echo.HTTPError
    if errors.As(err, &he) {
        return he
    }
    switch {
    case errors.Is(err, service.ErrValidation):
        return echo.NewHTTPError(http.StatusBadRequest, err.Error())
    case errors.Is(err, service.ErrNotFound):
        return echo.NewHTTPError(http.StatusNotFound, err.Error())
    case errors.Is(err, service.ErrConflict):
        return echo.NewHTTPError(http.StatusConflict, err.Error())
    case errors.Is(err, service.ErrProcessor):
        return echo.NewHTTPError(http.StatusInternalServerError, "payment processor unavailable").SetInternal(err)
    case errors.Is(err, context.DeadlineExceeded):
        return echo.NewHTTPError(http.StatusInternalServerError, "request timed out").SetInternal(err)
    }
    return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
}

// bindAndValidate decodes the body into dst and runs the registered
// validator on it.
func bindAndValidate(c echo.Context, dst interface{}) error {
    if err := c.Bind(dst); err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
    }
    if err := c.Validate(dst); err != nil {
        return err
    }
    return nil
}
