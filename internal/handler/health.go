package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health is the liveness check used by load balancers.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Root answers the bare service URL with a short banner.
func Root(c echo.Context) error {
    return c.String(http.StatusOK, "camp registration service is running")
}
