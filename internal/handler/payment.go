package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/camp-registration/internal/service"
)

// PaymentHandler creates payment intents for camp fees.
type PaymentHandler struct {
    Bridge *service.PaymentBridge
}

func NewPaymentHandler(bridge *service.PaymentBridge) *PaymentHandler {
    if bridge == nil {
        panic("nil payment bridge passed to NewPaymentHandler")
    }
    return &PaymentHandler{Bridge: bridge}
}

type intentReq struct {
    CampID string `json:"campId" validate:"required"`
    Email  string `json:"email" validate:"required,email"`
}

// CreateIntent answers {clientSecret}.  An unknown camp is 404; any
// processor failure is 500.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
    var req intentReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    secret, err := h.Bridge.CreateIntent(ctx, req.CampID, req.Email)
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, echo.Map{"clientSecret": secret})
}
