package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/camp-registration/internal/service"
)

// TokenHandler issues access tokens for registered users.
type TokenHandler struct {
    Tokens *service.Tokens
}

func NewTokenHandler(tokens *service.Tokens) *TokenHandler {
    if tokens == nil {
        panic("nil tokens service passed to NewTokenHandler")
    }
    return &TokenHandler{Tokens: tokens}
}

type tokenReq struct {
    Email string `json:"email" validate:"required,email"`
}

type tokenResp struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}

// Issue exchanges a registered email for a signed access token.
func (h *TokenHandler) Issue(c echo.Context) error {
    var req tokenReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    tok, err := h.Tokens.Issue(ctx, req.Email)
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, tokenResp{Token: tok.Token, Expires: tok.Exp})
}
