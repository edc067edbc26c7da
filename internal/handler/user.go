package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/camp-registration/internal/model"
    "github.com/iliyamo/camp-registration/internal/service"
)

// UserHandler serves the user directory.
type UserHandler struct {
    Users *service.Users
}

func NewUserHandler(users *service.Users) *UserHandler {
    if users == nil {
        panic("nil users service passed to NewUserHandler")
    }
    return &UserHandler{Users: users}
}

type userReq struct {
    UID            string `json:"uid"`
    Name           string `json:"name" validate:"max=200"`
    Email          string `json:"email" validate:"required,email"`
    ProfilePicture string `json:"profilePicture" validate:"omitempty,url"`
}

// Register stores a user the first time their email is seen.  A repeated
// call is not an error: it answers 200 with the stored record.  A role in
// the body is ignored; the service assigns it.
func (h *UserHandler) Register(c echo.Context) error {
    var req userReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    u, created, err := h.Users.Register(ctx, &model.User{
        UID:            strings.TrimSpace(req.UID),
        Name:           strings.TrimSpace(req.Name),
        Email:          req.Email,
        ProfilePicture: req.ProfilePicture,
    })
    if err != nil {
        return toHTTP(err)
    }
    if !created {
        return c.JSON(http.StatusOK, echo.Map{"message": "User already registered", "user": u})
    }
    return c.JSON(http.StatusCreated, u)
}

// List returns every user.  Mounted behind the organizer role.
func (h *UserHandler) List(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    users, err := h.Users.List(ctx)
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, users)
}

// Get returns the user with the :email path parameter.
func (h *UserHandler) Get(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    u, err := h.Users.GetByEmail(ctx, c.Param("email"))
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, u)
}
