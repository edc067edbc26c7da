package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/camp-registration/internal/model"
    "github.com/iliyamo/camp-registration/internal/service"
)

// FeedbackHandler serves camp ratings.
type FeedbackHandler struct {
    Feedback *service.Feedback
}

func NewFeedbackHandler(fb *service.Feedback) *FeedbackHandler {
    if fb == nil {
        panic("nil feedback service passed to NewFeedbackHandler")
    }
    return &FeedbackHandler{Feedback: fb}
}

type feedbackReq struct {
    CampID           string `json:"campId" validate:"required"`
    ParticipantName  string `json:"participantName" validate:"max=200"`
    ParticipantEmail string `json:"participantEmail" validate:"required,email"`
    Rating           int    `json:"rating" validate:"required,min=1,max=5"`
    Comment          string `json:"comment" validate:"max=2000"`
}

func (h *FeedbackHandler) Submit(c echo.Context) error {
    var req feedbackReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    fb := &model.Feedback{
        CampID:           req.CampID,
        ParticipantName:  req.ParticipantName,
        ParticipantEmail: req.ParticipantEmail,
        Rating:           req.Rating,
        Comment:          req.Comment,
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    if err := h.Feedback.Submit(ctx, fb); err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusCreated, fb)
}

func (h *FeedbackHandler) List(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    out, err := h.Feedback.List(ctx)
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, out)
}

func (h *FeedbackHandler) ListByCamp(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    out, err := h.Feedback.ListByCamp(ctx, c.Param("campId"))
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, out)
}
