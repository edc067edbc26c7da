package router

import (
    "github.com/labstack/echo/v4"
)

// RegisterParticipant registers the registration, payment and feedback
// routes.  They need no token; request bodies are
// validated in the handlers.
func RegisterParticipant(e *echo.Echo, h Handlers) {
    e.POST("/participants", h.Participants.Register)
    e.GET("/participants", h.Participants.List)
    e.GET("/participants/:email", h.Participants.ListByEmail)
    e.PATCH("/participants/:id", h.Participants.UpdateStatus)
    // older clients update every registration of a camp at once
    e.PATCH("/participants/camp/:campId", h.Participants.UpdateStatusByCamp)
    e.DELETE("/participants/:id", h.Participants.Cancel)

    e.POST("/create-payment-intent", h.Payments.CreateIntent)
    e.POST("/feedback", h.Feedback.Submit)
}
