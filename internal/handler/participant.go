package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/camp-registration/internal/model"
    "github.com/iliyamo/camp-registration/internal/service"
)

// ParticipantHandler serves registrations.
type ParticipantHandler struct {
    Ledger *service.Ledger
}

func NewParticipantHandler(ledger *service.Ledger) *ParticipantHandler {
    if ledger == nil {
        panic("nil ledger passed to NewParticipantHandler")
    }
    return &ParticipantHandler{Ledger: ledger}
}

// registerReq accepts a whole registration record.  paymentStatus and
// confirmationStatus are read but ignored by the ledger.
type registerReq struct {
    CampID             string `json:"campId" validate:"required"`
    ParticipantName    string `json:"participantName" validate:"required,max=200"`
    ParticipantEmail   string `json:"participantEmail" validate:"required,email"`
    Age                int    `json:"age" validate:"gte=0,lte=150"`
    Phone              string `json:"phone" validate:"max=32"`
    Gender             string `json:"gender" validate:"max=32"`
    EmergencyContact   string `json:"emergencyContact" validate:"max=32"`
    PaymentStatus      string `json:"paymentStatus"`
    ConfirmationStatus string `json:"confirmationStatus"`
}

type registerResp struct {
    Acknowledged bool               `json:"acknowledged"`
    InsertedID   string             `json:"insertedId"`
    Participant  *model.Participant `json:"participant"`
}

// Register creates an Unpaid/Pending registration.
func (h *ParticipantHandler) Register(c echo.Context) error {
    var req registerReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()

    rec, err := h.Ledger.Register(ctx, service.RegisterInput{
        CampID:             req.CampID,
        ParticipantName:    req.ParticipantName,
        ParticipantEmail:   req.ParticipantEmail,
        Age:                req.Age,
        Phone:              req.Phone,
        Gender:             req.Gender,
        EmergencyContact:   req.EmergencyContact,
        PaymentStatus:      req.PaymentStatus,
        ConfirmationStatus: req.ConfirmationStatus,
    })
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusCreated, registerResp{Acknowledged: true, InsertedID: rec.ID, Participant: rec})
}

func (h *ParticipantHandler) List(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    out, err := h.Ledger.ListAll(ctx)
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, out)
}

// ListByEmail returns the caller's registrations (":email" path param).
func (h *ParticipantHandler) ListByEmail(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    out, err := h.Ledger.ListByEmail(ctx, c.Param("email"))
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, out)
}

// UpdateStatus patches one registration matched by its id.
func (h *ParticipantHandler) UpdateStatus(c echo.Context) error {
    var patch model.StatusPatch
    if err := bindAndValidate(c, &patch); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    rec, err := h.Ledger.UpdateStatus(ctx, c.Param("id"), patch)
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, rec)
}

// UpdateStatusByCamp patches every registration of a camp.  Kept for
// clients of the older match-by-camp update.
func (h *ParticipantHandler) UpdateStatusByCamp(c echo.Context) error {
    var patch model.StatusPatch
    if err := bindAndValidate(c, &patch); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    n, err := h.Ledger.UpdateStatusByCamp(ctx, c.Param("campId"), patch)
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, echo.Map{"matchedCount": n})
}

// Cancel deletes a registration and decrements its camp's counter.
func (h *ParticipantHandler) Cancel(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    res, err := h.Ledger.Cancel(ctx, c.Param("id"))
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "deletedCount": 1,
        "participant":  res.Participant,
        "counter":      res.Counter.String(),
    })
}
