package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/camp-registration/internal/model"
    "github.com/iliyamo/camp-registration/internal/service"
)

// CampHandler serves camp CRUD and the popular list.
type CampHandler struct {
    Camps   *service.Camps
    Counter *service.Counter
}

func NewCampHandler(camps *service.Camps, counter *service.Counter) *CampHandler {
    if camps == nil || counter == nil {
        panic("nil service passed to NewCampHandler")
    }
    return &CampHandler{Camps: camps, Counter: counter}
}

type campReq struct {
    CampName               string  `json:"campName" validate:"required,max=200"`
    Image                  string  `json:"image" validate:"omitempty,url"`
    CampFees               float64 `json:"campFees" validate:"gte=0,lte=1000000"`
    DateTime               string  `json:"dateTime"`
    Location               string  `json:"location"`
    HealthcareProfessional string  `json:"healthcareProfessional"`
    Description            string  `json:"description"`
    ParticipantCount       int     `json:"participantCount" validate:"gte=0"`
}

// Create stores a camp owned by the calling organizer.
func (h *CampHandler) Create(c echo.Context) error {
    var req campReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    camp := &model.Camp{
        CampName:               req.CampName,
        Image:                  req.Image,
        CampFees:               req.CampFees,
        DateTime:               req.DateTime,
        Location:               req.Location,
        HealthcareProfessional: req.HealthcareProfessional,
        Description:            req.Description,
        ParticipantCount:       req.ParticipantCount,
    }
    if email, ok := c.Get("user_id").(string); ok {
        camp.OrganizerEmail = email // set by JWTAuth
    }

    ctx, cancel := withTimeout(c)
    defer cancel()
    if err := h.Camps.Create(ctx, camp); err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusCreated, camp)
}

func (h *CampHandler) List(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    camps, err := h.Camps.List(ctx)
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, camps)
}

func (h *CampHandler) Get(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    camp, err := h.Camps.Get(ctx, c.Param("id"))
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, camp)
}

// Update overwrites the fields present in the body.
func (h *CampHandler) Update(c echo.Context) error {
    var patch model.CampPatch
    if err := bindAndValidate(c, &patch); err != nil {
        return err
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    camp, err := h.Camps.Update(ctx, c.Param("id"), patch)
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, camp)
}

func (h *CampHandler) Delete(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    if err := h.Camps.Delete(ctx, c.Param("id")); err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}

// Popular lists the most registered camps.  ?limit overrides the default
// of six; invalid values fall back to it.
func (h *CampHandler) Popular(c echo.Context) error {
    limit := service.DefaultPopularLimit
    if s := c.QueryParam("limit"); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 50 {
            limit = n
        }
    }
    ctx, cancel := withTimeout(c)
    defer cancel()
    camps, err := h.Counter.ListPopular(ctx, limit)
    if err != nil {
        return toHTTP(err)
    }
    return c.JSON(http.StatusOK, camps)
}
