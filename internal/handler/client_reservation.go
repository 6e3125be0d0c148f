package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/service"
)

// ClientReservationHandler serves the self-service surface under
// /v1/my-reservations.  Every operation resolves the acting client
// from the authenticated user id, so a client can never read or touch
// another client's reservations.
type ClientReservationHandler struct {
    Svc *service.ReservationService
}

func NewClientReservationHandler(svc *service.ReservationService) *ClientReservationHandler {
    if svc == nil {
        panic("nil service passed to NewClientReservationHandler")
    }
    return &ClientReservationHandler{Svc: svc}
}

type clientBookingReq struct {
    CheckIn     string        `json:"check_in"`
    CheckOut    string        `json:"check_out"`
    GuestCount  uint8         `json:"guest_count"`
    Description *string       `json:"description,omitempty"`
    RoomTypes   []lineItemDTO `json:"room_types"`
}

type clientStayUpdateReq struct {
    CheckIn     string  `json:"check_in"`
    CheckOut    string  `json:"check_out"`
    GuestCount  uint8   `json:"guest_count"`
    Description *string `json:"description,omitempty"`
}

// List returns the caller's reservations.
func (h *ClientReservationHandler) List(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    out, err := h.Svc.ListForUser(ctx, userID)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": toReservationViews(out)})
}

// Get returns one of the caller's reservations.  A reservation that
// belongs to someone else reads as not found.
func (h *ClientReservationHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    res, err := h.Svc.GetForUser(ctx, userID, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, toReservationView(res))
}

// Create books a reservation for the caller.
func (h *ClientReservationHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req clientBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    checkIn, ok := parseDate(req.CheckIn)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in"})
    }
    checkOut, ok := parseDate(req.CheckOut)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    res, err := h.Svc.CreateForUser(ctx, userID, service.BookingInput{
        CheckIn:     checkIn,
        CheckOut:    checkOut,
        GuestCount:  req.GuestCount,
        Description: req.Description,
        RoomTypes:   toLineItemInputs(req.RoomTypes),
    })
    if err != nil {
        return respondError(c, err)
    }
    publishConfirmed(res)
    return c.JSON(http.StatusCreated, toReservationView(res))
}

// Update changes the dates, guest count or description of the caller's
// reservation.  The room-type selection stays as booked.
func (h *ClientReservationHandler) Update(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req clientStayUpdateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    checkIn, ok := parseDate(req.CheckIn)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in"})
    }
    checkOut, ok := parseDate(req.CheckOut)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    res, err := h.Svc.UpdateForUser(ctx, userID, id, service.StayUpdateInput{
        CheckIn:     checkIn,
        CheckOut:    checkOut,
        GuestCount:  req.GuestCount,
        Description: req.Description,
    })
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, toReservationView(res))
}

// Delete cancels the caller's reservation.
func (h *ClientReservationHandler) Delete(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    if err := h.Svc.DeleteForUser(ctx, userID, id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
