package handler

import (
    "context"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/queue"
    "github.com/iliyamo/hotel-room-reservation/internal/service"
)

// ReservationHandler serves the admin reservation surface.  Admins
// operate on any client's reservations and control the stored status;
// the client-facing surface lives in ClientReservationHandler.
type ReservationHandler struct {
    Svc *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
    if svc == nil {
        panic("nil service passed to NewReservationHandler")
    }
    return &ReservationHandler{Svc: svc}
}

// ----- request DTOs -----

type createReservationReq struct {
    ClientID    uint64        `json:"client_id"`
    CheckIn     string        `json:"check_in"`  // YYYY-MM-DD
    CheckOut    string        `json:"check_out"` // YYYY-MM-DD
    GuestCount  uint8         `json:"guest_count"`
    Status      string        `json:"status,omitempty"`
    Description *string       `json:"description,omitempty"`
    RoomTypes   []lineItemDTO `json:"room_types"`
}

type updateReservationReq struct {
    ClientID    uint64        `json:"client_id"`
    CheckIn     string        `json:"check_in"`
    CheckOut    string        `json:"check_out"`
    GuestCount  uint8         `json:"guest_count"`
    Status      string        `json:"status"`
    Description *string       `json:"description,omitempty"`
    RoomTypes   []lineItemDTO `json:"room_types"`
}

// publishConfirmed pushes a reservation.confirmed event to the broker.
// Publishing is best-effort: the booking already committed, so a broker
// outage must not turn a successful request into an error.
func publishConfirmed(res *model.Reservation) {
    lines := make([]queue.RoomTypeLine, 0, len(res.RoomTypes))
    for _, li := range res.RoomTypes {
        lines = append(lines, queue.RoomTypeLine{
            RoomTypeID:        li.RoomTypeID,
            ReservedRoomCount: li.ReservedRoomCount,
        })
    }
    event := queue.ReservationConfirmedEvent{
        ReservationID:   res.ID,
        ClientID:        res.ClientID,
        CheckIn:         res.CheckIn.Format(dateLayout),
        CheckOut:        res.CheckOut.Format(dateLayout),
        GuestCount:      res.GuestCount,
        TotalPriceCents: res.TotalPriceCents,
        RoomTypes:       lines,
        ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
    }
    ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
    defer cancel()
    if err := service.PublishReservationConfirmed(ctx, event); err != nil {
        log.Printf("publish reservation.confirmed failed: reservation_id=%d err=%v", res.ID, err)
    }
}

// List returns every reservation with its line items.
func (h *ReservationHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    out, err := h.Svc.List(ctx)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": toReservationViews(out)})
}

// Get returns one reservation by id.
func (h *ReservationHandler) Get(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    res, err := h.Svc.Get(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, toReservationView(res))
}

// Create books a reservation on behalf of a client.
func (h *ReservationHandler) Create(c echo.Context) error {
    var req createReservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.ClientID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id required"})
    }
    checkIn, ok := parseDate(req.CheckIn)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in"})
    }
    checkOut, ok := parseDate(req.CheckOut)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out"})
    }
    status := req.Status
    if status == "" {
        status = "CONFIRMED"
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    res, err := h.Svc.Create(ctx, req.ClientID, status, service.BookingInput{
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

// Update replaces a reservation's header and line items.
func (h *ReservationHandler) Update(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req updateReservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.ClientID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id required"})
    }
    checkIn, ok := parseDate(req.CheckIn)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in"})
    }
    checkOut, ok := parseDate(req.CheckOut)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out"})
    }
    status := req.Status
    if status == "" {
        status = "CONFIRMED"
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    res, err := h.Svc.Update(ctx, id, req.ClientID, status, service.BookingInput{
        CheckIn:     checkIn,
        CheckOut:    checkOut,
        GuestCount:  req.GuestCount,
        Description: req.Description,
        RoomTypes:   toLineItemInputs(req.RoomTypes),
    })
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, toReservationView(res))
}

// Delete removes a reservation and releases its inventory.
func (h *ReservationHandler) Delete(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    if err := h.Svc.Delete(ctx, id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
