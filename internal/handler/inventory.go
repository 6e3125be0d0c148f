package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/repository"
    "github.com/iliyamo/hotel-room-reservation/internal/service"
)

// InventoryHandler manages room types and physical rooms, the two
// tables the availability ledger is computed from.  Mutations are
// admin-only; the availability probe is open to any authenticated
// user so clients can check before booking.
type InventoryHandler struct {
    RoomTypes *repository.RoomTypeRepo
    Rooms     *repository.RoomRepo
    Svc       *service.ReservationService
}

func NewInventoryHandler(rt *repository.RoomTypeRepo, rooms *repository.RoomRepo, svc *service.ReservationService) *InventoryHandler {
    if rt == nil || rooms == nil || svc == nil {
        panic("nil dependency passed to NewInventoryHandler")
    }
    return &InventoryHandler{RoomTypes: rt, Rooms: rooms, Svc: svc}
}

// ----- DTOs -----

type roomTypeReq struct {
    Name         string  `json:"name"`
    PriceCents   uint32  `json:"price_cents"`
    MaxOccupancy uint8   `json:"max_occupancy"`
    Description  *string `json:"description,omitempty"`
}

type roomTypeView struct {
    ID           uint64  `json:"id"`
    Name         string  `json:"name"`
    PriceCents   uint32  `json:"price_cents"`
    MaxOccupancy uint8   `json:"max_occupancy"`
    Description  *string `json:"description,omitempty"`
}

type roomReq struct {
    RoomTypeID  uint64  `json:"room_type_id"`
    RoomNumber  string  `json:"room_number"`
    Description *string `json:"description,omitempty"`
}

type roomView struct {
    ID          uint64  `json:"id"`
    RoomTypeID  uint64  `json:"room_type_id"`
    RoomNumber  string  `json:"room_number"`
    Description *string `json:"description,omitempty"`
}

func toRoomTypeView(m *model.RoomType) roomTypeView {
    return roomTypeView{
        ID:           m.ID,
        Name:         m.Name,
        PriceCents:   m.PriceCents,
        MaxOccupancy: m.MaxOccupancy,
        Description:  m.Description,
    }
}

func toRoomView(m *model.Room) roomView {
    return roomView{
        ID:          m.ID,
        RoomTypeID:  m.RoomTypeID,
        RoomNumber:  m.RoomNumber,
        Description: m.Description,
    }
}

// ----- room types -----

func (h *InventoryHandler) ListRoomTypes(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    out, err := h.RoomTypes.List(ctx)
    if err != nil {
        return respondError(c, err)
    }
    views := make([]roomTypeView, 0, len(out))
    for i := range out {
        views = append(views, toRoomTypeView(&out[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"room_types": views})
}

func (h *InventoryHandler) GetRoomType(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    rt, err := h.RoomTypes.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, toRoomTypeView(rt))
}

func (h *InventoryHandler) CreateRoomType(c echo.Context) error {
    var req roomTypeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" || req.MaxOccupancy == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and max_occupancy required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    id, err := h.RoomTypes.Create(ctx, req.Name, req.PriceCents, req.MaxOccupancy, req.Description)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, toRoomTypeView(&model.RoomType{
        ID:           id,
        Name:         req.Name,
        PriceCents:   req.PriceCents,
        MaxOccupancy: req.MaxOccupancy,
        Description:  req.Description,
    }))
}

func (h *InventoryHandler) UpdateRoomType(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req roomTypeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" || req.MaxOccupancy == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and max_occupancy required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.RoomTypes.Update(ctx, id, req.Name, req.PriceCents, req.MaxOccupancy, req.Description); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, toRoomTypeView(&model.RoomType{
        ID:           id,
        Name:         req.Name,
        PriceCents:   req.PriceCents,
        MaxOccupancy: req.MaxOccupancy,
        Description:  req.Description,
    }))
}

func (h *InventoryHandler) DeleteRoomType(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.RoomTypes.Delete(ctx, id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Availability reports how many rooms of a type are free for a stay.
// Query params: check_in, check_out (YYYY-MM-DD, half-open range).
func (h *InventoryHandler) Availability(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    checkIn, ok := parseDate(c.QueryParam("check_in"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in"})
    }
    checkOut, ok := parseDate(c.QueryParam("check_out"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    available, err := h.Svc.AvailableRooms(ctx, id, checkIn, checkOut)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "room_type_id": id,
        "check_in":     checkIn.Format(dateLayout),
        "check_out":    checkOut.Format(dateLayout),
        "available":    available,
    })
}

// ----- rooms -----

func (h *InventoryHandler) ListRooms(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    out, err := h.Rooms.List(ctx)
    if err != nil {
        return respondError(c, err)
    }
    views := make([]roomView, 0, len(out))
    for i := range out {
        views = append(views, toRoomView(&out[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"rooms": views})
}

func (h *InventoryHandler) GetRoom(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    room, err := h.Rooms.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, toRoomView(room))
}

func (h *InventoryHandler) CreateRoom(c echo.Context) error {
    var req roomReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.RoomNumber = strings.TrimSpace(req.RoomNumber)
    if req.RoomTypeID == 0 || req.RoomNumber == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type_id and room_number required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    // Reject unknown types up front so the FK error never leaks out.
    if _, err := h.RoomTypes.GetByID(ctx, req.RoomTypeID); err != nil {
        return respondError(c, err)
    }
    id, err := h.Rooms.Create(ctx, req.RoomTypeID, req.RoomNumber, req.Description)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, toRoomView(&model.Room{
        ID:          id,
        RoomTypeID:  req.RoomTypeID,
        RoomNumber:  req.RoomNumber,
        Description: req.Description,
    }))
}

func (h *InventoryHandler) UpdateRoom(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req roomReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.RoomNumber = strings.TrimSpace(req.RoomNumber)
    if req.RoomTypeID == 0 || req.RoomNumber == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type_id and room_number required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.RoomTypes.GetByID(ctx, req.RoomTypeID); err != nil {
        return respondError(c, err)
    }
    if err := h.Rooms.Update(ctx, id, req.RoomTypeID, req.RoomNumber, req.Description); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, toRoomView(&model.Room{
        ID:          id,
        RoomTypeID:  req.RoomTypeID,
        RoomNumber:  req.RoomNumber,
        Description: req.Description,
    }))
}

func (h *InventoryHandler) DeleteRoom(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Rooms.Delete(ctx, id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
