package handler // handler defines http handlers

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/repository"
    "github.com/iliyamo/hotel-room-reservation/internal/service"
)

// dateLayout is the wire format for check-in/check-out dates.  The
// engine works with dates only; no time of day crosses the API.
const dateLayout = "2006-01-02"

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    return id, err == nil && id != 0
}

// parseDate parses a YYYY-MM-DD date string into midnight UTC.
func parseDate(s string) (time.Time, bool) {
    t, err := time.Parse(dateLayout, s)
    return t, err == nil
}

// respondError maps engine and repository errors to HTTP responses.
// Detail-carrying errors (capacity, availability) expose their numbers
// so clients can adjust the request without parsing message text.
func respondError(c echo.Context, err error) error {
    var capErr *service.CapacityError
    var availErr *service.AvailabilityError
    switch {
    case errors.Is(err, repository.ErrClientNotFound),
        errors.Is(err, repository.ErrReservationNotFound),
        errors.Is(err, repository.ErrRoomTypeNotFound),
        errors.Is(err, repository.ErrRoomNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrEmptyRoomTypeList),
        errors.Is(err, service.ErrInvalidStayRange),
        errors.Is(err, service.ErrDuplicateRoomType),
        errors.Is(err, service.ErrInvalidRoomCount):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.As(err, &capErr):
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error":     capErr.Error(),
            "capacity":  capErr.Capacity,
            "requested": capErr.Requested,
        })
    case errors.As(err, &availErr):
        return c.JSON(http.StatusConflict, echo.Map{
            "error":        availErr.Error(),
            "room_type_id": availErr.RoomTypeID,
            "available":    availErr.Available,
        })
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}

// ----- shared reservation DTOs -----

type lineItemDTO struct {
    RoomTypeID        uint64 `json:"room_type_id"`
    ReservedRoomCount uint32 `json:"reserved_room_count"`
}

type reservationView struct {
    ID              uint64        `json:"id"`
    ClientID        uint64        `json:"client_id"`
    CheckIn         string        `json:"check_in"`
    CheckOut        string        `json:"check_out"`
    Status          string        `json:"status"`
    TotalPriceCents uint64        `json:"total_price_cents"`
    GuestCount      uint8         `json:"guest_count"`
    Description     *string       `json:"description,omitempty"`
    RoomTypes       []lineItemDTO `json:"room_types"`
}

func toReservationView(m *model.Reservation) reservationView {
    v := reservationView{
        ID:              m.ID,
        ClientID:        m.ClientID,
        CheckIn:         m.CheckIn.Format(dateLayout),
        CheckOut:        m.CheckOut.Format(dateLayout),
        Status:          m.Status,
        TotalPriceCents: m.TotalPriceCents,
        GuestCount:      m.GuestCount,
        Description:     m.Description,
        RoomTypes:       make([]lineItemDTO, 0, len(m.RoomTypes)),
    }
    for _, li := range m.RoomTypes {
        v.RoomTypes = append(v.RoomTypes, lineItemDTO{
            RoomTypeID:        li.RoomTypeID,
            ReservedRoomCount: li.ReservedRoomCount,
        })
    }
    return v
}

func toReservationViews(ms []model.Reservation) []reservationView {
    out := make([]reservationView, 0, len(ms))
    for i := range ms {
        out = append(out, toReservationView(&ms[i]))
    }
    return out
}

func toLineItemInputs(items []lineItemDTO) []service.LineItemInput {
    out := make([]service.LineItemInput, 0, len(items))
    for _, li := range items {
        out = append(out, service.LineItemInput{
            RoomTypeID:        li.RoomTypeID,
            ReservedRoomCount: li.ReservedRoomCount,
        })
    }
    return out
}
