package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// ClientHandler exposes admin CRUD over client profiles.
type ClientHandler struct {
    Clients *repository.ClientRepo
}

func NewClientHandler(cl *repository.ClientRepo) *ClientHandler {
    if cl == nil {
        panic("nil repository passed to NewClientHandler")
    }
    return &ClientHandler{Clients: cl}
}

type clientUpdateReq struct {
    Gender  *string `json:"gender,omitempty"`
    Country *string `json:"country,omitempty"`
    IsVIP   bool    `json:"is_vip"`
}

type clientView struct {
    ID               uint64  `json:"id"`
    UserID           uint64  `json:"user_id"`
    RegistrationDate string  `json:"registration_date"`
    Gender           *string `json:"gender,omitempty"`
    Country          *string `json:"country,omitempty"`
    IsVIP            bool    `json:"is_vip"`
}

func toClientView(r *repository.ClientRecord) clientView {
    return clientView{
        ID:               r.ID,
        UserID:           r.UserID,
        RegistrationDate: r.RegistrationDate,
        Gender:           r.Gender,
        Country:          r.Country,
        IsVIP:            r.IsVIP,
    }
}

func (h *ClientHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    out, err := h.Clients.List(ctx)
    if err != nil {
        return respondError(c, err)
    }
    views := make([]clientView, 0, len(out))
    for i := range out {
        views = append(views, toClientView(&out[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"clients": views})
}

func (h *ClientHandler) Get(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    rec, err := h.Clients.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, toClientView(rec))
}

// Update edits the profile fields an admin may change.  Profiles are
// created through registration, so there is no create endpoint here.
func (h *ClientHandler) Update(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req clientUpdateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Clients.Update(ctx, id, req.Gender, req.Country, req.IsVIP); err != nil {
        return respondError(c, err)
    }
    rec, err := h.Clients.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, toClientView(rec))
}

func (h *ClientHandler) Delete(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Clients.Delete(ctx, id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
