// Package queue defines message payloads exchanged over the message broker.
package queue

// RoomTypeLine is one room-type selection of a confirmed reservation.
type RoomTypeLine struct {
    RoomTypeID        uint64 `json:"room_type_id"`
    ReservedRoomCount uint32 `json:"reserved_room_count"`
}

// ReservationConfirmedEvent is published when a booking commits.  It
// carries enough information for downstream consumers to log, notify,
// or feed analytics without querying the primary database.
type ReservationConfirmedEvent struct {
    ReservationID   uint64         `json:"reservation_id"`
    ClientID        uint64         `json:"client_id"`
    CheckIn         string         `json:"check_in"`
    CheckOut        string         `json:"check_out"`
    GuestCount      uint8          `json:"guest_count"`
    TotalPriceCents uint64         `json:"total_price_cents"`
    RoomTypes       []RoomTypeLine `json:"room_types"`
    ConfirmedAt     string         `json:"confirmed_at"`
}
