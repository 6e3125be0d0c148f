package model

import "time"

// Reservation records a client's stay for a date range.  Check-out is
// exclusive: a reservation checking out on the 12th does not overlap
// one checking in on the 12th.  The reservation aggregates one or
// more room-type line items committed in a single transaction.
//
// Fields:
//  ID              – primary key identifier.
//  ClientID        – client who owns the reservation.
//  CheckIn         – first night of the stay (date only, UTC).
//  CheckOut        – day of departure, exclusive (date only, UTC).
//  Status          – free-form state label (e.g. "Created", "Reserved").
//  TotalPriceCents – total price of the stay in cents.
//  GuestCount      – number of guests staying.
//  Description     – optional note supplied by the booker.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
    ID              uint64    // reservations.id
    ClientID        uint64    // reservations.client_id
    CheckIn         time.Time // reservations.check_in (DATE)
    CheckOut        time.Time // reservations.check_out (DATE)
    Status          string    // reservations.status
    TotalPriceCents uint64    // reservations.total_price_cents
    GuestCount      uint8     // reservations.guest_count
    Description     *string   // reservations.description (nullable)
    CreatedAt       time.Time // reservations.created_at
    UpdatedAt       time.Time // reservations.updated_at

    RoomTypes []ReservationRoomType // line items, loaded on demand
}

// ReservationRoomType links a reservation to a room type and records
// how many rooms of that type the reservation holds.  The pair
// (ReservationID, RoomTypeID) is the composite primary key, so a
// reservation carries at most one line item per room type.  Line
// items are created inside the same transaction as their reservation
// and replaced wholesale on update.
//
// Fields:
//  ReservationID     – reservation owning this line item.
//  RoomTypeID        – room type being reserved.
//  ReservedRoomCount – number of rooms of the type held by the reservation.
//  CreatedAt         – creation timestamp.
type ReservationRoomType struct {
    ReservationID     uint64    // reservation_room_types.reservation_id
    RoomTypeID        uint64    // reservation_room_types.room_type_id
    ReservedRoomCount uint32    // reservation_room_types.reserved_room_count
    CreatedAt         time.Time // reservation_room_types.created_at
}
