package model

// RoomType is a category of bookable room (e.g. "Deluxe").  All rooms
// of a type share the same nightly price and per-room occupancy limit.
// The number of rooms referencing a type is the inventory ceiling the
// booking engine checks reservations against.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name of the category.
//  PriceCents   – nightly price per room in cents.
//  MaxOccupancy – maximum guests a single room of this type sleeps.
//  Description  – optional free-form description.
type RoomType struct {
    ID           uint64  // room_types.id
    Name         string  // room_types.name
    PriceCents   uint32  // room_types.price_cents
    MaxOccupancy uint8   // room_types.max_occupancy
    Description  *string // room_types.description (nullable)
}

// Room is one physical bookable unit of inventory.  Rooms are never
// reserved individually; the engine only counts them per type.
//
// Fields:
//  ID          – primary key identifier.
//  RoomTypeID  – category this room belongs to.
//  RoomNumber  – human-facing room number (e.g. "204").
//  Description – optional free-form description.
type Room struct {
    ID          uint64  // rooms.id
    RoomTypeID  uint64  // rooms.room_type_id
    RoomNumber  string  // rooms.room_number
    Description *string // rooms.description (nullable)
}
