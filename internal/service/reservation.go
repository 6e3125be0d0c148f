// Package service implements the reservation booking engine: pricing
// and occupancy validation, the transactional booking coordinator and
// the line-item replace flow.  Handlers stay thin; everything that
// touches more than one table goes through here.
package service

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "time"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// ErrInvalidStayRange is returned when the check-out date is not
// strictly after the check-in date.  A stay is always at least one
// night; the guard runs before any pricing so zero or negative night
// counts never reach the price calculation.
var ErrInvalidStayRange = errors.New("check-out date must be after check-in date")

// ErrDuplicateRoomType is returned when a booking request names the
// same room type twice.  A reservation holds at most one line item per
// room type; callers should merge counts instead.
var ErrDuplicateRoomType = errors.New("room type listed more than once")

// ErrInvalidRoomCount is returned when a line item requests zero rooms.
var ErrInvalidRoomCount = errors.New("reserved room count must be positive")

// ErrInventoryCorrupt signals that the ledger computed a negative
// availability, meaning committed line items already exceed the room
// count of a type.  This cannot happen while bookings go through the
// coordinator; it is surfaced as an internal error, never as a
// normal conflict.
var ErrInventoryCorrupt = errors.New("inventory ledger inconsistent")

// CapacityError reports that the requested guest count exceeds the
// aggregate occupancy of the selected rooms.  It is raised before any
// transaction is opened.
type CapacityError struct {
    Capacity  int
    Requested int
}

func (e *CapacityError) Error() string {
    return fmt.Sprintf("selected room(s) can accommodate only %d guests, but %d were requested", e.Capacity, e.Requested)
}

// AvailabilityError reports that a room type does not have enough free
// rooms for the requested date range.  When raised inside the booking
// transaction it causes a full rollback; nothing is persisted.
type AvailabilityError struct {
    RoomTypeID uint64
    Available  int64
}

func (e *AvailabilityError) Error() string {
    return fmt.Sprintf("%d room(s) of type %d available for the requested dates", e.Available, e.RoomTypeID)
}

// LineItemInput is one requested room-type selection of a booking.
type LineItemInput struct {
    RoomTypeID        uint64
    ReservedRoomCount uint32
}

// BookingInput carries the caller-supplied fields of a create or full
// update.  The acting identity (client id or user id) is always an
// explicit parameter of the service method, never ambient state.
type BookingInput struct {
    CheckIn     time.Time
    CheckOut    time.Time
    GuestCount  uint8
    Description *string
    RoomTypes   []LineItemInput
}

// StayUpdateInput carries the fields a client may change on their own
// reservation: dates, guest count and description.  The line-item set
// is untouched; occupancy is re-validated against the existing items.
type StayUpdateInput struct {
    CheckIn     time.Time
    CheckOut    time.Time
    GuestCount  uint8
    Description *string
}

// ReservationService coordinates booking transactions.  Availability
// is checked twice per booking: once outside the transaction as a
// fast-fail courtesy, and again inside a serializable transaction as
// the actual correctness mechanism.  The outer check must never be
// relied on: between it and the commit, a concurrent booking may take
// the same rooms.
type ReservationService struct {
    db           *sql.DB
    reservations *repository.ReservationRepo
    roomTypes    *repository.RoomTypeRepo
    clients      *repository.ClientRepo
}

// NewReservationService constructs the booking engine.  All
// dependencies must be non-nil.
func NewReservationService(db *sql.DB, reservations *repository.ReservationRepo, roomTypes *repository.RoomTypeRepo, clients *repository.ClientRepo) *ReservationService {
    if db == nil || reservations == nil || roomTypes == nil || clients == nil {
        panic("nil dependency passed to NewReservationService")
    }
    return &ReservationService{db: db, reservations: reservations, roomTypes: roomTypes, clients: clients}
}

// dateOnly truncates a timestamp to midnight UTC.  The engine compares
// dates, never times of day.
func dateOnly(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// stayNights returns the number of nights between two dates.  The
// range is half-open: check-out day is not a night of the stay.
func stayNights(checkIn, checkOut time.Time) (int, error) {
    nights := int(dateOnly(checkOut).Sub(dateOnly(checkIn)) / (24 * time.Hour))
    if nights < 1 {
        return 0, ErrInvalidStayRange
    }
    return nights, nil
}

// validateLineItems checks the structural rules of a room-type
// selection: non-empty, positive counts, no duplicate types.
func validateLineItems(items []LineItemInput) error {
    if len(items) == 0 {
        return repository.ErrEmptyRoomTypeList
    }
    seen := make(map[uint64]struct{}, len(items))
    for _, li := range items {
        if li.ReservedRoomCount == 0 {
            return ErrInvalidRoomCount
        }
        if _, dup := seen[li.RoomTypeID]; dup {
            return ErrDuplicateRoomType
        }
        seen[li.RoomTypeID] = struct{}{}
    }
    return nil
}

// validateOccupancy verifies that the selected rooms can sleep the
// requested guest count.  Capacity is max occupancy per room times
// rooms reserved, summed over the selection.
func validateOccupancy(guestCount uint8, items []LineItemInput, pricing map[uint64]repository.RoomTypePricing) error {
    capacity := 0
    for _, li := range items {
        capacity += int(pricing[li.RoomTypeID].MaxOccupancy) * int(li.ReservedRoomCount)
    }
    if int(guestCount) > capacity {
        return &CapacityError{Capacity: capacity, Requested: int(guestCount)}
    }
    return nil
}

// totalPriceCents computes the stay price: nightly price times rooms
// reserved times nights, summed over the selection.  Pure function of
// its inputs.
func totalPriceCents(items []LineItemInput, pricing map[uint64]repository.RoomTypePricing, nights int) uint64 {
    var total uint64
    for _, li := range items {
        total += uint64(pricing[li.RoomTypeID].PriceCents) * uint64(li.ReservedRoomCount) * uint64(nights)
    }
    return total
}

// fetchPricing loads price and occupancy data for every room type in
// the selection.  Unknown ids surface as ErrRoomTypeNotFound.
func (s *ReservationService) fetchPricing(ctx context.Context, items []LineItemInput) (map[uint64]repository.RoomTypePricing, error) {
    pricing := make(map[uint64]repository.RoomTypePricing, len(items))
    for _, li := range items {
        p, err := s.roomTypes.GetPricingInfo(ctx, li.RoomTypeID)
        if err != nil {
            return nil, err
        }
        pricing[li.RoomTypeID] = p
    }
    return pricing, nil
}

// checkShortfall turns a ledger reading into the matching error: an
// AvailabilityError on shortfall, ErrInventoryCorrupt when the ledger
// went negative (the invariant is already broken), nil when the
// request fits.
func checkShortfall(roomTypeID uint64, available int64, requested uint32, err error) error {
    if err != nil {
        return err
    }
    if available < 0 {
        return fmt.Errorf("room type %d: %w", roomTypeID, ErrInventoryCorrupt)
    }
    if available < int64(requested) {
        return &AvailabilityError{RoomTypeID: roomTypeID, Available: available}
    }
    return nil
}

// Create books a reservation for an explicit client id (admin path).
// Status is stored as given, defaulting to "Created" when empty.
func (s *ReservationService) Create(ctx context.Context, clientID uint64, status string, in BookingInput) (*model.Reservation, error) {
    if _, err := s.clients.GetByID(ctx, clientID); err != nil {
        return nil, err
    }
    if status == "" {
        status = "Created"
    }
    return s.book(ctx, clientID, status, in)
}

// CreateForUser books a reservation on behalf of the authenticated
// user.  The user is resolved to a client profile first; a missing
// profile is terminal for the booking flow.
func (s *ReservationService) CreateForUser(ctx context.Context, userID uint64, in BookingInput) (*model.Reservation, error) {
    client, err := s.clients.GetByUserID(ctx, userID)
    if err != nil {
        return nil, err
    }
    return s.book(ctx, client.ID, "Created", in)
}

// book runs the full booking pipeline: validate, advisory availability
// check, then the serializable transaction that re-verifies
// availability and persists the reservation with its line items.
func (s *ReservationService) book(ctx context.Context, clientID uint64, status string, in BookingInput) (*model.Reservation, error) {
    in.CheckIn, in.CheckOut = dateOnly(in.CheckIn), dateOnly(in.CheckOut)
    nights, err := stayNights(in.CheckIn, in.CheckOut)
    if err != nil {
        return nil, err
    }
    if err := validateLineItems(in.RoomTypes); err != nil {
        return nil, err
    }
    pricing, err := s.fetchPricing(ctx, in.RoomTypes)
    if err != nil {
        return nil, err
    }
    if err := validateOccupancy(in.GuestCount, in.RoomTypes, pricing); err != nil {
        return nil, err
    }
    total := totalPriceCents(in.RoomTypes, pricing, nights)

    // Advisory pre-check: fail fast without transaction overhead.  The
    // result is stale the instant concurrent requests exist, which is
    // why the same check runs again inside the transaction below.
    for _, li := range in.RoomTypes {
        avail, err := s.reservations.AvailableRooms(ctx, li.RoomTypeID, in.CheckIn, in.CheckOut)
        if err := checkShortfall(li.RoomTypeID, avail, li.ReservedRoomCount, err); err != nil {
            return nil, err
        }
    }

    tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Authoritative re-check under serializable isolation.  One of two
    // racing bookings for the same rooms either sees the other's line
    // items here or fails to commit.
    for _, li := range in.RoomTypes {
        avail, err := s.reservations.AvailableRoomsTx(ctx, tx, li.RoomTypeID, in.CheckIn, in.CheckOut, 0)
        if err := checkShortfall(li.RoomTypeID, avail, li.ReservedRoomCount, err); err != nil {
            return nil, err
        }
    }

    rec := &repository.ReservationRecord{
        ClientID:        clientID,
        CheckIn:         in.CheckIn,
        CheckOut:        in.CheckOut,
        Status:          status,
        TotalPriceCents: total,
        GuestCount:      in.GuestCount,
        Description:     in.Description,
    }
    if err := s.reservations.CreateTx(ctx, tx, rec); err != nil {
        return nil, err
    }
    if err := s.reservations.AddLineItemsTx(ctx, tx, lineItemRecords(rec.ID, in.RoomTypes)); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return reservationModel(rec, in.RoomTypes), nil
}

// Update rewrites a reservation wholesale (admin path): header fields,
// client assignment, status and the full line-item set.  Unlike the
// system this replaces, the update path re-runs the transactional
// availability re-check; the reservation's own line items are excluded
// from the overlap sum so an unchanged booking always revalidates
// cleanly.
func (s *ReservationService) Update(ctx context.Context, id, clientID uint64, status string, in BookingInput) (*model.Reservation, error) {
    if _, err := s.reservations.GetByID(ctx, id); err != nil {
        return nil, err
    }
    if _, err := s.clients.GetByID(ctx, clientID); err != nil {
        return nil, err
    }
    in.CheckIn, in.CheckOut = dateOnly(in.CheckIn), dateOnly(in.CheckOut)
    nights, err := stayNights(in.CheckIn, in.CheckOut)
    if err != nil {
        return nil, err
    }
    if err := validateLineItems(in.RoomTypes); err != nil {
        return nil, err
    }
    pricing, err := s.fetchPricing(ctx, in.RoomTypes)
    if err != nil {
        return nil, err
    }
    if err := validateOccupancy(in.GuestCount, in.RoomTypes, pricing); err != nil {
        return nil, err
    }
    total := totalPriceCents(in.RoomTypes, pricing, nights)

    tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    for _, li := range in.RoomTypes {
        avail, err := s.reservations.AvailableRoomsTx(ctx, tx, li.RoomTypeID, in.CheckIn, in.CheckOut, id)
        if err := checkShortfall(li.RoomTypeID, avail, li.ReservedRoomCount, err); err != nil {
            return nil, err
        }
    }

    rec := &repository.ReservationRecord{
        ID:              id,
        ClientID:        clientID,
        CheckIn:         in.CheckIn,
        CheckOut:        in.CheckOut,
        Status:          status,
        TotalPriceCents: total,
        GuestCount:      in.GuestCount,
        Description:     in.Description,
    }
    if err := s.reservations.UpdateTx(ctx, tx, rec); err != nil {
        return nil, err
    }
    if err := s.reservations.ReplaceLineItemsTx(ctx, tx, id, lineItemRecords(id, in.RoomTypes)); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return reservationModel(rec, in.RoomTypes), nil
}

// UpdateForUser lets a client change dates, guest count and
// description on their own reservation.  The line-item set stays as
// booked; occupancy is re-validated against it and, because a date
// change shifts demand, availability is re-checked inside the same
// serializable transaction with the reservation's own items excluded.
func (s *ReservationService) UpdateForUser(ctx context.Context, userID, id uint64, in StayUpdateInput) (*model.Reservation, error) {
    client, err := s.clients.GetByUserID(ctx, userID)
    if err != nil {
        return nil, err
    }
    existing, err := s.reservations.GetByIDForClient(ctx, id, client.ID)
    if err != nil {
        return nil, err
    }
    items, err := s.reservations.GetLineItems(ctx, id)
    if err != nil {
        return nil, err
    }
    inputs := lineItemInputs(items)

    in.CheckIn, in.CheckOut = dateOnly(in.CheckIn), dateOnly(in.CheckOut)
    nights, err := stayNights(in.CheckIn, in.CheckOut)
    if err != nil {
        return nil, err
    }
    pricing, err := s.fetchPricing(ctx, inputs)
    if err != nil {
        return nil, err
    }
    if err := validateOccupancy(in.GuestCount, inputs, pricing); err != nil {
        return nil, err
    }
    total := totalPriceCents(inputs, pricing, nights)

    tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    for _, li := range inputs {
        avail, err := s.reservations.AvailableRoomsTx(ctx, tx, li.RoomTypeID, in.CheckIn, in.CheckOut, id)
        if err := checkShortfall(li.RoomTypeID, avail, li.ReservedRoomCount, err); err != nil {
            return nil, err
        }
    }

    rec := &repository.ReservationRecord{
        ID:              id,
        ClientID:        client.ID,
        CheckIn:         in.CheckIn,
        CheckOut:        in.CheckOut,
        Status:          existing.Status,
        TotalPriceCents: total,
        GuestCount:      in.GuestCount,
        Description:     in.Description,
    }
    if err := s.reservations.UpdateHeaderTx(ctx, tx, rec); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return reservationModel(rec, inputs), nil
}

// Delete removes a reservation and its line items (admin path).
func (s *ReservationService) Delete(ctx context.Context, id uint64) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := s.reservations.DeleteTx(ctx, tx, id); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// DeleteForUser removes a reservation owned by the authenticated user.
func (s *ReservationService) DeleteForUser(ctx context.Context, userID, id uint64) error {
    client, err := s.clients.GetByUserID(ctx, userID)
    if err != nil {
        return err
    }
    if _, err := s.reservations.GetByIDForClient(ctx, id, client.ID); err != nil {
        return err
    }
    return s.Delete(ctx, id)
}

// Get returns a reservation with its line items (admin path).
func (s *ReservationService) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
    rec, err := s.reservations.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    items, err := s.reservations.GetLineItems(ctx, id)
    if err != nil {
        return nil, err
    }
    m := recordToModel(rec)
    m.RoomTypes = items
    return m, nil
}

// List returns every reservation with line items (admin path).
func (s *ReservationService) List(ctx context.Context) ([]model.Reservation, error) {
    return s.reservations.ListAll(ctx)
}

// GetForUser returns one of the authenticated user's reservations.
func (s *ReservationService) GetForUser(ctx context.Context, userID, id uint64) (*model.Reservation, error) {
    client, err := s.clients.GetByUserID(ctx, userID)
    if err != nil {
        return nil, err
    }
    rec, err := s.reservations.GetByIDForClient(ctx, id, client.ID)
    if err != nil {
        return nil, err
    }
    items, err := s.reservations.GetLineItems(ctx, id)
    if err != nil {
        return nil, err
    }
    m := recordToModel(rec)
    m.RoomTypes = items
    return m, nil
}

// ListForUser returns all reservations of the authenticated user.
func (s *ReservationService) ListForUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
    client, err := s.clients.GetByUserID(ctx, userID)
    if err != nil {
        return nil, err
    }
    return s.reservations.ListByClient(ctx, client.ID)
}

// AvailableRooms exposes the inventory ledger for the availability
// endpoint.  Dates follow the same half-open rule as bookings.
func (s *ReservationService) AvailableRooms(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time) (int64, error) {
    checkIn, checkOut = dateOnly(checkIn), dateOnly(checkOut)
    if _, err := stayNights(checkIn, checkOut); err != nil {
        return 0, err
    }
    if _, err := s.roomTypes.GetPricingInfo(ctx, roomTypeID); err != nil {
        return 0, err
    }
    avail, err := s.reservations.AvailableRooms(ctx, roomTypeID, checkIn, checkOut)
    if err != nil {
        return 0, err
    }
    if avail < 0 {
        return 0, fmt.Errorf("room type %d: %w", roomTypeID, ErrInventoryCorrupt)
    }
    return avail, nil
}

func lineItemRecords(reservationID uint64, items []LineItemInput) []repository.LineItemRecord {
    out := make([]repository.LineItemRecord, 0, len(items))
    for _, li := range items {
        out = append(out, repository.LineItemRecord{
            ReservationID:     reservationID,
            RoomTypeID:        li.RoomTypeID,
            ReservedRoomCount: li.ReservedRoomCount,
        })
    }
    return out
}

func lineItemInputs(items []model.ReservationRoomType) []LineItemInput {
    out := make([]LineItemInput, 0, len(items))
    for _, li := range items {
        out = append(out, LineItemInput{RoomTypeID: li.RoomTypeID, ReservedRoomCount: li.ReservedRoomCount})
    }
    return out
}

func recordToModel(rec *repository.ReservationRecord) *model.Reservation {
    return &model.Reservation{
        ID:              rec.ID,
        ClientID:        rec.ClientID,
        CheckIn:         rec.CheckIn,
        CheckOut:        rec.CheckOut,
        Status:          rec.Status,
        TotalPriceCents: rec.TotalPriceCents,
        GuestCount:      rec.GuestCount,
        Description:     rec.Description,
        CreatedAt:       rec.CreatedAt,
        UpdatedAt:       rec.UpdatedAt,
    }
}

func reservationModel(rec *repository.ReservationRecord, items []LineItemInput) *model.Reservation {
    m := recordToModel(rec)
    m.RoomTypes = make([]model.ReservationRoomType, 0, len(items))
    for _, li := range items {
        m.RoomTypes = append(m.RoomTypes, model.ReservationRoomType{
            ReservationID:     rec.ID,
            RoomTypeID:        li.RoomTypeID,
            ReservedRoomCount: li.ReservedRoomCount,
        })
    }
    return m
}
