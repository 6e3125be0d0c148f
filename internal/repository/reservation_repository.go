package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and their
// room-type line items, plus the availability query the booking engine
// runs before committing.  Reservations group one or more line items
// for a client and date range; line items live in the
// reservation_room_types table.  Date columns are DATE (no time of
// day) and all timestamps are stored in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so the service layer can open
// transactions that span the reservation header and its line items.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// ReservationRecord mirrors the schema of the reservations table.  It
// is used internally by the repository when constructing or scanning
// rows.  Business logic should use the model.Reservation type instead.
type ReservationRecord struct {
    ID              uint64
    ClientID        uint64
    CheckIn         time.Time
    CheckOut        time.Time
    Status          string
    TotalPriceCents uint64
    GuestCount      uint8
    Description     *string
    CreatedAt       time.Time
    UpdatedAt       time.Time
}

// LineItemRecord mirrors the reservation_room_types table.  It maps a
// reservation to a room type and the number of rooms of that type the
// reservation holds.
type LineItemRecord struct {
    ReservationID     uint64
    RoomTypeID        uint64
    ReservedRoomCount uint32
}

const dateLayout = "2006-01-02"

// queryRower is satisfied by both *sql.DB and *sql.Tx, letting the
// availability query run inside or outside a transaction.
type queryRower interface {
    QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// availableRoomsQuery computes total rooms of a type minus the rooms
// held by line items whose reservation overlaps [checkIn, checkOut)
// under the half-open rule: existing.check_in < checkOut AND
// existing.check_out > checkIn.  An excluded reservation id lets the
// update path ignore the reservation being rewritten (0 = exclude
// nothing).
const availableRoomsQuery = `SELECT
        (SELECT COUNT(*) FROM rooms WHERE room_type_id = ?) -
        COALESCE((SELECT SUM(rrt.reserved_room_count)
                  FROM reservation_room_types rrt
                  JOIN reservations r ON r.id = rrt.reservation_id
                  WHERE rrt.room_type_id = ?
                    AND r.check_in < ?
                    AND r.check_out > ?
                    AND rrt.reservation_id <> ?), 0)`

func availableRooms(ctx context.Context, q queryRower, roomTypeID uint64, checkIn, checkOut time.Time, excludeReservationID uint64) (int64, error) {
    var n int64
    err := q.QueryRowContext(ctx, availableRoomsQuery,
        roomTypeID, roomTypeID,
        checkOut.Format(dateLayout), checkIn.Format(dateLayout),
        excludeReservationID,
    ).Scan(&n)
    return n, err
}

// AvailableRooms returns how many rooms of the given type are free for
// the date range, reading outside any transaction.  This is the
// advisory fast-fail check; only the transactional variant is
// authoritative under concurrency.
func (r *ReservationRepo) AvailableRooms(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time) (int64, error) {
    return availableRooms(ctx, r.db, roomTypeID, checkIn, checkOut, 0)
}

// AvailableRoomsTx is the transactional availability check.  Run under
// serializable isolation it observes a consistent snapshot, so the
// count it returns cannot be invalidated by a concurrent booking that
// commits first.  excludeReservationID removes a reservation's own
// line items from the overlap sum; pass 0 when creating.
func (r *ReservationRepo) AvailableRoomsTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, checkIn, checkOut time.Time, excludeReservationID uint64) (int64, error) {
    return availableRooms(ctx, tx, roomTypeID, checkIn, checkOut, excludeReservationID)
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction.  It populates the generated ID and timestamps on the
// provided record.  The caller must commit or rollback the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *ReservationRecord) error {
    const q = `INSERT INTO reservations (client_id, check_in, check_out, status, total_price_cents, guest_count, description)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q,
        res.ClientID,
        res.CheckIn.Format(dateLayout), res.CheckOut.Format(dateLayout),
        res.Status, res.TotalPriceCents, res.GuestCount, res.Description)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    // Query back the row to populate timestamps and defaults
    const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// UpdateTx rewrites a reservation header within an existing
// transaction.  Returns ErrReservationNotFound when the id does not
// exist; callers are expected to have loaded the row beforehand so a
// zero RowsAffected here normally means a no-op update.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, res *ReservationRecord) error {
    const q = `UPDATE reservations
               SET client_id = ?, check_in = ?, check_out = ?, status = ?, total_price_cents = ?, guest_count = ?, description = ?
               WHERE id = ?`
    _, err := tx.ExecContext(ctx, q,
        res.ClientID,
        res.CheckIn.Format(dateLayout), res.CheckOut.Format(dateLayout),
        res.Status, res.TotalPriceCents, res.GuestCount, res.Description,
        res.ID)
    return err
}

// UpdateHeaderTx rewrites the client-mutable fields of a reservation
// (dates, guest count, price, description) without touching the client
// or status columns.
func (r *ReservationRepo) UpdateHeaderTx(ctx context.Context, tx *sql.Tx, res *ReservationRecord) error {
    const q = `UPDATE reservations
               SET check_in = ?, check_out = ?, total_price_cents = ?, guest_count = ?, description = ?
               WHERE id = ?`
    _, err := tx.ExecContext(ctx, q,
        res.CheckIn.Format(dateLayout), res.CheckOut.Format(dateLayout),
        res.TotalPriceCents, res.GuestCount, res.Description,
        res.ID)
    return err
}

// DeleteTx removes a reservation and its line items within a
// transaction.  Line items are deleted explicitly rather than relying
// on cascading foreign keys.  Returns ErrReservationNotFound when the
// header row does not exist.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
    if _, err := tx.ExecContext(ctx,
        `DELETE FROM reservation_room_types WHERE reservation_id = ?`, reservationID); err != nil {
        return err
    }
    res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, reservationID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrReservationNotFound
    }
    return nil
}

// GetByID returns a reservation header by id, without line items.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*ReservationRecord, error) {
    const q = `SELECT id, client_id, check_in, check_out, status, total_price_cents, guest_count, description, created_at, updated_at
               FROM reservations WHERE id = ?`
    return r.scanReservation(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDForClient returns a reservation header scoped to a client.
// A reservation belonging to a different client is reported as not
// found rather than forbidden, so ids cannot be probed.
func (r *ReservationRepo) GetByIDForClient(ctx context.Context, id, clientID uint64) (*ReservationRecord, error) {
    const q = `SELECT id, client_id, check_in, check_out, status, total_price_cents, guest_count, description, created_at, updated_at
               FROM reservations WHERE id = ? AND client_id = ?`
    return r.scanReservation(r.db.QueryRowContext(ctx, q, id, clientID))
}

func (r *ReservationRepo) scanReservation(row *sql.Row) (*ReservationRecord, error) {
    var rec ReservationRecord
    var desc sql.NullString
    err := row.Scan(&rec.ID, &rec.ClientID, &rec.CheckIn, &rec.CheckOut, &rec.Status,
        &rec.TotalPriceCents, &rec.GuestCount, &desc, &rec.CreatedAt, &rec.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }
    if desc.Valid {
        d := desc.String
        rec.Description = &d
    }
    return &rec, nil
}

// ListAll returns every reservation with its line items, newest first.
// This is the admin view.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
    const q = `SELECT id, client_id, check_in, check_out, status, total_price_cents, guest_count, description, created_at, updated_at
               FROM reservations ORDER BY created_at DESC`
    return r.listReservations(ctx, q)
}

// ListByClient returns all reservations owned by a client with their
// line items, newest first.
func (r *ReservationRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.Reservation, error) {
    const q = `SELECT id, client_id, check_in, check_out, status, total_price_cents, guest_count, description, created_at, updated_at
               FROM reservations WHERE client_id = ? ORDER BY created_at DESC`
    return r.listReservations(ctx, q, clientID)
}

func (r *ReservationRepo) listReservations(ctx context.Context, query string, args ...interface{}) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    index := make(map[uint64]int)
    for rows.Next() {
        var m model.Reservation
        var desc sql.NullString
        if err := rows.Scan(&m.ID, &m.ClientID, &m.CheckIn, &m.CheckOut, &m.Status,
            &m.TotalPriceCents, &m.GuestCount, &desc, &m.CreatedAt, &m.UpdatedAt); err != nil {
            return nil, err
        }
        if desc.Valid {
            d := desc.String
            m.Description = &d
        }
        m.RoomTypes = []model.ReservationRoomType{}
        index[m.ID] = len(out)
        out = append(out, m)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(out) == 0 {
        return out, nil
    }
    // Populate line items for all reservations in a single query
    ids := make([]interface{}, 0, len(out))
    placeholders := make([]string, 0, len(out))
    for _, m := range out {
        ids = append(ids, m.ID)
        placeholders = append(placeholders, "?")
    }
    liQuery := `SELECT reservation_id, room_type_id, reserved_room_count, created_at
                FROM reservation_room_types
                WHERE reservation_id IN (` + strings.Join(placeholders, ",") + `)
                ORDER BY reservation_id, room_type_id`
    lrows, err := r.db.QueryContext(ctx, liQuery, ids...)
    if err != nil {
        return nil, err
    }
    defer lrows.Close()
    for lrows.Next() {
        var li model.ReservationRoomType
        if err := lrows.Scan(&li.ReservationID, &li.RoomTypeID, &li.ReservedRoomCount, &li.CreatedAt); err != nil {
            return nil, err
        }
        idx, ok := index[li.ReservationID]
        if !ok {
            continue
        }
        out[idx].RoomTypes = append(out[idx].RoomTypes, li)
    }
    return out, lrows.Err()
}

// GetLineItems returns the line items of a reservation ordered by
// room type, reading outside any transaction.
func (r *ReservationRepo) GetLineItems(ctx context.Context, reservationID uint64) ([]model.ReservationRoomType, error) {
    const q = `SELECT reservation_id, room_type_id, reserved_room_count, created_at
               FROM reservation_room_types
               WHERE reservation_id = ?
               ORDER BY room_type_id`
    rows, err := r.db.QueryContext(ctx, q, reservationID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    items := make([]model.ReservationRoomType, 0)
    for rows.Next() {
        var li model.ReservationRoomType
        if err := rows.Scan(&li.ReservationID, &li.RoomTypeID, &li.ReservedRoomCount, &li.CreatedAt); err != nil {
            return nil, err
        }
        items = append(items, li)
    }
    return items, rows.Err()
}

// AddLineItemsTx inserts all line items of a reservation in a single
// statement within the provided transaction.  The line-item set is
// mandatory: an empty slice returns ErrEmptyRoomTypeList before any
// row is written.
func (r *ReservationRepo) AddLineItemsTx(ctx context.Context, tx *sql.Tx, items []LineItemRecord) error {
    if len(items) == 0 {
        return ErrEmptyRoomTypeList
    }
    query := `INSERT INTO reservation_room_types (reservation_id, room_type_id, reserved_room_count) VALUES `
    args := make([]interface{}, 0, len(items)*3)
    for i, li := range items {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?)"
        args = append(args, li.ReservationID, li.RoomTypeID, li.ReservedRoomCount)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// ReplaceLineItemsTx swaps a reservation's line-item set wholesale:
// the existing rows are deleted in full, then the new set is inserted.
// This is a delete-then-insert replace, not a diff; a room type
// omitted from newItems is dropped even if its count was unchanged.
// The empty-set guard runs before the delete so a bad replace mutates
// nothing.
func (r *ReservationRepo) ReplaceLineItemsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, newItems []LineItemRecord) error {
    if len(newItems) == 0 {
        return ErrEmptyRoomTypeList
    }
    if _, err := tx.ExecContext(ctx,
        `DELETE FROM reservation_room_types WHERE reservation_id = ?`, reservationID); err != nil {
        return err
    }
    return r.AddLineItemsTx(ctx, tx, newItems)
}
