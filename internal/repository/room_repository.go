package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// RoomRepo provides CRUD operations for the 'rooms' table.  Rows in
// this table are pure inventory: the booking engine never assigns a
// specific room to a reservation, it only counts rooms per type.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// Create inserts a room and returns the new id.  The referenced room
// type must exist; a failed foreign key surfaces as ErrRoomTypeNotFound.
func (r *RoomRepo) Create(ctx context.Context, roomTypeID uint64, roomNumber string, description *string) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO rooms (room_type_id, room_number, description) VALUES (?, ?, ?)`,
        roomTypeID, roomNumber, description)
    if err != nil {
        return 0, ErrRoomTypeNotFound
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID fetches a room by id.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
    var rm model.Room
    var desc sql.NullString
    err := r.db.QueryRowContext(ctx,
        `SELECT id, room_type_id, room_number, description FROM rooms WHERE id = ?`, id).
        Scan(&rm.ID, &rm.RoomTypeID, &rm.RoomNumber, &desc)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRoomNotFound
        }
        return nil, err
    }
    if desc.Valid {
        d := desc.String
        rm.Description = &d
    }
    return &rm, nil
}

// List returns all rooms ordered by room number.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, room_type_id, room_number, description FROM rooms ORDER BY room_number`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Room, 0)
    for rows.Next() {
        var rm model.Room
        var desc sql.NullString
        if err := rows.Scan(&rm.ID, &rm.RoomTypeID, &rm.RoomNumber, &desc); err != nil {
            return nil, err
        }
        if desc.Valid {
            d := desc.String
            rm.Description = &d
        }
        out = append(out, rm)
    }
    return out, rows.Err()
}

// CountByRoomType returns the total number of rooms of a type.  This
// is the capacity ceiling the inventory ledger subtracts reserved
// counts from.
func (r *RoomRepo) CountByRoomType(ctx context.Context, roomTypeID uint64) (int64, error) {
    var n int64
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM rooms WHERE room_type_id = ?`, roomTypeID).Scan(&n)
    return n, err
}

// Update rewrites a room's attributes.
func (r *RoomRepo) Update(ctx context.Context, id uint64, roomTypeID uint64, roomNumber string, description *string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE rooms SET room_type_id = ?, room_number = ?, description = ? WHERE id = ?`,
        roomTypeID, roomNumber, description, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        if _, getErr := r.GetByID(ctx, id); getErr != nil {
            return getErr
        }
    }
    return nil
}

// Delete removes a room from inventory.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrRoomNotFound
    }
    return nil
}
