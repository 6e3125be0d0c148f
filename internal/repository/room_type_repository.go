package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// RoomTypeRepo provides CRUD operations for the 'room_types' table
// plus the pricing/occupancy lookup used by the booking validator.
type RoomTypeRepo struct {
    db *sql.DB
}

// NewRoomTypeRepo returns a new RoomTypeRepo bound to the given database.
func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo { return &RoomTypeRepo{db: db} }

// RoomTypePricing carries the two room-type attributes the booking
// engine needs: the nightly price and the per-room occupancy limit.
// Fetching them together keeps the validator to one round trip per
// room type.
type RoomTypePricing struct {
    PriceCents   uint32
    MaxOccupancy uint8
}

// Create inserts a room type and returns the new id.
func (r *RoomTypeRepo) Create(ctx context.Context, name string, priceCents uint32, maxOccupancy uint8, description *string) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO room_types (name, price_cents, max_occupancy, description) VALUES (?, ?, ?, ?)`,
        name, priceCents, maxOccupancy, description)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID fetches a room type by id.  Returns ErrRoomTypeNotFound when
// no such row exists.
func (r *RoomTypeRepo) GetByID(ctx context.Context, id uint64) (*model.RoomType, error) {
    var rt model.RoomType
    var desc sql.NullString
    err := r.db.QueryRowContext(ctx,
        `SELECT id, name, price_cents, max_occupancy, description FROM room_types WHERE id = ?`, id).
        Scan(&rt.ID, &rt.Name, &rt.PriceCents, &rt.MaxOccupancy, &desc)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRoomTypeNotFound
        }
        return nil, err
    }
    if desc.Valid {
        d := desc.String
        rt.Description = &d
    }
    return &rt, nil
}

// GetPricingInfo returns the nightly price and max occupancy for a
// room type.  Returns ErrRoomTypeNotFound for unknown ids.
func (r *RoomTypeRepo) GetPricingInfo(ctx context.Context, id uint64) (RoomTypePricing, error) {
    var p RoomTypePricing
    err := r.db.QueryRowContext(ctx,
        `SELECT price_cents, max_occupancy FROM room_types WHERE id = ?`, id).
        Scan(&p.PriceCents, &p.MaxOccupancy)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return RoomTypePricing{}, ErrRoomTypeNotFound
        }
        return RoomTypePricing{}, err
    }
    return p, nil
}

// List returns all room types ordered by name.
func (r *RoomTypeRepo) List(ctx context.Context) ([]model.RoomType, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, name, price_cents, max_occupancy, description FROM room_types ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.RoomType, 0)
    for rows.Next() {
        var rt model.RoomType
        var desc sql.NullString
        if err := rows.Scan(&rt.ID, &rt.Name, &rt.PriceCents, &rt.MaxOccupancy, &desc); err != nil {
            return nil, err
        }
        if desc.Valid {
            d := desc.String
            rt.Description = &d
        }
        out = append(out, rt)
    }
    return out, rows.Err()
}

// Update rewrites a room type's attributes.
func (r *RoomTypeRepo) Update(ctx context.Context, id uint64, name string, priceCents uint32, maxOccupancy uint8, description *string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE room_types SET name = ?, price_cents = ?, max_occupancy = ?, description = ? WHERE id = ?`,
        name, priceCents, maxOccupancy, description, id)
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

// Delete removes a room type.  The foreign keys from rooms and line
// items are restrictive, so deleting a type that is still referenced
// surfaces as ErrConflict.
func (r *RoomTypeRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM room_types WHERE id = ?`, id)
    if err != nil {
        return ErrConflict
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrRoomTypeNotFound
    }
    return nil
}
