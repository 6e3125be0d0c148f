package repository

import (
    "context"
    "database/sql"
    "errors"
)

// ClientRepo provides CRUD operations for the 'clients' table.
// Every CLIENT user account owns exactly one client profile; the
// booking flow resolves the authenticated user to a client through
// GetByUserID.  All reads map sql.ErrNoRows to ErrClientNotFound so
// callers never see the database sentinel.
type ClientRepo struct {
    db *sql.DB
}

// NewClientRepo returns a new ClientRepo bound to the given database.
func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

// ClientRecord mirrors the schema of the clients table.
type ClientRecord struct {
    ID               uint64
    UserID           uint64
    RegistrationDate string
    Gender           *string
    Country          *string
    IsVIP            bool
}

const clientCols = `id, user_id, DATE_FORMAT(registration_date, '%Y-%m-%d'), gender, country, is_vip`

func scanClient(row *sql.Row) (*ClientRecord, error) {
    var c ClientRecord
    var gender, country sql.NullString
    err := row.Scan(&c.ID, &c.UserID, &c.RegistrationDate, &gender, &country, &c.IsVIP)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrClientNotFound
        }
        return nil, err
    }
    if gender.Valid {
        g := gender.String
        c.Gender = &g
    }
    if country.Valid {
        co := country.String
        c.Country = &co
    }
    return &c, nil
}

// Create inserts a client profile for a user and returns the new id.
func (r *ClientRepo) Create(ctx context.Context, userID uint64, gender, country *string, isVIP bool) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO clients (user_id, registration_date, gender, country, is_vip) VALUES (?, CURDATE(), ?, ?, ?)`,
        userID, gender, country, isVIP)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID fetches a client profile by its primary key.
func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (*ClientRecord, error) {
    row := r.db.QueryRowContext(ctx, `SELECT `+clientCols+` FROM clients WHERE id = ?`, id)
    return scanClient(row)
}

// GetByUserID resolves a user account to its client profile.  This is
// the identity step of the booking flow: a user with no client row
// cannot create or own reservations.
func (r *ClientRepo) GetByUserID(ctx context.Context, userID uint64) (*ClientRecord, error) {
    row := r.db.QueryRowContext(ctx, `SELECT `+clientCols+` FROM clients WHERE user_id = ?`, userID)
    return scanClient(row)
}

// List returns all client profiles ordered by id.
func (r *ClientRepo) List(ctx context.Context) ([]ClientRecord, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT `+clientCols+` FROM clients ORDER BY id`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]ClientRecord, 0)
    for rows.Next() {
        var c ClientRecord
        var gender, country sql.NullString
        if err := rows.Scan(&c.ID, &c.UserID, &c.RegistrationDate, &gender, &country, &c.IsVIP); err != nil {
            return nil, err
        }
        if gender.Valid {
            g := gender.String
            c.Gender = &g
        }
        if country.Valid {
            co := country.String
            c.Country = &co
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// Update rewrites the mutable profile fields of a client.
func (r *ClientRepo) Update(ctx context.Context, id uint64, gender, country *string, isVIP bool) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE clients SET gender = ?, country = ?, is_vip = ? WHERE id = ?`,
        gender, country, isVIP, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        // RowsAffected is 0 both for missing rows and no-op updates;
        // confirm existence before reporting not found.
        if _, getErr := r.GetByID(ctx, id); getErr != nil {
            return getErr
        }
    }
    return nil
}

// Delete removes a client profile.  Deleting a client with existing
// reservations fails at the database layer and is surfaced as ErrConflict.
func (r *ClientRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
    if err != nil {
        return ErrConflict
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrClientNotFound
    }
    return nil
}
