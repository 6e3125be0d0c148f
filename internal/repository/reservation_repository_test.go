package repository

import (
    "context"
    "database/sql"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *ReservationRepo) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    return db, mock, NewReservationRepo(db)
}

func day(y int, m time.Month, d int) time.Time {
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAvailableRooms_QueryShape(t *testing.T) {
    db, mock, repo := setupMockDB(t)
    defer db.Close()

    // Half-open overlap: the query takes check-out before check-in and
    // excludes nothing on the plain read path.
    mock.ExpectQuery(`FROM rooms WHERE room_type_id`).
        WithArgs(uint64(7), uint64(7), "2026-06-05", "2026-06-01", uint64(0)).
        WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(3))

    n, err := repo.AvailableRooms(context.Background(), 7, day(2026, 6, 1), day(2026, 6, 5))
    require.NoError(t, err)
    assert.Equal(t, int64(3), n)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailableRoomsTx_ExcludesReservation(t *testing.T) {
    db, mock, repo := setupMockDB(t)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery(`FROM rooms WHERE room_type_id`).
        WithArgs(uint64(7), uint64(7), "2026-06-05", "2026-06-01", uint64(42)).
        WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(5))
    mock.ExpectRollback()

    tx, err := db.Begin()
    require.NoError(t, err)

    n, err := repo.AvailableRoomsTx(context.Background(), tx, 7, day(2026, 6, 1), day(2026, 6, 5), 42)
    require.NoError(t, err)
    assert.Equal(t, int64(5), n)

    require.NoError(t, tx.Rollback())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailableRooms_FullyBooked(t *testing.T) {
    db, mock, repo := setupMockDB(t)
    defer db.Close()

    // Every room of the type is held by overlapping reservations.
    mock.ExpectQuery(`FROM rooms WHERE room_type_id`).
        WithArgs(uint64(7), uint64(7), "2026-06-02", "2026-06-01", uint64(0)).
        WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(0))

    n, err := repo.AvailableRooms(context.Background(), 7, day(2026, 6, 1), day(2026, 6, 2))
    require.NoError(t, err)
    assert.Equal(t, int64(0), n)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTx_PopulatesIDAndTimestamps(t *testing.T) {
    db, mock, repo := setupMockDB(t)
    defer db.Close()

    now := time.Now().UTC()
    mock.ExpectBegin()
    mock.ExpectExec(`INSERT INTO reservations`).
        WithArgs(uint64(5), "2026-06-01", "2026-06-03", "Created", uint64(20000), uint8(2), nil).
        WillReturnResult(sqlmock.NewResult(11, 1))
    mock.ExpectQuery(`SELECT created_at, updated_at FROM reservations`).
        WithArgs(uint64(11)).
        WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
    mock.ExpectCommit()

    tx, err := db.Begin()
    require.NoError(t, err)

    rec := &ReservationRecord{
        ClientID:        5,
        CheckIn:         day(2026, 6, 1),
        CheckOut:        day(2026, 6, 3),
        Status:          "Created",
        TotalPriceCents: 20000,
        GuestCount:      2,
    }
    require.NoError(t, repo.CreateTx(context.Background(), tx, rec))
    assert.Equal(t, uint64(11), rec.ID)
    assert.Equal(t, now, rec.CreatedAt)

    require.NoError(t, tx.Commit())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceLineItemsTx_DeleteThenInsert(t *testing.T) {
    db, mock, repo := setupMockDB(t)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec(`DELETE FROM reservation_room_types`).
        WithArgs(uint64(11)).
        WillReturnResult(sqlmock.NewResult(0, 2))
    // Both line items land in one multi-row insert.
    mock.ExpectExec(`INSERT INTO reservation_room_types`).
        WithArgs(uint64(11), uint64(2), uint32(1), uint64(11), uint64(3), uint32(2)).
        WillReturnResult(sqlmock.NewResult(0, 2))
    mock.ExpectCommit()

    tx, err := db.Begin()
    require.NoError(t, err)

    err = repo.ReplaceLineItemsTx(context.Background(), tx, 11, []LineItemRecord{
        {ReservationID: 11, RoomTypeID: 2, ReservedRoomCount: 1},
        {ReservationID: 11, RoomTypeID: 3, ReservedRoomCount: 2},
    })
    require.NoError(t, err)

    require.NoError(t, tx.Commit())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceLineItemsTx_EmptySetMutatesNothing(t *testing.T) {
    db, mock, repo := setupMockDB(t)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectRollback()

    tx, err := db.Begin()
    require.NoError(t, err)

    // The guard fires before the delete, so no statement runs.
    err = repo.ReplaceLineItemsTx(context.Background(), tx, 11, nil)
    assert.ErrorIs(t, err, ErrEmptyRoomTypeList)

    require.NoError(t, tx.Rollback())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTx_MissingReservation(t *testing.T) {
    db, mock, repo := setupMockDB(t)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec(`DELETE FROM reservation_room_types`).
        WithArgs(uint64(99)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectExec(`DELETE FROM reservations`).
        WithArgs(uint64(99)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    tx, err := db.Begin()
    require.NoError(t, err)

    err = repo.DeleteTx(context.Background(), tx, 99)
    assert.ErrorIs(t, err, ErrReservationNotFound)

    require.NoError(t, tx.Rollback())
    assert.NoError(t, mock.ExpectationsWereMet())
}
