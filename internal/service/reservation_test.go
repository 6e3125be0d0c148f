package service

import (
    "context"
    "database/sql"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-room-reservation/internal/repository"
)

func setupService(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *ReservationService) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)

    svc := NewReservationService(db,
        repository.NewReservationRepo(db),
        repository.NewRoomTypeRepo(db),
        repository.NewClientRepo(db))
    return db, mock, svc
}

var clientColumns = []string{"id", "user_id", "registration_date", "gender", "country", "is_vip"}

func expectClientByID(mock sqlmock.Sqlmock, id uint64) {
    mock.ExpectQuery(`FROM clients WHERE id`).
        WithArgs(id).
        WillReturnRows(sqlmock.NewRows(clientColumns).AddRow(id, 9, "2026-01-15", nil, nil, false))
}

func expectPricing(mock sqlmock.Sqlmock, roomTypeID uint64, priceCents uint32, maxOccupancy uint8) {
    mock.ExpectQuery(`SELECT price_cents, max_occupancy FROM room_types`).
        WithArgs(roomTypeID).
        WillReturnRows(sqlmock.NewRows([]string{"price_cents", "max_occupancy"}).
            AddRow(priceCents, maxOccupancy))
}

func expectAvailability(mock sqlmock.Sqlmock, roomTypeID uint64, checkOut, checkIn string, exclude uint64, available int64) {
    mock.ExpectQuery(`FROM rooms WHERE room_type_id`).
        WithArgs(roomTypeID, roomTypeID, checkOut, checkIn, exclude).
        WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(available))
}

func TestCreate_BooksReservation(t *testing.T) {
    db, mock, svc := setupService(t)
    defer db.Close()

    in := BookingInput{
        CheckIn:    date(2026, 5, 1),
        CheckOut:   date(2026, 5, 3), // 2 nights
        GuestCount: 2,
        RoomTypes:  []LineItemInput{{RoomTypeID: 2, ReservedRoomCount: 1}},
    }

    expectClientByID(mock, 5)
    expectPricing(mock, 2, 10000, 2)
    // Advisory check outside the transaction.
    expectAvailability(mock, 2, "2026-05-03", "2026-05-01", 0, 4)

    mock.ExpectBegin()
    // Authoritative re-check inside the transaction.
    expectAvailability(mock, 2, "2026-05-03", "2026-05-01", 0, 4)
    mock.ExpectExec(`INSERT INTO reservations`).
        WithArgs(uint64(5), "2026-05-01", "2026-05-03", "CONFIRMED", uint64(20000), uint8(2), nil).
        WillReturnResult(sqlmock.NewResult(11, 1))
    mock.ExpectQuery(`SELECT created_at, updated_at FROM reservations`).
        WithArgs(uint64(11)).
        WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
            AddRow(time.Now().UTC(), time.Now().UTC()))
    mock.ExpectExec(`INSERT INTO reservation_room_types`).
        WithArgs(uint64(11), uint64(2), uint32(1)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    res, err := svc.Create(context.Background(), 5, "CONFIRMED", in)
    require.NoError(t, err)
    assert.Equal(t, uint64(11), res.ID)
    assert.Equal(t, uint64(5), res.ClientID)
    assert.Equal(t, uint64(20000), res.TotalPriceCents) // 10000 * 1 room * 2 nights
    require.Len(t, res.RoomTypes, 1)
    assert.Equal(t, uint64(2), res.RoomTypes[0].RoomTypeID)

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ShortfallInsideTxRollsBack(t *testing.T) {
    db, mock, svc := setupService(t)
    defer db.Close()

    in := BookingInput{
        CheckIn:    date(2026, 5, 1),
        CheckOut:   date(2026, 5, 3),
        GuestCount: 2,
        RoomTypes:  []LineItemInput{{RoomTypeID: 2, ReservedRoomCount: 2}},
    }

    expectClientByID(mock, 5)
    expectPricing(mock, 2, 10000, 2)
    // The advisory check passes, then a concurrent booking takes the
    // rooms: the transactional check sees only 1 left.
    expectAvailability(mock, 2, "2026-05-03", "2026-05-01", 0, 3)
    mock.ExpectBegin()
    expectAvailability(mock, 2, "2026-05-03", "2026-05-01", 0, 1)
    mock.ExpectRollback()

    _, err := svc.Create(context.Background(), 5, "CONFIRMED", in)
    var availErr *AvailabilityError
    require.ErrorAs(t, err, &availErr)
    assert.Equal(t, uint64(2), availErr.RoomTypeID)
    assert.Equal(t, int64(1), availErr.Available)

    // Nothing was inserted and the transaction rolled back.
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_CapacityCheckedBeforeTransaction(t *testing.T) {
    db, mock, svc := setupService(t)
    defer db.Close()

    in := BookingInput{
        CheckIn:    date(2026, 5, 1),
        CheckOut:   date(2026, 5, 2),
        GuestCount: 5,
        RoomTypes:  []LineItemInput{{RoomTypeID: 2, ReservedRoomCount: 1}},
    }

    expectClientByID(mock, 5)
    expectPricing(mock, 2, 10000, 2)
    // No availability query, no transaction: the request dies on occupancy.

    _, err := svc.Create(context.Background(), 5, "CONFIRMED", in)
    var capErr *CapacityError
    require.ErrorAs(t, err, &capErr)
    assert.Equal(t, 2, capErr.Capacity)
    assert.Equal(t, 5, capErr.Requested)

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_EmptyLineItems(t *testing.T) {
    db, mock, svc := setupService(t)
    defer db.Close()

    expectClientByID(mock, 5)

    _, err := svc.Create(context.Background(), 5, "CONFIRMED", BookingInput{
        CheckIn:  date(2026, 5, 1),
        CheckOut: date(2026, 5, 2),
    })
    assert.ErrorIs(t, err, repository.ErrEmptyRoomTypeList)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InvalidStayRange(t *testing.T) {
    db, mock, svc := setupService(t)
    defer db.Close()

    expectClientByID(mock, 5)

    _, err := svc.Create(context.Background(), 5, "CONFIRMED", BookingInput{
        CheckIn:   date(2026, 5, 3),
        CheckOut:  date(2026, 5, 3),
        RoomTypes: []LineItemInput{{RoomTypeID: 2, ReservedRoomCount: 1}},
    })
    assert.ErrorIs(t, err, ErrInvalidStayRange)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NegativeLedgerIsCorruption(t *testing.T) {
    db, mock, svc := setupService(t)
    defer db.Close()

    in := BookingInput{
        CheckIn:    date(2026, 5, 1),
        CheckOut:   date(2026, 5, 2),
        GuestCount: 1,
        RoomTypes:  []LineItemInput{{RoomTypeID: 2, ReservedRoomCount: 1}},
    }

    expectClientByID(mock, 5)
    expectPricing(mock, 2, 10000, 2)
    expectAvailability(mock, 2, "2026-05-02", "2026-05-01", 0, -1)

    _, err := svc.Create(context.Background(), 5, "CONFIRMED", in)
    assert.ErrorIs(t, err, ErrInventoryCorrupt)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InsertFailureRollsBack(t *testing.T) {
    db, mock, svc := setupService(t)
    defer db.Close()

    in := BookingInput{
        CheckIn:    date(2026, 5, 1),
        CheckOut:   date(2026, 5, 2),
        GuestCount: 1,
        RoomTypes:  []LineItemInput{{RoomTypeID: 2, ReservedRoomCount: 1}},
    }

    expectClientByID(mock, 5)
    expectPricing(mock, 2, 10000, 2)
    expectAvailability(mock, 2, "2026-05-02", "2026-05-01", 0, 4)
    mock.ExpectBegin()
    expectAvailability(mock, 2, "2026-05-02", "2026-05-01", 0, 4)
    mock.ExpectExec(`INSERT INTO reservations`).
        WithArgs(uint64(5), "2026-05-01", "2026-05-02", "CONFIRMED", uint64(10000), uint8(1), nil).
        WillReturnError(errors.New("duplicate entry"))
    mock.ExpectRollback()

    _, err := svc.Create(context.Background(), 5, "CONFIRMED", in)
    require.Error(t, err)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_ExcludesOwnLineItems(t *testing.T) {
    db, mock, svc := setupService(t)
    defer db.Close()

    now := time.Now().UTC()
    headerColumns := []string{"id", "client_id", "check_in", "check_out", "status",
        "total_price_cents", "guest_count", "description", "created_at", "updated_at"}
    mock.ExpectQuery(`FROM reservations WHERE id`).
        WithArgs(uint64(11)).
        WillReturnRows(sqlmock.NewRows(headerColumns).
            AddRow(11, 5, date(2026, 5, 1), date(2026, 5, 3), "CONFIRMED", 20000, 2, nil, now, now))
    expectClientByID(mock, 5)
    expectPricing(mock, 2, 10000, 2)

    mock.ExpectBegin()
    // The reservation's own line items are excluded from the overlap
    // sum, so revalidating unchanged dates cannot fail on itself.
    expectAvailability(mock, 2, "2026-05-04", "2026-05-01", 11, 4)
    mock.ExpectExec(`UPDATE reservations`).
        WithArgs(uint64(5), "2026-05-01", "2026-05-04", "CONFIRMED", uint64(30000), uint8(2), nil, uint64(11)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    // Line-item replace is delete-then-insert, not a diff.
    mock.ExpectExec(`DELETE FROM reservation_room_types`).
        WithArgs(uint64(11)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`INSERT INTO reservation_room_types`).
        WithArgs(uint64(11), uint64(2), uint32(1)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    res, err := svc.Update(context.Background(), 11, 5, "CONFIRMED", BookingInput{
        CheckIn:    date(2026, 5, 1),
        CheckOut:   date(2026, 5, 4), // extended by one night
        GuestCount: 2,
        RoomTypes:  []LineItemInput{{RoomTypeID: 2, ReservedRoomCount: 1}},
    })
    require.NoError(t, err)
    assert.Equal(t, uint64(30000), res.TotalPriceCents)

    assert.NoError(t, mock.ExpectationsWereMet())
}
