package service

import (
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-room-reservation/internal/repository"
)

func date(y int, m time.Month, d int) time.Time {
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStayNights(t *testing.T) {
    n, err := stayNights(date(2026, 5, 1), date(2026, 5, 2))
    require.NoError(t, err)
    assert.Equal(t, 1, n)

    n, err = stayNights(date(2026, 5, 1), date(2026, 5, 8))
    require.NoError(t, err)
    assert.Equal(t, 7, n)

    // Time of day is irrelevant: a late check-in is still the same date.
    n, err = stayNights(
        time.Date(2026, 5, 1, 23, 30, 0, 0, time.UTC),
        time.Date(2026, 5, 3, 1, 0, 0, 0, time.UTC),
    )
    require.NoError(t, err)
    assert.Equal(t, 2, n)
}

func TestStayNights_InvalidRange(t *testing.T) {
    _, err := stayNights(date(2026, 5, 1), date(2026, 5, 1))
    assert.ErrorIs(t, err, ErrInvalidStayRange)

    _, err = stayNights(date(2026, 5, 3), date(2026, 5, 1))
    assert.ErrorIs(t, err, ErrInvalidStayRange)
}

func TestValidateLineItems(t *testing.T) {
    assert.ErrorIs(t, validateLineItems(nil), repository.ErrEmptyRoomTypeList)

    assert.ErrorIs(t, validateLineItems([]LineItemInput{
        {RoomTypeID: 1, ReservedRoomCount: 0},
    }), ErrInvalidRoomCount)

    assert.ErrorIs(t, validateLineItems([]LineItemInput{
        {RoomTypeID: 1, ReservedRoomCount: 1},
        {RoomTypeID: 1, ReservedRoomCount: 2},
    }), ErrDuplicateRoomType)

    assert.NoError(t, validateLineItems([]LineItemInput{
        {RoomTypeID: 1, ReservedRoomCount: 1},
        {RoomTypeID: 2, ReservedRoomCount: 3},
    }))
}

func TestValidateOccupancy(t *testing.T) {
    pricing := map[uint64]repository.RoomTypePricing{
        1: {PriceCents: 10000, MaxOccupancy: 2},
        2: {PriceCents: 25000, MaxOccupancy: 4},
    }
    items := []LineItemInput{
        {RoomTypeID: 1, ReservedRoomCount: 2}, // sleeps 4
        {RoomTypeID: 2, ReservedRoomCount: 1}, // sleeps 4
    }

    // Exactly at capacity is allowed.
    assert.NoError(t, validateOccupancy(8, items, pricing))

    err := validateOccupancy(9, items, pricing)
    var capErr *CapacityError
    require.ErrorAs(t, err, &capErr)
    assert.Equal(t, 8, capErr.Capacity)
    assert.Equal(t, 9, capErr.Requested)
}

func TestTotalPriceCents(t *testing.T) {
    pricing := map[uint64]repository.RoomTypePricing{
        1: {PriceCents: 10000, MaxOccupancy: 2},
        2: {PriceCents: 25000, MaxOccupancy: 4},
    }
    items := []LineItemInput{
        {RoomTypeID: 1, ReservedRoomCount: 2},
        {RoomTypeID: 2, ReservedRoomCount: 1},
    }
    // (10000*2 + 25000*1) * 3 nights
    assert.Equal(t, uint64(135000), totalPriceCents(items, pricing, 3))
    assert.Equal(t, uint64(45000), totalPriceCents(items, pricing, 1))
}

func TestCheckShortfall(t *testing.T) {
    assert.NoError(t, checkShortfall(1, 3, 3, nil))

    err := checkShortfall(1, 2, 3, nil)
    var availErr *AvailabilityError
    require.ErrorAs(t, err, &availErr)
    assert.Equal(t, uint64(1), availErr.RoomTypeID)
    assert.Equal(t, int64(2), availErr.Available)

    // A negative ledger is corruption, never a booking conflict.
    err = checkShortfall(1, -1, 1, nil)
    assert.ErrorIs(t, err, ErrInventoryCorrupt)
    var conflict *AvailabilityError
    assert.False(t, errors.As(err, &conflict))

    boom := errors.New("boom")
    assert.ErrorIs(t, checkShortfall(1, 0, 1, boom), boom)
}
