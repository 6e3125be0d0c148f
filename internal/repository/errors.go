// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and services to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current user
// is not authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation cannot
// proceed due to existing dependent records (e.g. deleting a room type
// that still has rooms).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a room type that still has rooms or reservations. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrClientNotFound is returned when no client profile exists for the
// requested id or user id. For booking flows this is terminal: a user
// without a client profile cannot own reservations.
var ErrClientNotFound = errors.New("client not found")

// ErrReservationNotFound is returned when a reservation id does not
// exist, or does not belong to the client scoping the lookup.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrRoomTypeNotFound is returned when a room type referenced by id
// does not exist.
var ErrRoomTypeNotFound = errors.New("room type not found")

// ErrRoomNotFound is returned when a room referenced by id does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrEmptyRoomTypeList is returned by the line-item write paths when a
// reservation is created or replaced with no room-type selection. The
// line-item set is mandatory; the guard runs before any row is touched
// so a bad replace mutates nothing.
var ErrEmptyRoomTypeList = errors.New("room type list must not be empty")
