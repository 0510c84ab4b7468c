// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting raw driver error text. For example, ErrSlotTaken signals
// that the slot uniqueness guarantee rejected a reservation, while the
// reference errors identify which foreign key an insert tripped over.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrSlotTaken is returned when a reservation cannot be admitted
// because a non-cancelled reservation already occupies the same
// (product, day) slot. Both the transactional pre-check and the
// unique index on the reservations table surface this value, so
// handlers map exactly one way to HTTP 409.
var ErrSlotTaken = errors.New("slot already reserved")

// ErrStatusChanged is returned when a guarded status update finds the
// reservation no longer in the status the caller saw. The caller
// should re-read and re-validate the transition.
var ErrStatusChanged = errors.New("reservation status changed concurrently")

// Not-found sentinels, one per entity so handlers can produce
// entity-specific 404 messages.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrHotelNotFound       = errors.New("hotel not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrReservationNotFound = errors.New("reservation not found")
)

// ErrEmailExists is returned when inserting a user whose email is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// Reference errors produced by mapping MySQL foreign-key failures
// (error 1452) to the entity the failing constraint points at.  Raw
// driver messages never reach the client.
var (
	ErrUnknownUserRef    = errors.New("unknown user reference")
	ErrUnknownProductRef = errors.New("unknown product reference")
	ErrUnknownHotelRef   = errors.New("unknown hotel reference")
	ErrUnknownRef        = errors.New("invalid reference")
)

// ErrProductInUse is returned when deleting a product that still has
// reservation rows pointing at it (MySQL 1451, FK RESTRICT).
var ErrProductInUse = errors.New("product has reservations")

// isDuplicateKey reports whether err is a MySQL duplicate-key error
// (1062), which the unique indexes turn into domain conflicts.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// mapForeignKeyErr translates a MySQL referential failure (1452) into
// one of the reference sentinels by looking at the constraint name in
// the driver message. Any other error is returned unchanged.
func mapForeignKeyErr(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1452") {
		return err
	}
	switch {
	case strings.Contains(msg, "user"):
		return ErrUnknownUserRef
	case strings.Contains(msg, "product"):
		return ErrUnknownProductRef
	case strings.Contains(msg, "hotel"):
		return ErrUnknownHotelRef
	}
	return ErrUnknownRef
}
