// Package repository holds the data-access layer and the sentinel error
// taxonomy shared across it. Higher layers match these values with
// errors.Is to turn storage failures into user-facing rejections.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateEmail is returned when an account insert would violate
	// the unique email constraint.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateSerialNumber is returned when a generator insert would
	// violate the unique serial number constraint.
	ErrDuplicateSerialNumber = errors.New("serial number already registered")

	// ErrDuplicatePartNumber is returned when a part insert would violate
	// the unique part number constraint.
	ErrDuplicatePartNumber = errors.New("part number already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. The message is deliberately identical for the two cases so
	// callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound is returned when a lookup matches no row. Update and
	// delete paths report zero affected rows instead.
	ErrNotFound = errors.New("not found")

	// ErrUnknownResource is returned by the dispatcher for a resource name
	// it has no mapping for. A programmer error in the presentation layer,
	// never a silent no-op.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrUnknownOperation is returned by the dispatcher for a verb the
	// named resource does not support.
	ErrUnknownOperation = errors.New("unknown operation")
)

// isDuplicate reports whether err is a unique-constraint violation. GORM's
// error translation covers most drivers; the string check catches sqlite
// messages that slip through untranslated.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}
