package ledger

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds returned by the service. Callers match them with errors.Is and
// the HTTP layer maps each one to a status code.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage failure")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// lookupErr turns a gorm lookup failure into ErrNotFound or ErrStorage.
func lookupErr(what string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundf("%s %d", what, id)
	}
	return storageErr("load "+what, err)
}

// isDomain reports whether err already carries one of the error kinds.
func isDomain(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrStorage)
}

// atomicErr classifies the error returned by a gorm transaction. Anything not
// raised by the service itself (BEGIN or COMMIT failing) is a storage error.
func atomicErr(op string, err error) error {
	if err == nil || isDomain(err) {
		return err
	}
	return storageErr(op, err)
}
