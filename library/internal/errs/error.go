package errs

import (
	"github.com/pkg/errors"
)

// Categories. Every error returned by the service wraps exactly one of them.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("unavailable")
)

var (
	ErrStudentNotFound   = errors.Wrap(ErrNotFound, "student")
	ErrUserNotFound      = errors.Wrap(ErrNotFound, "user")
	ErrBookNotFound      = errors.Wrap(ErrNotFound, "book")
	ErrLedgerNotFound    = errors.Wrap(ErrNotFound, "issue record")
	ErrEntryNotFound     = errors.Wrap(ErrNotFound, "issued book entry")
	ErrAlreadyReturned   = errors.Wrap(ErrConflict, "issuance already returned")
	ErrDuplicate         = errors.Wrap(ErrConflict, "duplicate key")
	ErrNothingEligible   = errors.Wrap(ErrUnavailable, "books are already issued or not eligible")
	ErrImmutableRole     = errors.Wrap(ErrValidation, "role cannot be changed")
	ErrInvalidDateFormat = errors.Wrap(ErrValidation, "date must be YYYY-MM-DD")
	ErrWrongPassword     = errors.Wrap(ErrValidation, "current password is incorrect")
	ErrSamePassword      = errors.Wrap(ErrValidation, "new password must differ from the current one")
	ErrWeakPassword      = errors.Wrap(ErrValidation, "password must be at least 6 characters")
)

func Validation(msg string) error {
	return errors.Wrap(ErrValidation, msg)
}

func NotFound(msg string) error {
	return errors.Wrap(ErrNotFound, msg)
}

func Conflict(msg string) error {
	return errors.Wrap(ErrConflict, msg)
}
