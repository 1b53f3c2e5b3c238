package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Store lookups that match nothing.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a manual add is missing range, code or name.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidQuantity is returned for manual quantities outside 1..99.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrWrongStatus is returned when an entry is not in the bucket an
	// operation expects (e.g. marking an owned entry as bought).
	ErrWrongStatus = errors.New("inventory entry has wrong status")

	// ErrFileTooLarge is returned when an import body exceeds the limit.
	ErrFileTooLarge = errors.New("file too large")
)

// MissingColumnError aborts an import whose header lacks a required column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Column)
}

// IsMissingColumn reports whether err is a schema error and returns the column.
func IsMissingColumn(err error) (string, bool) {
	var mc *MissingColumnError
	if errors.As(err, &mc) {
		return mc.Column, true
	}
	return "", false
}
