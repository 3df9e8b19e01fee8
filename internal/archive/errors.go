package archive

import "errors"

var (
	// ErrNotFound is returned when a report id is not archived.
	ErrNotFound = errors.New("report not found")

	// ErrDuplicateKey is returned when a report id is saved twice.
	ErrDuplicateKey = errors.New("duplicate key: report already archived")
)
