package generator

import "errors"

var (
	// ErrNoStaffAvailable means the store has no staff to assign; the store is skipped.
	ErrNoStaffAvailable = errors.New("no staff available")
	// ErrEmptyCatalog means no products exist for the store's type; the store is skipped.
	ErrEmptyCatalog = errors.New("empty product catalog")
	// ErrUnknownStoreType means the store could not be classified; the store is skipped.
	ErrUnknownStoreType = errors.New("unknown store type")
)

// IsSkip reports whether err skips a single store rather than aborting the run.
func IsSkip(err error) bool {
	return errors.Is(err, ErrNoStaffAvailable) ||
		errors.Is(err, ErrEmptyCatalog) ||
		errors.Is(err, ErrUnknownStoreType)
}
