package rangetree

import "github.com/cockroachdb/errors"

// ErrInvalidRange is returned when a range is added whose From compares
// greater than its To.
var ErrInvalidRange = errors.New("rangetree: invalid range")

func invalidRangef[T comparable](r RangeValuePair[T]) error {
	return errors.Mark(
		errors.Newf("rangetree: invalid range %s: from must not be greater than to", r.String()),
		ErrInvalidRange,
	)
}
