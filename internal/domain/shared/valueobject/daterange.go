package valueobject

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
)

// ErrInvalidDateRange indicates the range start falls after its end
var ErrInvalidDateRange = shared.NewDomainError("INVALID_DATE_RANGE", "Range start date must not be after end date")

// DateRange is a value object representing an inclusive [start, end] date interval
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange creates a new DateRange. Returns error if start is after end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.After(end) {
		return DateRange{}, fmt.Errorf("%w: %s > %s",
			ErrInvalidDateRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return DateRange{start: start, end: end}, nil
}

// MustNewDateRange creates a DateRange, panicking on invalid input.
// Use only when the bounds are guaranteed valid (e.g., from database).
func MustNewDateRange(start, end time.Time) DateRange {
	r, err := NewDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// Start returns the inclusive start of the range
func (r DateRange) Start() time.Time {
	return r.start
}

// End returns the inclusive end of the range
func (r DateRange) End() time.Time {
	return r.end
}

// Contains returns true if the date falls within the range, bounds included
func (r DateRange) Contains(date time.Time) bool {
	return !date.Before(r.start) && !date.After(r.end)
}

// Overlaps returns true if the two ranges intersect under inclusive bounds:
// either range's endpoint falling inside the other, or one range containing
// the other entirely.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.start.After(other.end) && !other.start.After(r.end)
}

// Equals returns true if both ranges have identical bounds
func (r DateRange) Equals(other DateRange) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}

// String returns a readable representation of the range
func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.start.Format(time.DateOnly), r.end.Format(time.DateOnly))
}
