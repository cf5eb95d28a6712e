package booking

import "time"

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Half-open semantics: a booking ending exactly when another starts
// does not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
