package analysis

import (
	"strconv"
	"strings"
)

// ToMinutes converts a wall-clock "HH:MM" value into minutes since midnight.
// Well-formed input is the caller's contract; the function only computes.
func ToMinutes(clock string) int {
	h, m, _ := strings.Cut(clock, ":")
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	return hours*60 + minutes
}

// Overlaps reports whether two half-open minute intervals on the same day
// intersect. Intervals that merely touch at an endpoint do not overlap; this
// is the single comparison policy used by every detector.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Gap returns the idle minutes between the end of one interval and the start
// of the next. Negative when the intervals actually overlap.
func Gap(firstEnd, secondStart int) int {
	return secondStart - firstEnd
}
