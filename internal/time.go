package internal

import "time"

// CurrentTimestamp returns the current time rounded to the millisecond and in
// UTC, so that it survives serialization without losing precision.
func CurrentTimestamp() time.Time {
	return time.Now().Round(time.Millisecond).UTC()
}
