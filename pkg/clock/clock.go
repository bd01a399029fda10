package clock

import "time"

// Clock supplies the current time. The donation lifecycle depends on "now"
// for expiry validation and claim timestamps, so it is injected rather than
// read from the global clock.
type Clock interface {
	Now() time.Time
}

// System is the wall-clock implementation used in production.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant. Used in tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
