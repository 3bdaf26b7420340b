package timeframe

import (
	"errors"
	"time"
)

// Unit is the epoch unit a raw timestamp column was recorded in. Archives
// differ per market segment (spot uses microseconds, futures milliseconds),
// so everything is normalized to microseconds at the ingestion boundary.
type Unit int

const (
	Seconds Unit = iota
	Milliseconds
	Microseconds
	Nanoseconds
)

func (u Unit) String() string {
	switch u {
	case Seconds:
		return "s"
	case Milliseconds:
		return "ms"
	case Microseconds:
		return "us"
	case Nanoseconds:
		return "ns"
	}
	return "unknown"
}

// ToMicros converts a raw timestamp in this unit to microseconds.
func (u Unit) ToMicros(ts int64) int64 {
	switch u {
	case Seconds:
		return ts * 1_000_000
	case Milliseconds:
		return ts * 1_000
	case Nanoseconds:
		return ts / 1_000
	default:
		return ts
	}
}

// ErrUnknownUnit is returned when a timestamp value fits no plausible unit.
var ErrUnknownUnit = errors.New("cannot infer timestamp unit")

var (
	inferMin = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	inferMax = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

// InferUnit guesses the unit of a raw timestamp by checking which
// interpretation lands in a plausible date range (1990..2100), smallest unit
// first.
func InferUnit(ts int64) (Unit, error) {
	if ts <= 0 {
		return 0, ErrUnknownUnit
	}

	candidates := []struct {
		unit Unit
		div  int64
	}{
		{Seconds, 1},
		{Milliseconds, 1_000},
		{Microseconds, 1_000_000},
		{Nanoseconds, 1_000_000_000},
	}
	for _, c := range candidates {
		t := time.Unix(ts/c.div, 0).UTC()
		if t.After(inferMin) && t.Before(inferMax) {
			return c.unit, nil
		}
	}
	return 0, ErrUnknownUnit
}
