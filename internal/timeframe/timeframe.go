// Package timeframe provides candle interval arithmetic and timestamp unit
// handling shared by the archive importer and the query API.
package timeframe

import (
	"fmt"
	"time"
)

// Timeframe is a candle interval in exchange notation.
type Timeframe string

const (
	M1  Timeframe = "1m"
	M3  Timeframe = "3m"
	M5  Timeframe = "5m"
	M15 Timeframe = "15m"
	M30 Timeframe = "30m"
	H1  Timeframe = "1h"
	H2  Timeframe = "2h"
	H4  Timeframe = "4h"
	H6  Timeframe = "6h"
	H8  Timeframe = "8h"
	H12 Timeframe = "12h"
	D1  Timeframe = "1d"
	D3  Timeframe = "3d"
	W1  Timeframe = "1w"
	Mo1 Timeframe = "1M" // calendar month, approximated as 30 days
)

var timeframeMillis = map[Timeframe]int64{
	M1:  60_000,
	M3:  3 * 60_000,
	M5:  5 * 60_000,
	M15: 15 * 60_000,
	M30: 30 * 60_000,
	H1:  60 * 60_000,
	H2:  2 * 60 * 60_000,
	H4:  4 * 60 * 60_000,
	H6:  6 * 60 * 60_000,
	H8:  8 * 60 * 60_000,
	H12: 12 * 60 * 60_000,
	D1:  24 * 60 * 60_000,
	D3:  3 * 24 * 60 * 60_000,
	W1:  7 * 24 * 60 * 60_000,
	Mo1: 30 * 24 * 60 * 60_000,
}

// Parse validates a timeframe string.
func Parse(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if _, ok := timeframeMillis[tf]; !ok {
		return "", fmt.Errorf("unknown timeframe %q", s)
	}
	return tf, nil
}

// Millis returns the timeframe length in milliseconds.
func (tf Timeframe) Millis() (int64, error) {
	ms, ok := timeframeMillis[tf]
	if !ok {
		return 0, fmt.Errorf("unknown timeframe %q", string(tf))
	}
	return ms, nil
}

// Seconds returns the timeframe length in seconds.
func (tf Timeframe) Seconds() (int64, error) {
	ms, err := tf.Millis()
	if err != nil {
		return 0, err
	}
	return ms / 1000, nil
}

// Duration returns the timeframe as a time.Duration.
func (tf Timeframe) Duration() (time.Duration, error) {
	ms, err := tf.Millis()
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// CountSubcandles returns how many small candles fit into one large candle.
// Errors when small is larger than large.
func CountSubcandles(small, large Timeframe) (int64, error) {
	smallMs, err := small.Millis()
	if err != nil {
		return 0, err
	}
	largeMs, err := large.Millis()
	if err != nil {
		return 0, err
	}
	if smallMs > largeMs {
		return 0, fmt.Errorf("timeframe %q is larger than %q", string(small), string(large))
	}
	return largeMs / smallMs, nil
}
