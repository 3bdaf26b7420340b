package timeframe

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	if tf, err := Parse("1m"); err != nil || tf != M1 {
		t.Errorf("Parse(1m) = %v, %v", tf, err)
	}
	if _, err := Parse("invalid_tf"); err == nil {
		t.Error("Expected error for invalid timeframe")
	}
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		tf   Timeframe
		want int64
	}{
		{M1, 60},
		{M5, 5 * 60},
		{H1, 60 * 60},
		{D1, 24 * 60 * 60},
		{W1, 7 * 24 * 60 * 60},
	}
	for _, tt := range tests {
		got, err := tt.tf.Seconds()
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.tf, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected %d seconds, got %d", tt.tf, tt.want, got)
		}
	}
}

func TestDuration(t *testing.T) {
	d, err := H4.Duration()
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	if d != 4*time.Hour {
		t.Errorf("Expected 4h, got %v", d)
	}
}

func TestCountSubcandles(t *testing.T) {
	tests := []struct {
		small, large Timeframe
		want         int64
	}{
		{M1, M5, 5},
		{M5, H1, 12},
		{H4, D1, 6},
	}
	for _, tt := range tests {
		got, err := CountSubcandles(tt.small, tt.large)
		if err != nil {
			t.Errorf("CountSubcandles(%s, %s): unexpected error %v", tt.small, tt.large, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CountSubcandles(%s, %s): expected %d, got %d", tt.small, tt.large, tt.want, got)
		}
	}
}

func TestCountSubcandlesInvalidOrder(t *testing.T) {
	if _, err := CountSubcandles(H1, M5); err == nil {
		t.Error("Expected error when small timeframe is larger than large")
	}
}

func TestInferUnit(t *testing.T) {
	ref := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ts   int64
		want Unit
	}{
		{"Seconds", ref.Unix(), Seconds},
		{"Milliseconds", ref.UnixMilli(), Milliseconds},
		{"Microseconds", ref.UnixMicro(), Microseconds},
		{"Nanoseconds", ref.UnixNano(), Nanoseconds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InferUnit(tt.ts)
			if err != nil {
				t.Fatalf("InferUnit returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	if _, err := InferUnit(0); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("Expected ErrUnknownUnit for zero, got %v", err)
	}
}

func TestUnitToMicros(t *testing.T) {
	if got := Milliseconds.ToMicros(1_700_000_000_123); got != 1_700_000_000_123_000 {
		t.Errorf("ms->us: got %d", got)
	}
	if got := Microseconds.ToMicros(42); got != 42 {
		t.Errorf("us->us must be identity, got %d", got)
	}
	if got := Seconds.ToMicros(2); got != 2_000_000 {
		t.Errorf("s->us: got %d", got)
	}
	if got := Nanoseconds.ToMicros(5_000); got != 5 {
		t.Errorf("ns->us: got %d", got)
	}
}
