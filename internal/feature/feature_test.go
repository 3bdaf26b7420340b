package feature

import (
	"errors"
	"math"
	"testing"

	"github.com/tvminh/blockflow/internal/block"
	"github.com/tvminh/blockflow/internal/trade"
)

func TestFromBlock(t *testing.T) {
	b := block.Block{
		Side:       trade.Buy,
		PriceDelta: 1.5,
		Volume:     12,
		TimeDelta:  2_500_000, // 2.5s in µs
	}

	v := FromBlock(b)
	if v[0] != 1.5 || v[1] != 12 || v[2] != 2.5 || v[3] != 1 {
		t.Errorf("Unexpected vector: %v", v)
	}

	b.Side = trade.Sell
	if v := FromBlock(b); v[3] != 0 {
		t.Errorf("Expected is_buy 0 for sell block, got %v", v[3])
	}
}

func TestFitScalerEmpty(t *testing.T) {
	if _, err := FitScaler(nil); !errors.Is(err, ErrNoVectors) {
		t.Errorf("Expected ErrNoVectors, got %v", err)
	}
}

func TestFitAndTransform(t *testing.T) {
	vectors := []Vector{
		{1, 10, 0, 1},
		{3, 30, 0, 0},
	}

	s, err := FitScaler(vectors)
	if err != nil {
		t.Fatalf("FitScaler returned error: %v", err)
	}

	if s.Mean[0] != 2 || s.Mean[1] != 20 || s.Mean[2] != 0 || s.Mean[3] != 0.5 {
		t.Errorf("Unexpected means: %v", s.Mean)
	}
	// Population std: sqrt(((1-2)^2+(3-2)^2)/2) = 1.
	if s.Scale[0] != 1 || s.Scale[1] != 10 {
		t.Errorf("Unexpected scales: %v", s.Scale)
	}
	// Zero-variance column must get scale 1, not 0.
	if s.Scale[2] != 1 {
		t.Errorf("Zero-variance column scale: expected 1, got %v", s.Scale[2])
	}

	got := s.Transform(vectors[0])
	want := Vector{-1, -1, 0, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Transform[%d]: expected %v, got %v", i, want[i], got[i])
		}
	}

	// Transformed sample must have zero mean per column.
	all := s.TransformAll(vectors)
	for i := 0; i < Width; i++ {
		var sum float64
		for _, v := range all {
			sum += v[i]
		}
		if math.Abs(sum) > 1e-12 {
			t.Errorf("Column %d mean after transform: expected 0, got %v", i, sum/float64(len(all)))
		}
	}
}
