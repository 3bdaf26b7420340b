// Package feature derives fixed-width vectors from blocks for downstream
// similarity indexing, and provides the standardization used before those
// vectors are handed to a vector store.
package feature

import (
	"errors"
	"math"

	"github.com/tvminh/blockflow/internal/block"
	"github.com/tvminh/blockflow/internal/trade"
)

// Width is the number of components in a block feature vector.
const Width = 4

// Vector is [price_delta, volume, time_delta_seconds, is_buy].
type Vector [Width]float64

// FromBlock builds the raw (unscaled) feature vector of a block.
func FromBlock(b block.Block) Vector {
	isBuy := 0.0
	if b.Side == trade.Buy {
		isBuy = 1.0
	}
	return Vector{
		b.PriceDelta,
		b.Volume,
		float64(b.TimeDelta) / 1e6,
		isBuy,
	}
}

// Scaler holds fitted standardization parameters. It is immutable after
// FitScaler and must be passed explicitly to every consumer — there is no
// process-wide fitted state.
type Scaler struct {
	Mean  Vector
	Scale Vector
}

// ErrNoVectors is returned when fitting over an empty sample.
var ErrNoVectors = errors.New("no vectors to fit scaler")

// FitScaler computes per-column mean and standard deviation over the sample.
// Columns with zero variance get scale 1 so Transform leaves them centered
// but unscaled.
func FitScaler(vectors []Vector) (*Scaler, error) {
	if len(vectors) == 0 {
		return nil, ErrNoVectors
	}

	n := float64(len(vectors))
	s := &Scaler{}

	for _, v := range vectors {
		for i := 0; i < Width; i++ {
			s.Mean[i] += v[i]
		}
	}
	for i := 0; i < Width; i++ {
		s.Mean[i] /= n
	}

	for _, v := range vectors {
		for i := 0; i < Width; i++ {
			d := v[i] - s.Mean[i]
			s.Scale[i] += d * d
		}
	}
	for i := 0; i < Width; i++ {
		s.Scale[i] = math.Sqrt(s.Scale[i] / n)
		if s.Scale[i] == 0 {
			s.Scale[i] = 1
		}
	}

	return s, nil
}

// Transform standardizes one vector with the fitted parameters.
func (s *Scaler) Transform(v Vector) Vector {
	var out Vector
	for i := 0; i < Width; i++ {
		out[i] = (v[i] - s.Mean[i]) / s.Scale[i]
	}
	return out
}

// TransformAll standardizes a batch.
func (s *Scaler) TransformAll(vectors []Vector) []Vector {
	out := make([]Vector, len(vectors))
	for i, v := range vectors {
		out[i] = s.Transform(v)
	}
	return out
}
