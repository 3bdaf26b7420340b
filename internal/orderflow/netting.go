// Package orderflow computes price-level netting and order-flow statistics
// over batches of trades. All functions are pure and stateless: input order
// is irrelevant except where noted, results are deterministic, and partial
// per-shard results can be merged by summing per price level.
package orderflow

import (
	"math"
	"sort"

	"github.com/tvminh/blockflow/internal/trade"
)

// DefaultEpsilon is the absolute net-volume threshold below which a price
// level counts as fully offset and is dropped.
const DefaultEpsilon = 1e-12

// PriceLevel is the residual directional volume at one price after buys and
// sells at that exact price have been offset against each other.
type PriceLevel struct {
	Price float64

	// NetVolume is positive when buys dominate the level, negative when
	// sells do.
	NetVolume float64

	// NetNotional is the same netting applied to quote-currency notionals.
	NetNotional float64
}

// Net offsets opposing volume at identical price levels using the default
// epsilon. Output is ascending by price.
func Net(trades []trade.Trade) []PriceLevel {
	return NetWithEpsilon(trades, DefaultEpsilon)
}

// NetWithEpsilon is Net with a caller-chosen cancellation threshold. Levels
// with |net volume| < eps are dropped.
func NetWithEpsilon(trades []trade.Trade, eps float64) []PriceLevel {
	if len(trades) == 0 {
		return nil
	}

	type acc struct {
		volume   float64
		notional float64
	}
	levels := make(map[int64]*acc, len(trades))

	for _, t := range trades {
		d := t.Direction()
		k := priceKey(t.Price)
		a := levels[k]
		if a == nil {
			a = &acc{}
			levels[k] = a
		}
		a.volume += t.Quantity * d
		a.notional += t.Notional * d
	}

	keys := make([]int64, 0, len(levels))
	for k, a := range levels {
		if math.Abs(a.volume) < eps {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]PriceLevel, 0, len(keys))
	for _, k := range keys {
		a := levels[k]
		out = append(out, PriceLevel{
			Price:       keyPrice(k),
			NetVolume:   a.volume,
			NetNotional: a.notional,
		})
	}
	return out
}
