package orderflow

import (
	"sort"

	"github.com/tvminh/blockflow/internal/trade"
)

// LevelCount is the number of taker-buy and taker-sell executions at one
// price level.
type LevelCount struct {
	Price     float64
	BuyCount  int
	SellCount int
}

// LevelNetCount is buy executions minus sell executions at one price level.
type LevelNetCount struct {
	Price    float64
	NetCount int
}

// Frequency counts buy and sell trades per price level, ascending by price.
func Frequency(trades []trade.Trade) []LevelCount {
	if len(trades) == 0 {
		return nil
	}

	type counts struct{ buy, sell int }
	levels := make(map[int64]*counts, len(trades))
	for _, t := range trades {
		k := priceKey(t.Price)
		c := levels[k]
		if c == nil {
			c = &counts{}
			levels[k] = c
		}
		if t.Side == trade.Buy {
			c.buy++
		} else {
			c.sell++
		}
	}

	keys := sortedKeys(levels)
	out := make([]LevelCount, 0, len(keys))
	for _, k := range keys {
		c := levels[k]
		out = append(out, LevelCount{Price: keyPrice(k), BuyCount: c.buy, SellCount: c.sell})
	}
	return out
}

// NetFrequency reduces Frequency to the signed order count per level. Levels
// where buys and sells exactly cancel still appear with NetCount 0: a zero
// net order count over nonzero activity is itself a signal.
func NetFrequency(trades []trade.Trade) []LevelNetCount {
	counts := Frequency(trades)
	if counts == nil {
		return nil
	}
	out := make([]LevelNetCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, LevelNetCount{Price: c.Price, NetCount: c.BuyCount - c.SellCount})
	}
	return out
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
