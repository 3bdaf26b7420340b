// Package block collapses runs of consecutive same-side trades into
// directional blocks. The aggregator is a pure, single-pass state machine: it
// does no I/O and holds only the currently open run, so arbitrarily large
// archives can be streamed through it one trade at a time.
package block

import (
	"errors"
	"fmt"

	"github.com/tvminh/blockflow/internal/trade"
)

// ErrUnorderedInput is returned when a pushed trade's timestamp is lower than
// the previous one. Input must be sorted upstream; the aggregator never
// re-sorts.
var ErrUnorderedInput = errors.New("unordered input: timestamp decreased")

// Block is one maximal run of same-side trades.
type Block struct {
	Side trade.Side

	// Price is the price of the first trade in the run.
	Price float64

	// PriceDelta is last trade price minus first trade price. Only the run
	// endpoints matter, not the high/low inside the run.
	PriceDelta float64

	// Volume is the summed base quantity over the run.
	Volume float64

	// TradeCount is how many trades the run absorbed.
	TradeCount int

	// EndTime is the timestamp of the last trade in the run, in microseconds.
	EndTime int64

	// TimeDelta is EndTime minus the previous block's EndTime, in
	// microseconds. Zero for the first block of a session.
	TimeDelta int64
}

// Aggregator accumulates trades into blocks. Zero value is not usable; create
// with NewAggregator. Not safe for concurrent use — each batch worker owns its
// own instance.
type Aggregator struct {
	// SkipOrderCheck disables the timestamp ordering validation on Push.
	// The check is on by default; skipping it saves a comparison per trade
	// on inputs already guaranteed sorted by the storage layer.
	SkipOrderCheck bool

	prevEnd int64
	hasPrev bool

	lastTS  int64
	started bool

	open       bool
	side       trade.Side
	firstPrice float64
	lastPrice  float64
	volume     float64
	count      int
	endTime    int64
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// SetPrevEnd seeds the end time of the block immediately preceding this
// batch, so TimeDelta stays continuous across file boundaries. Continuity is
// the caller's choice: without it the first emitted block gets TimeDelta 0.
func (a *Aggregator) SetPrevEnd(ts int64) {
	a.prevEnd = ts
	a.hasPrev = true
}

// Push feeds one trade. When the trade's side differs from the open run, the
// finished block is returned with ok=true and a new run is started.
func (a *Aggregator) Push(t trade.Trade) (Block, bool, error) {
	if !a.SkipOrderCheck && a.started && t.Timestamp < a.lastTS {
		return Block{}, false, fmt.Errorf("%w: %d after %d", ErrUnorderedInput, t.Timestamp, a.lastTS)
	}
	a.lastTS = t.Timestamp
	a.started = true

	if !a.open {
		a.start(t)
		return Block{}, false, nil
	}

	if t.Side == a.side {
		a.lastPrice = t.Price
		a.volume += t.Quantity
		a.count++
		a.endTime = t.Timestamp
		return Block{}, false, nil
	}

	closed := a.close()
	a.start(t)
	return closed, true, nil
}

// Flush closes and returns the currently open run, if any. Call once at end
// of input.
func (a *Aggregator) Flush() (Block, bool) {
	if !a.open {
		return Block{}, false
	}
	return a.close(), true
}

func (a *Aggregator) start(t trade.Trade) {
	a.open = true
	a.side = t.Side
	a.firstPrice = t.Price
	a.lastPrice = t.Price
	a.volume = t.Quantity
	a.count = 1
	a.endTime = t.Timestamp
}

func (a *Aggregator) close() Block {
	b := Block{
		Side:       a.side,
		Price:      a.firstPrice,
		PriceDelta: a.lastPrice - a.firstPrice,
		Volume:     a.volume,
		TradeCount: a.count,
		EndTime:    a.endTime,
	}
	if a.hasPrev {
		b.TimeDelta = a.endTime - a.prevEnd
	}
	a.prevEnd = a.endTime
	a.hasPrev = true
	a.open = false
	return b
}

// Aggregate runs the full pass over an already-sorted batch. Empty input
// yields an empty result, not an error.
func Aggregate(trades []trade.Trade) ([]Block, error) {
	agg := NewAggregator()
	blocks := make([]Block, 0, len(trades)/4+1)
	for _, t := range trades {
		b, ok, err := agg.Push(t)
		if err != nil {
			return nil, err
		}
		if ok {
			blocks = append(blocks, b)
		}
	}
	if b, ok := agg.Flush(); ok {
		blocks = append(blocks, b)
	}
	return blocks, nil
}
