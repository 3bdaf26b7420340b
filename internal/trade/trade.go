// Package trade defines the canonical trade record used across the pipeline.
// Records are normalized from archive or stream formats before they reach the
// aggregation and statistics engines.
package trade

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrInvalidTrade is returned when a record carries a non-finite or
// non-positive price or quantity. Invalid records fail the whole batch at the
// ingestion boundary: silently dropping them would corrupt the aggregates
// computed downstream.
var ErrInvalidTrade = errors.New("invalid trade record")

// Side is the taker side of a trade: Buy means the trade was initiated by a
// market-taking buyer (the resting order was a sell).
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

// SideFromBuyerMaker maps the archive polarity convention to a Side.
// is_buyer_maker == false means the taker was a buyer.
func SideFromBuyerMaker(isBuyerMaker bool) Side {
	if isBuyerMaker {
		return Sell
	}
	return Buy
}

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// ParseSide converts the string form used on the wire back to a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// Trade is a single execution. Immutable once built; engines never mutate it.
type Trade struct {
	// ID is the exchange trade id, used as the secondary sort key when
	// timestamps collide. Zero when the source has no ids.
	ID int64

	// Price in quote currency. Always > 0 for a valid record.
	Price float64

	// Quantity is the base-asset volume. Always > 0 for a valid record.
	Quantity float64

	// Notional is Quantity * Price in quote terms. Supplied by the archive
	// when present, derived otherwise.
	Notional float64

	Side Side

	// Timestamp is microseconds since the Unix epoch, UTC. All sources
	// normalize to microseconds before the record enters the pipeline.
	Timestamp int64
}

// Time returns the execution time as a time.Time in UTC.
func (t Trade) Time() time.Time {
	return time.UnixMicro(t.Timestamp).UTC()
}

// Direction returns +1 for taker buys and -1 for taker sells.
func (t Trade) Direction() float64 {
	return float64(t.Side)
}

// Validate checks the record invariants. It wraps ErrInvalidTrade so callers
// can match with errors.Is.
func (t Trade) Validate() error {
	if math.IsNaN(t.Price) || math.IsInf(t.Price, 0) || t.Price <= 0 {
		return fmt.Errorf("%w: price %v", ErrInvalidTrade, t.Price)
	}
	if math.IsNaN(t.Quantity) || math.IsInf(t.Quantity, 0) || t.Quantity <= 0 {
		return fmt.Errorf("%w: quantity %v", ErrInvalidTrade, t.Quantity)
	}
	if t.Side != Buy && t.Side != Sell {
		return fmt.Errorf("%w: side %d", ErrInvalidTrade, t.Side)
	}
	return nil
}

// WithNotional fills the notional from price and quantity when the source did
// not supply one.
func (t Trade) WithNotional() Trade {
	if t.Notional == 0 {
		t.Notional = t.Price * t.Quantity
	}
	return t
}

// Sort orders trades ascending by (timestamp, id) using a stable sort, the
// ordering the block aggregator requires.
func Sort(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		if trades[i].Timestamp != trades[j].Timestamp {
			return trades[i].Timestamp < trades[j].Timestamp
		}
		return trades[i].ID < trades[j].ID
	})
}

// IsSorted reports whether trades satisfy the (timestamp, id) ordering
// invariant.
func IsSorted(trades []Trade) bool {
	return sort.SliceIsSorted(trades, func(i, j int) bool {
		if trades[i].Timestamp != trades[j].Timestamp {
			return trades[i].Timestamp < trades[j].Timestamp
		}
		return trades[i].ID < trades[j].ID
	})
}
