package vision

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tvminh/blockflow/internal/timeframe"
	"github.com/tvminh/blockflow/internal/trade"
)

// Archive row layout:
//
//	spot:    trade_id, price, qty, quote_qty, time(µs), is_buyer_maker, is_best_match (no header)
//	futures: trade_id, price, qty, quote_qty, time(ms), is_buyer_maker (header row)
const (
	colTradeID = 0
	colPrice   = 1
	colQty     = 2
	colQuote   = 3
	colTime    = 4
	colMaker   = 5

	minColumns = 6
)

func unitFor(market MarketType) timeframe.Unit {
	if market == Futures {
		return timeframe.Milliseconds
	}
	return timeframe.Microseconds
}

// TradeReader decodes archive CSV rows into trade records one at a time, so
// a monthly archive never has to be materialized to stream it into the block
// aggregator. Rows come back in file order; use ReadTradesFile when the
// sorted-batch guarantee is needed.
type TradeReader struct {
	csv    *csv.Reader
	unit   timeframe.Unit
	line   int
	closer io.Closer
}

// NewTradeReader wraps an archive CSV stream. For futures archives the
// header row is consumed immediately.
func NewTradeReader(r io.Reader, market MarketType) (*TradeReader, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	tr := &TradeReader{csv: cr, unit: unitFor(market)}
	if market == Futures {
		if _, err := cr.Read(); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		tr.line++
	}
	return tr, nil
}

// OpenTradesFile opens an extracted archive CSV. Close the reader when done.
func OpenTradesFile(path string, market MarketType) (*TradeReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	tr, err := NewTradeReader(f, market)
	if err != nil {
		f.Close()
		return nil, err
	}
	tr.closer = f
	return tr, nil
}

// Next returns the next record, or io.EOF at end of input. A malformed or
// invalid row fails the whole read with an error wrapping
// trade.ErrInvalidTrade: silently dropping rows would skew every aggregate
// computed from the batch.
func (r *TradeReader) Next() (trade.Trade, error) {
	rec, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return trade.Trade{}, io.EOF
		}
		return trade.Trade{}, fmt.Errorf("row %d: %w", r.line+1, err)
	}
	r.line++

	t, err := r.parseRow(rec)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("row %d: %w", r.line, err)
	}
	return t, nil
}

func (r *TradeReader) parseRow(rec []string) (trade.Trade, error) {
	if len(rec) < minColumns {
		return trade.Trade{}, fmt.Errorf("%w: %d columns", trade.ErrInvalidTrade, len(rec))
	}

	id, err := strconv.ParseInt(rec[colTradeID], 10, 64)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("%w: trade_id %q", trade.ErrInvalidTrade, rec[colTradeID])
	}
	price, err := strconv.ParseFloat(rec[colPrice], 64)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("%w: price %q", trade.ErrInvalidTrade, rec[colPrice])
	}
	qty, err := strconv.ParseFloat(rec[colQty], 64)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("%w: quantity %q", trade.ErrInvalidTrade, rec[colQty])
	}
	quote, err := strconv.ParseFloat(rec[colQuote], 64)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("%w: quote_quantity %q", trade.ErrInvalidTrade, rec[colQuote])
	}
	ts, err := strconv.ParseInt(rec[colTime], 10, 64)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("%w: timestamp %q", trade.ErrInvalidTrade, rec[colTime])
	}
	isBuyerMaker, err := strconv.ParseBool(rec[colMaker])
	if err != nil {
		return trade.Trade{}, fmt.Errorf("%w: is_buyer_maker %q", trade.ErrInvalidTrade, rec[colMaker])
	}

	t := trade.Trade{
		ID:        id,
		Price:     price,
		Quantity:  qty,
		Notional:  quote,
		Side:      trade.SideFromBuyerMaker(isBuyerMaker),
		Timestamp: r.unit.ToMicros(ts),
	}.WithNotional()

	if err := t.Validate(); err != nil {
		return trade.Trade{}, err
	}
	return t, nil
}

// Close closes the underlying file, when the reader owns one.
func (r *TradeReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// ReadTradesFile decodes a whole archive CSV and returns it sorted by
// (timestamp, trade id), the ordering the block aggregator requires.
func ReadTradesFile(path string, market MarketType) ([]trade.Trade, error) {
	r, err := OpenTradesFile(path, market)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readAll(r)
}

func readAll(r *TradeReader) ([]trade.Trade, error) {
	var trades []trade.Trade
	for {
		t, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	trade.Sort(trades)
	return trades, nil
}
