package block

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tvminh/blockflow/internal/trade"
)

func mkTrade(price, qty float64, side trade.Side, ts int64) trade.Trade {
	return trade.Trade{Price: price, Quantity: qty, Side: side, Timestamp: ts}
}

func TestAggregateRuns(t *testing.T) {
	// Sides BUY,BUY,SELL,SELL,SELL,BUY must yield exactly 3 blocks with the
	// per-run volume sums.
	trades := []trade.Trade{
		mkTrade(100, 1, trade.Buy, 10),
		mkTrade(101, 2, trade.Buy, 20),
		mkTrade(102, 3, trade.Sell, 30),
		mkTrade(101, 4, trade.Sell, 40),
		mkTrade(99, 5, trade.Sell, 50),
		mkTrade(100, 6, trade.Buy, 60),
	}

	blocks, err := Aggregate(trades)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}

	if blocks[0].Side != trade.Buy || blocks[0].Volume != 3 {
		t.Errorf("Block 0: expected buy volume 3, got %v %v", blocks[0].Side, blocks[0].Volume)
	}
	if blocks[1].Side != trade.Sell || blocks[1].Volume != 12 {
		t.Errorf("Block 1: expected sell volume 12, got %v %v", blocks[1].Side, blocks[1].Volume)
	}
	if blocks[2].Side != trade.Buy || blocks[2].Volume != 6 {
		t.Errorf("Block 2: expected buy volume 6, got %v %v", blocks[2].Side, blocks[2].Volume)
	}

	wantCounts := []int{2, 3, 1}
	for i, want := range wantCounts {
		if blocks[i].TradeCount != want {
			t.Errorf("Block %d: expected %d trades, got %d", i, want, blocks[i].TradeCount)
		}
	}

	// Volume conservation: sum of block volumes equals sum of quantities.
	var blockVol, tradeVol float64
	for _, b := range blocks {
		blockVol += b.Volume
	}
	for _, tr := range trades {
		tradeVol += tr.Quantity
	}
	if blockVol != tradeVol {
		t.Errorf("Volume not conserved: blocks %v, trades %v", blockVol, tradeVol)
	}
}

func TestPriceAndPriceDelta(t *testing.T) {
	// Representative price is the first trade, delta is last minus first —
	// interior prices must not matter.
	trades := []trade.Trade{
		mkTrade(100, 1, trade.Buy, 10),
		mkTrade(250, 1, trade.Buy, 20), // interior spike, ignored
		mkTrade(103, 1, trade.Buy, 30),
	}

	blocks, err := Aggregate(trades)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Price != 100 {
		t.Errorf("Expected representative price 100, got %v", blocks[0].Price)
	}
	if blocks[0].PriceDelta != 3 {
		t.Errorf("Expected price delta 3, got %v", blocks[0].PriceDelta)
	}
}

func TestTimeDelta(t *testing.T) {
	trades := []trade.Trade{
		mkTrade(100, 1, trade.Buy, 1000),
		mkTrade(100, 1, trade.Sell, 2500),
		mkTrade(100, 1, trade.Buy, 4000),
	}

	blocks, err := Aggregate(trades)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}

	if blocks[0].TimeDelta != 0 {
		t.Errorf("First block TimeDelta: expected 0, got %d", blocks[0].TimeDelta)
	}
	if blocks[1].TimeDelta != 1500 {
		t.Errorf("Second block TimeDelta: expected 1500, got %d", blocks[1].TimeDelta)
	}
	if blocks[2].TimeDelta != 1500 {
		t.Errorf("Third block TimeDelta: expected 1500, got %d", blocks[2].TimeDelta)
	}
}

func TestPrevEndContinuation(t *testing.T) {
	agg := NewAggregator()
	agg.SetPrevEnd(500)

	if _, _, err := agg.Push(mkTrade(100, 1, trade.Buy, 1000)); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}
	b, ok := agg.Flush()
	if !ok {
		t.Fatal("Expected a flushed block")
	}
	if b.TimeDelta != 500 {
		t.Errorf("Expected TimeDelta 500 carried across batches, got %d", b.TimeDelta)
	}
}

func TestUnorderedInput(t *testing.T) {
	agg := NewAggregator()
	if _, _, err := agg.Push(mkTrade(100, 1, trade.Buy, 2000)); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}
	_, _, err := agg.Push(mkTrade(100, 1, trade.Buy, 1000))
	if !errors.Is(err, ErrUnorderedInput) {
		t.Errorf("Expected ErrUnorderedInput, got %v", err)
	}

	// Equal timestamps are fine (ties broken by id upstream).
	agg = NewAggregator()
	agg.Push(mkTrade(100, 1, trade.Buy, 1000))
	if _, _, err := agg.Push(mkTrade(100, 1, trade.Buy, 1000)); err != nil {
		t.Errorf("Equal timestamps should not error, got %v", err)
	}
}

func TestSkipOrderCheck(t *testing.T) {
	agg := NewAggregator()
	agg.SkipOrderCheck = true
	agg.Push(mkTrade(100, 1, trade.Buy, 2000))
	if _, _, err := agg.Push(mkTrade(100, 1, trade.Buy, 1000)); err != nil {
		t.Errorf("Expected no error with SkipOrderCheck, got %v", err)
	}
}

func TestDegenerateInputs(t *testing.T) {
	blocks, err := Aggregate(nil)
	if err != nil {
		t.Errorf("Empty input must not error, got %v", err)
	}
	if len(blocks) != 0 {
		t.Errorf("Expected no blocks for empty input, got %d", len(blocks))
	}

	blocks, err = Aggregate([]trade.Trade{mkTrade(100, 2, trade.Sell, 1000)})
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block for single trade, got %d", len(blocks))
	}
	if blocks[0].PriceDelta != 0 || blocks[0].TimeDelta != 0 {
		t.Errorf("Single-trade block must have zero deltas, got %+v", blocks[0])
	}
}

func TestReaggregationIsDeterministic(t *testing.T) {
	trades := []trade.Trade{
		mkTrade(0.1, 5, trade.Buy, 100),
		mkTrade(0.1, 3, trade.Sell, 200),
		mkTrade(0.2, 2, trade.Buy, 300),
		mkTrade(0.3, 4, trade.Buy, 400),
		mkTrade(0.4, 6, trade.Sell, 500),
	}

	first, err := Aggregate(trades)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	second, err := Aggregate(trades)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Re-aggregation not identical:\n%+v\n%+v", first, second)
	}
}
