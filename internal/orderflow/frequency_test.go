package orderflow

import (
	"testing"

	"github.com/tvminh/blockflow/internal/trade"
)

func frequencyFixture() []trade.Trade {
	return []trade.Trade{
		mkTrade(0.1, 5, trade.Buy),
		mkTrade(0.1, 3, trade.Sell),
		mkTrade(0.2, 2, trade.Buy),
		mkTrade(0.2, 1, trade.Sell),
		mkTrade(0.2, 1, trade.Sell),
		mkTrade(0.3, 4, trade.Buy),
		mkTrade(0.4, 6, trade.Sell),
	}
}

func TestFrequency(t *testing.T) {
	counts := Frequency(frequencyFixture())

	expected := []LevelCount{
		{Price: 0.1, BuyCount: 1, SellCount: 1},
		{Price: 0.2, BuyCount: 1, SellCount: 2},
		{Price: 0.3, BuyCount: 1, SellCount: 0},
		{Price: 0.4, BuyCount: 0, SellCount: 1},
	}

	if len(counts) != len(expected) {
		t.Fatalf("Expected %d levels, got %d: %+v", len(expected), len(counts), counts)
	}
	for i, want := range expected {
		got := counts[i]
		if !approx(got.Price, want.Price) || got.BuyCount != want.BuyCount || got.SellCount != want.SellCount {
			t.Errorf("Level %d: expected %+v, got %+v", i, want, got)
		}
	}
}

func TestNetFrequency(t *testing.T) {
	nets := NetFrequency(frequencyFixture())

	expected := []LevelNetCount{
		{Price: 0.1, NetCount: 0},
		{Price: 0.2, NetCount: -1},
		{Price: 0.3, NetCount: 1},
		{Price: 0.4, NetCount: -1},
	}

	if len(nets) != len(expected) {
		t.Fatalf("Expected %d levels, got %d: %+v", len(expected), len(nets), nets)
	}
	for i, want := range expected {
		got := nets[i]
		if !approx(got.Price, want.Price) || got.NetCount != want.NetCount {
			t.Errorf("Level %d: expected %+v, got %+v", i, want, got)
		}
	}
}

func TestFrequencyEmpty(t *testing.T) {
	if got := Frequency(nil); got != nil {
		t.Errorf("Expected nil for empty input, got %+v", got)
	}
	if got := NetFrequency(nil); got != nil {
		t.Errorf("Expected nil for empty input, got %+v", got)
	}
}
