package trade

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestSideFromBuyerMaker(t *testing.T) {
	// is_buyer_maker == false means the taker bought.
	if got := SideFromBuyerMaker(false); got != Buy {
		t.Errorf("Expected Buy for is_buyer_maker=false, got %v", got)
	}
	if got := SideFromBuyerMaker(true); got != Sell {
		t.Errorf("Expected Sell for is_buyer_maker=true, got %v", got)
	}
}

func TestParseSide(t *testing.T) {
	if s, err := ParseSide("buy"); err != nil || s != Buy {
		t.Errorf("ParseSide(buy) = %v, %v", s, err)
	}
	if s, err := ParseSide("sell"); err != nil || s != Sell {
		t.Errorf("ParseSide(sell) = %v, %v", s, err)
	}
	if _, err := ParseSide("all"); err == nil {
		t.Error("Expected error for unknown side")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		trade   Trade
		wantErr bool
	}{
		{"Valid buy", Trade{Price: 100, Quantity: 0.5, Side: Buy}, false},
		{"Valid sell", Trade{Price: 0.0001, Quantity: 1000, Side: Sell}, false},
		{"Zero price", Trade{Price: 0, Quantity: 1, Side: Buy}, true},
		{"Negative price", Trade{Price: -1, Quantity: 1, Side: Buy}, true},
		{"NaN price", Trade{Price: math.NaN(), Quantity: 1, Side: Buy}, true},
		{"Inf price", Trade{Price: math.Inf(1), Quantity: 1, Side: Buy}, true},
		{"Zero quantity", Trade{Price: 100, Quantity: 0, Side: Sell}, true},
		{"Negative quantity", Trade{Price: 100, Quantity: -2, Side: Sell}, true},
		{"NaN quantity", Trade{Price: 100, Quantity: math.NaN(), Side: Buy}, true},
		{"Missing side", Trade{Price: 100, Quantity: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.trade.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidTrade) {
				t.Errorf("Expected ErrInvalidTrade, got %v", err)
			}
		})
	}
}

func TestWithNotional(t *testing.T) {
	tr := Trade{Price: 200, Quantity: 0.25, Side: Buy}.WithNotional()
	if tr.Notional != 50 {
		t.Errorf("Expected derived notional 50, got %v", tr.Notional)
	}

	// A supplied notional must not be overwritten.
	tr = Trade{Price: 200, Quantity: 0.25, Notional: 49.9, Side: Buy}.WithNotional()
	if tr.Notional != 49.9 {
		t.Errorf("Expected supplied notional 49.9, got %v", tr.Notional)
	}
}

func TestTime(t *testing.T) {
	ts := time.Date(2025, 12, 1, 10, 30, 0, 123456000, time.UTC)
	tr := Trade{Timestamp: ts.UnixMicro()}
	if !tr.Time().Equal(ts) {
		t.Errorf("Expected %v, got %v", ts, tr.Time())
	}
}

func TestSortAndIsSorted(t *testing.T) {
	trades := []Trade{
		{ID: 3, Timestamp: 200},
		{ID: 2, Timestamp: 100},
		{ID: 1, Timestamp: 100},
	}

	if IsSorted(trades) {
		t.Error("Expected unsorted input to report false")
	}

	Sort(trades)

	if !IsSorted(trades) {
		t.Error("Expected sorted output to report true")
	}
	if trades[0].ID != 1 || trades[1].ID != 2 || trades[2].ID != 3 {
		t.Errorf("Expected order by (timestamp, id), got %+v", trades)
	}
}
