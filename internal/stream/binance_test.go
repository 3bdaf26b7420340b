package stream

import (
	"testing"

	"github.com/tvminh/blockflow/internal/trade"
)

func TestParseTradeFrame(t *testing.T) {
	frame := []byte(`{
		"stream": "btcusdt@trade",
		"data": {
			"e": "trade",
			"E": 1700000000500,
			"s": "BTCUSDT",
			"t": 12345,
			"p": "42000.50",
			"q": "0.004",
			"T": 1700000000123,
			"m": true
		}
	}`)

	symbol, got, err := parseTradeFrame(frame)
	if err != nil {
		t.Fatalf("parseTradeFrame returned error: %v", err)
	}
	if symbol != "BTCUSDT" {
		t.Errorf("Expected symbol BTCUSDT, got %s", symbol)
	}
	if got.ID != 12345 || got.Price != 42000.50 || got.Quantity != 0.004 {
		t.Errorf("Unexpected trade: %+v", got)
	}
	if got.Side != trade.Sell {
		t.Errorf("Buyer-maker trade must be a taker sell, got %v", got.Side)
	}
	if got.Timestamp != 1_700_000_000_123_000 {
		t.Errorf("Stream milliseconds must be normalized to microseconds, got %d", got.Timestamp)
	}
}

func TestParseTradeFrameRejects(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"Garbage", "not json"},
		{"WrongEventType", `{"stream":"btcusdt@depth","data":{"e":"depthUpdate","s":"BTCUSDT"}}`},
		{"BadPrice", `{"stream":"btcusdt@trade","data":{"e":"trade","s":"BTCUSDT","t":1,"p":"oops","q":"1","T":1700000000123,"m":false}}`},
		{"ZeroQuantity", `{"stream":"btcusdt@trade","data":{"e":"trade","s":"BTCUSDT","t":1,"p":"100","q":"0","T":1700000000123,"m":false}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseTradeFrame([]byte(tt.frame)); err == nil {
				t.Error("Expected parse error")
			}
		})
	}
}

func TestCombinedStreamURL(t *testing.T) {
	got := CombinedStreamURL(SpotStreamURL, []string{"BTCUSDT", " ethusdt "})
	want := "wss://stream.binance.com:9443/stream?streams=btcusdt@trade/ethusdt@trade"
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestChunkMarkets(t *testing.T) {
	markets := []string{"A", "B", "C", "D", "E"}

	chunks := ChunkMarkets(markets, 2)
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[2]) != 1 || chunks[2][0] != "E" {
		t.Errorf("Last chunk must carry the remainder, got %v", chunks[2])
	}

	if got := ChunkMarkets(nil, 2); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
}
