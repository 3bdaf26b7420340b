package publisher

import (
	"testing"

	"github.com/tvminh/blockflow/internal/block"
	"github.com/tvminh/blockflow/internal/trade"
)

func sample() BlockMessage {
	return NewBlockMessage("BTCUSDT", "spot", block.Block{
		Side:       trade.Buy,
		Price:      100.5,
		PriceDelta: 0.25,
		Volume:     3.5,
		TradeCount: 4,
		EndTime:    1_700_000_000_000_000,
		TimeDelta:  2_500_000,
	})
}

func TestEncodeDecodeSingle(t *testing.T) {
	msg := sample()

	payload, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	got, err := DecodeBlockMessages(payload)
	if err != nil {
		t.Fatalf("DecodeBlockMessages returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(got))
	}
	if got[0] != msg {
		t.Errorf("Round trip mismatch:\nwant %+v\ngot  %+v", msg, got[0])
	}
}

func TestDecodeArray(t *testing.T) {
	payload := []byte(`[
		{"symbol":"BTCUSDT","market":"spot","side":"buy","price":100,"volume":1,"end_time":1700000000000000},
		{"symbol":"BTCUSDT","market":"spot","side":"sell","price":101,"volume":2,"end_time":1700000000500000}
	]`)

	got, err := DecodeBlockMessages(payload)
	if err != nil {
		t.Fatalf("DecodeBlockMessages returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(got))
	}
	if got[0].Side != "buy" || got[1].Side != "sell" {
		t.Errorf("Unexpected sides: %+v", got)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := DecodeBlockMessages([]byte("not json at all")); err == nil {
		t.Error("Expected error for garbage payload")
	}
}

func TestValidate(t *testing.T) {
	if err := sample().Validate(); err != nil {
		t.Errorf("Valid message must pass, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*BlockMessage)
	}{
		{"MissingSymbol", func(m *BlockMessage) { m.Symbol = "" }},
		{"BadSide", func(m *BlockMessage) { m.Side = "hold" }},
		{"ZeroPrice", func(m *BlockMessage) { m.Price = 0 }},
		{"NegativeVolume", func(m *BlockMessage) { m.Volume = -1 }},
		{"ZeroEndTime", func(m *BlockMessage) { m.EndTime = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sample()
			tt.mutate(&m)
			if err := m.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
