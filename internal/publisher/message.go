package publisher

import (
	"encoding/json"
	"fmt"

	"github.com/tvminh/blockflow/internal/block"
	"github.com/tvminh/blockflow/internal/trade"
)

// BlockMessage is the wire format for one closed block on the Kafka topic.
type BlockMessage struct {
	Symbol          string  `json:"symbol"`
	Market          string  `json:"market"`
	Side            string  `json:"side"`
	Price           float64 `json:"price"`
	PriceDelta      float64 `json:"price_delta"`
	Volume          float64 `json:"volume"`
	TradeCount      int     `json:"trade_count"`
	EndTime         int64   `json:"end_time"`
	TimeDeltaMicros int64   `json:"time_delta_micros"`
}

// NewBlockMessage converts a closed block into its wire form.
func NewBlockMessage(symbol, market string, b block.Block) BlockMessage {
	return BlockMessage{
		Symbol:          symbol,
		Market:          market,
		Side:            b.Side.String(),
		Price:           b.Price,
		PriceDelta:      b.PriceDelta,
		Volume:          b.Volume,
		TradeCount:      b.TradeCount,
		EndTime:         b.EndTime,
		TimeDeltaMicros: b.TimeDelta,
	}
}

// Encode serializes the message for the Kafka topic.
func (m BlockMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeBlockMessages parses a Kafka payload holding either a JSON array of
// block messages or a single object.
func DecodeBlockMessages(data []byte) ([]BlockMessage, error) {
	var many []BlockMessage
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}

	var one BlockMessage
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("unknown message format: %w", err)
	}
	return []BlockMessage{one}, nil
}

// Validate checks the fields a downstream consumer relies on.
func (m BlockMessage) Validate() error {
	if m.Symbol == "" {
		return fmt.Errorf("missing symbol")
	}
	if _, err := trade.ParseSide(m.Side); err != nil {
		return err
	}
	if m.Price <= 0 {
		return fmt.Errorf("invalid price: %v", m.Price)
	}
	if m.Volume <= 0 {
		return fmt.Errorf("invalid volume: %v", m.Volume)
	}
	if m.EndTime <= 0 {
		return fmt.Errorf("invalid end time: %d", m.EndTime)
	}
	return nil
}
