// Package models defines the database row models shared by the ingester,
// the importer and the query API.
package models

import "time"

// Block is one aggregated run of same-side trades as stored in ClickHouse.
// Rows are keyed by (symbol, block_end_time); re-imports of the same archive
// replace rather than duplicate.
type Block struct {
	// Symbol is the trading pair the block belongs to (e.g. "BTCUSDT").
	Symbol string `json:"symbol"`

	// Market is the archive segment the trades came from: "spot" or "futures".
	Market string `json:"market"`

	// Side is the block direction: "buy" or "sell".
	Side string `json:"side"`

	// Price is the price of the first trade in the block.
	Price float64 `json:"price"`

	// PriceDelta is last trade price minus first trade price.
	PriceDelta float64 `json:"price_delta"`

	// Volume is the summed base quantity of every trade in the block.
	Volume float64 `json:"volume"`

	// TradeCount is how many trades the block absorbed.
	TradeCount uint32 `json:"trade_count"`

	// BlockEndTime is the timestamp of the last trade in the block.
	BlockEndTime time.Time `json:"block_end_time"`

	// TimeDeltaMicros is the gap to the previous block's end time, zero for
	// the first block of a run.
	TimeDeltaMicros int64 `json:"time_delta_micros"`

	// InsertedAt is when the row was written to the database.
	InsertedAt time.Time `json:"inserted_at"`
}
