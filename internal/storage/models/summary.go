package models

import "time"

// Summary is one order-flow statistics row covering a batch of trades, one
// per (symbol, window_start).
type Summary struct {
	Symbol      string    `json:"symbol"`
	Market      string    `json:"market"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	BuyPrice   float64 `json:"buy_price"`
	BuyVolume  float64 `json:"buy_volume"`
	SellPrice  float64 `json:"sell_price"`
	SellVolume float64 `json:"sell_volume"`
	Price      float64 `json:"price"`
	Volume     float64 `json:"volume"`

	NetNotional   float64 `json:"net_notional"`
	OrderPrice    float64 `json:"order_price"`
	NetOrderCount int64   `json:"net_order_count"`

	NetBuyPrice   float64 `json:"net_buy_price"`
	NetBuyVolume  float64 `json:"net_buy_volume"`
	NetSellPrice  float64 `json:"net_sell_price"`
	NetSellVolume float64 `json:"net_sell_volume"`
	NetVolume     float64 `json:"net_volume"`

	HighPrice float64 `json:"high_price"`
	LowPrice  float64 `json:"low_price"`

	InsertedAt time.Time `json:"inserted_at"`
}
