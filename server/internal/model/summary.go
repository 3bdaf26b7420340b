package model

import "time"

type Summary struct {
	Symbol        string    `gorm:"column:symbol;primaryKey" json:"symbol"`
	Market        string    `gorm:"column:market" json:"market"`
	WindowStart   time.Time `gorm:"column:window_start;primaryKey;type:DateTime64(6, 'UTC')" json:"window_start"`
	WindowEnd     time.Time `gorm:"column:window_end;type:DateTime64(6, 'UTC')" json:"window_end"`
	BuyPrice      float64   `gorm:"column:buy_price;type:Float64" json:"buy_price"`
	BuyVolume     float64   `gorm:"column:buy_volume;type:Float64" json:"buy_volume"`
	SellPrice     float64   `gorm:"column:sell_price;type:Float64" json:"sell_price"`
	SellVolume    float64   `gorm:"column:sell_volume;type:Float64" json:"sell_volume"`
	Price         float64   `gorm:"column:price;type:Float64" json:"price"`
	Volume        float64   `gorm:"column:volume;type:Float64" json:"volume"`
	NetNotional   float64   `gorm:"column:net_notional;type:Float64" json:"net_notional"`
	OrderPrice    float64   `gorm:"column:order_price;type:Float64" json:"order_price"`
	NetOrderCount int64     `gorm:"column:net_order_count" json:"net_order_count"`
	NetBuyPrice   float64   `gorm:"column:net_buy_price;type:Float64" json:"net_buy_price"`
	NetBuyVolume  float64   `gorm:"column:net_buy_volume;type:Float64" json:"net_buy_volume"`
	NetSellPrice  float64   `gorm:"column:net_sell_price;type:Float64" json:"net_sell_price"`
	NetSellVolume float64   `gorm:"column:net_sell_volume;type:Float64" json:"net_sell_volume"`
	NetVolume     float64   `gorm:"column:net_volume;type:Float64" json:"net_volume"`
	HighPrice     float64   `gorm:"column:high_price;type:Float64" json:"high_price"`
	LowPrice      float64   `gorm:"column:low_price;type:Float64" json:"low_price"`
	InsertedAt    time.Time `gorm:"column:inserted_at;type:DateTime;default:now()" json:"inserted_at"`
}

func (Summary) TableName() string {
	return "orderflow_summary"
}

func (Summary) TableOptions() string {
	return "ENGINE = ReplacingMergeTree(inserted_at) ORDER BY (symbol, window_start)"
}
