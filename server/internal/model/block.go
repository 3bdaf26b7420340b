package model

import "time"

type Block struct {
	Symbol          string    `gorm:"column:symbol;primaryKey" json:"symbol"`
	Market          string    `gorm:"column:market" json:"market"`
	Side            string    `gorm:"column:side" json:"side"`
	Price           float64   `gorm:"column:price;type:Float64" json:"price"`
	PriceDelta      float64   `gorm:"column:price_delta;type:Float64" json:"price_delta"`
	Volume          float64   `gorm:"column:volume;type:Float64" json:"volume"`
	TradeCount      uint32    `gorm:"column:trade_count" json:"trade_count"`
	BlockEndTime    time.Time `gorm:"column:block_end_time;primaryKey;type:DateTime64(6, 'UTC')" json:"block_end_time"`
	TimeDeltaMicros int64     `gorm:"column:time_delta_micros" json:"time_delta_micros"`
	InsertedAt      time.Time `gorm:"column:inserted_at;type:DateTime;default:now()" json:"inserted_at"`
}

func (Block) TableName() string {
	return "block"
}

func (Block) TableOptions() string {
	return "ENGINE = ReplacingMergeTree(inserted_at) ORDER BY (symbol, block_end_time)"
}
