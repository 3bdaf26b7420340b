package orderflow

import "github.com/shopspring/decimal"

// priceScale is the number of decimal places kept when canonicalizing a
// price. Exchange feeds quote at most 8 decimals, so 8 pips losslessly
// represents every price the archives emit.
const priceScale = 8

// priceKey canonicalizes a price into integer pips. Grouping by the raw
// float64 would make level identity depend on binary rounding artifacts;
// going through decimal recovers the fixed-precision value the feed printed.
func priceKey(p float64) int64 {
	return decimal.NewFromFloat(p).Shift(priceScale).IntPart()
}

// keyPrice converts integer pips back to a price.
func keyPrice(k int64) float64 {
	f, _ := decimal.New(k, -priceScale).Float64()
	return f
}
