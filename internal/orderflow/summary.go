package orderflow

import (
	"github.com/tvminh/blockflow/internal/trade"
)

// Summary is the per-batch order-flow statistics record. Raw figures are
// computed over every execution; netted figures are computed over the
// residual per-level volumes after offsetting (see Net). The two answer
// different questions: BuyVWAP is the average price of all buy executions,
// NetBuyPrice is the average price of buy volume that was not offset by an
// opposing trade at the same price.
type Summary struct {
	// Volume-weighted averages over raw trades.
	BuyVWAP     float64 `json:"buy_vwap"`
	BuyVolume   float64 `json:"buy_volume"`
	SellVWAP    float64 `json:"sell_vwap"`
	SellVolume  float64 `json:"sell_volume"`
	VWAP        float64 `json:"vwap"`
	TotalVolume float64 `json:"total_volume"`

	// NetNotional is the signed quote-currency sum, buys positive.
	NetNotional float64 `json:"net_notional"`

	// Order-count-weighted averages over raw trades (arithmetic price
	// means, deliberately unweighted by volume).
	OrderPriceBuy  float64 `json:"order_price_buy"`
	OrderCountBuy  int     `json:"order_count_buy"`
	OrderPriceSell float64 `json:"order_price_sell"`
	OrderCountSell int     `json:"order_count_sell"`
	OrderPrice     float64 `json:"order_price"`
	NetOrderCount  int     `json:"net_order_count"`

	HighPrice float64 `json:"high_price"`
	LowPrice  float64 `json:"low_price"`

	// Figures over netted price levels. Zero with zero backing volume when
	// netting cancels everything — never "missing".
	NetBuyPrice   float64 `json:"net_buy_price"`
	NetBuyVolume  float64 `json:"net_buy_volume"`
	NetSellPrice  float64 `json:"net_sell_price"`
	NetSellVolume float64 `json:"net_sell_volume"`
	NetVolume     float64 `json:"net_volume"`
}

// Summarize computes the order-flow summary for a batch. Returns nil for an
// empty batch. Input is assumed validated at the ingestion boundary; order of
// trades is irrelevant.
func Summarize(trades []trade.Trade) *Summary {
	return SummarizeWithEpsilon(trades, DefaultEpsilon)
}

// SummarizeWithEpsilon is Summarize with a caller-chosen netting epsilon.
func SummarizeWithEpsilon(trades []trade.Trade, eps float64) *Summary {
	if len(trades) == 0 {
		return nil
	}

	s := &Summary{
		HighPrice: trades[0].Price,
		LowPrice:  trades[0].Price,
	}

	var (
		buyValue   float64
		sellValue  float64
		totalValue float64
		priceSum   float64
		buyPrices  float64
		sellPrices float64
	)

	for _, t := range trades {
		value := t.Price * t.Quantity
		totalValue += value
		s.TotalVolume += t.Quantity
		priceSum += t.Price
		s.NetNotional += t.Notional * t.Direction()

		if t.Side == trade.Buy {
			buyValue += value
			s.BuyVolume += t.Quantity
			s.OrderCountBuy++
			buyPrices += t.Price
		} else {
			sellValue += value
			s.SellVolume += t.Quantity
			s.OrderCountSell++
			sellPrices += t.Price
		}

		if t.Price > s.HighPrice {
			s.HighPrice = t.Price
		}
		if t.Price < s.LowPrice {
			s.LowPrice = t.Price
		}
	}

	if s.BuyVolume > 0 {
		s.BuyVWAP = buyValue / s.BuyVolume
	}
	if s.SellVolume > 0 {
		s.SellVWAP = sellValue / s.SellVolume
	}
	if s.TotalVolume > 0 {
		s.VWAP = totalValue / s.TotalVolume
	}
	if s.OrderCountBuy > 0 {
		s.OrderPriceBuy = buyPrices / float64(s.OrderCountBuy)
	}
	if s.OrderCountSell > 0 {
		s.OrderPriceSell = sellPrices / float64(s.OrderCountSell)
	}
	s.OrderPrice = priceSum / float64(len(trades))
	s.NetOrderCount = s.OrderCountBuy - s.OrderCountSell

	// Netted figures from residual per-level volumes. When netting cancels
	// every level the raw statistics above still stand and these stay zero.
	var netBuyValue, netSellValue float64
	for _, lvl := range NetWithEpsilon(trades, eps) {
		s.NetVolume += lvl.NetVolume
		if lvl.NetVolume > 0 {
			s.NetBuyVolume += lvl.NetVolume
			netBuyValue += lvl.Price * lvl.NetVolume
		} else {
			s.NetSellVolume += -lvl.NetVolume
			netSellValue += lvl.Price * -lvl.NetVolume
		}
	}
	if s.NetBuyVolume > 0 {
		s.NetBuyPrice = netBuyValue / s.NetBuyVolume
	}
	if s.NetSellVolume > 0 {
		s.NetSellPrice = netSellValue / s.NetSellVolume
	}

	return s
}
