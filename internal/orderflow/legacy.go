package orderflow

import "math"

// PriceVolume is a (price, signed volume) pair: positive volume for buys,
// negative for sells.
type PriceVolume struct {
	Price  float64
	Volume float64
}

// NetAverage collapses a batch of signed price/volume pairs into a single
// spread-adjusted price and net volume.
//
// The interpolation of the final price between the two sides' averages,
// weighted by the ratio of the net imbalance to the dominant side's gross
// volume, reproduces a long-standing reference formula branch for branch.
// Its behavior for asymmetric net volumes is validated against captured
// reference outputs (see legacy_test.go); do not "fix" it here without
// re-capturing those outputs.
//
// ok is false when the input is empty or every level nets to exactly zero.
func NetAverage(pairs []PriceVolume) (price, volume float64, ok bool) {
	if len(pairs) == 0 {
		return 0, 0, false
	}

	// Offset volume at identical price levels. Unlike Net, exact zero is
	// the cancellation criterion here, not an epsilon.
	levels := make(map[int64]float64, len(pairs))
	for _, pv := range pairs {
		levels[priceKey(pv.Price)] += pv.Volume
	}

	var (
		buyVolume  float64
		buyValue   float64
		sellVolume float64
		sellValue  float64
	)
	for k, v := range levels {
		p := keyPrice(k)
		if v > 0 {
			buyVolume += v
			buyValue += p * v
		} else if v < 0 {
			sellVolume += -v
			sellValue += p * -v
		}
	}

	if buyVolume == 0 && sellVolume == 0 {
		return 0, 0, false
	}

	var avgBuy float64
	if buyVolume > 0 && buyValue > 0 {
		avgBuy = buyValue / buyVolume
	}
	var avgSell float64
	if sellVolume > 0 && sellValue > 0 {
		avgSell = sellValue / sellVolume
	}

	if buyVolume == 0 {
		return avgSell, -sellVolume, true
	}
	if sellVolume == 0 {
		return avgBuy, buyVolume, true
	}

	net := buyVolume - sellVolume
	if net == 0 {
		return (avgBuy + avgSell) / 2, 0, true
	}

	diff := math.Abs(avgSell - avgBuy)
	if diff == 0 {
		return avgBuy, net, true
	}

	// Imbalance expressed in price units against the dominant side's
	// opposing gross volume.
	var grossOpposing, base float64
	if net < 0 {
		grossOpposing = buyVolume
		base = avgBuy
	} else {
		grossOpposing = sellVolume
		base = avgSell
	}
	adjust := net / (grossOpposing / diff)

	return base + adjust, net, true
}
