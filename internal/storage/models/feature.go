package models

import "time"

// Feature is one standardized block feature vector, stored alongside the
// scaler parameters that produced it so any row can be mapped back to raw
// block space.
type Feature struct {
	Symbol       string    `json:"symbol"`
	Market       string    `json:"market"`
	BlockEndTime time.Time `json:"block_end_time"`

	// Vector is the standardized feature vector:
	// [price_delta, volume, time_delta_seconds, is_buy].
	Vector []float64 `json:"vector"`

	// ScalerMean and ScalerScale are the fit parameters of the batch the
	// vector was standardized with.
	ScalerMean  []float64 `json:"scaler_mean"`
	ScalerScale []float64 `json:"scaler_scale"`

	InsertedAt time.Time `json:"inserted_at"`
}
