// Package storage provides database storage implementations for aggregated
// block data.
package storage

import (
	"context"
	"time"

	"github.com/tvminh/blockflow/internal/storage/models"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Storage defines the interface for persisting blocks, order-flow summaries
// and feature vectors. Implementations must be safe for concurrent use.
type Storage interface {
	// CreateBlocks inserts a batch of aggregated blocks.
	CreateBlocks(ctx context.Context, blocks []*models.Block) error

	// CreateSummaries inserts a batch of order-flow summary rows.
	CreateSummaries(ctx context.Context, summaries []*models.Summary) error

	// CreateFeatures inserts a batch of standardized feature vectors.
	CreateFeatures(ctx context.Context, features []*models.Feature) error

	// Close releases database connection resources.
	Close() error
}

// clickhouseStorage implements Storage using the native ClickHouse driver.
// Uses batch inserts for high-throughput data ingestion.
type clickhouseStorage struct {
	conn driver.Conn
}

// NewClickHouseStorage creates a new ClickHouse storage connection.
// It parses the DSN, opens a connection, and verifies connectivity with a
// ping. Returns an error if connection cannot be established within 5
// seconds.
func NewClickHouseStorage(dsn string) (Storage, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		return nil, err
	}

	return &clickhouseStorage{conn: conn}, nil
}

// CreateBlocks inserts blocks using ClickHouse batch insert.
// All rows in the batch share the same inserted_at timestamp, which doubles
// as the ReplacingMergeTree version column so re-imports win.
func (s *clickhouseStorage) CreateBlocks(ctx context.Context, blocks []*models.Block) error {
	if len(blocks) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO block (
			symbol, market, side,
			price, price_delta, volume, trade_count,
			block_end_time, time_delta_micros, inserted_at
		)
	`)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, b := range blocks {
		err := batch.Append(
			b.Symbol,
			b.Market,
			b.Side,
			b.Price,
			b.PriceDelta,
			b.Volume,
			b.TradeCount,
			b.BlockEndTime,
			b.TimeDeltaMicros,
			now,
		)
		if err != nil {
			return err
		}
	}

	return batch.Send()
}

// CreateSummaries inserts order-flow summary rows using batch insert.
func (s *clickhouseStorage) CreateSummaries(ctx context.Context, summaries []*models.Summary) error {
	if len(summaries) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO orderflow_summary (
			symbol, market, window_start, window_end,
			buy_price, buy_volume, sell_price, sell_volume, price, volume,
			net_notional, order_price, net_order_count,
			net_buy_price, net_buy_volume, net_sell_price, net_sell_volume, net_volume,
			high_price, low_price, inserted_at
		)
	`)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, sm := range summaries {
		err := batch.Append(
			sm.Symbol,
			sm.Market,
			sm.WindowStart,
			sm.WindowEnd,
			sm.BuyPrice,
			sm.BuyVolume,
			sm.SellPrice,
			sm.SellVolume,
			sm.Price,
			sm.Volume,
			sm.NetNotional,
			sm.OrderPrice,
			sm.NetOrderCount,
			sm.NetBuyPrice,
			sm.NetBuyVolume,
			sm.NetSellPrice,
			sm.NetSellVolume,
			sm.NetVolume,
			sm.HighPrice,
			sm.LowPrice,
			now,
		)
		if err != nil {
			return err
		}
	}

	return batch.Send()
}

// CreateFeatures inserts feature vectors using batch insert.
func (s *clickhouseStorage) CreateFeatures(ctx context.Context, features []*models.Feature) error {
	if len(features) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO block_feature (
			symbol, market, block_end_time,
			vector, scaler_mean, scaler_scale, inserted_at
		)
	`)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, f := range features {
		err := batch.Append(
			f.Symbol,
			f.Market,
			f.BlockEndTime,
			f.Vector,
			f.ScalerMean,
			f.ScalerScale,
			now,
		)
		if err != nil {
			return err
		}
	}

	return batch.Send()
}

// Close closes the ClickHouse connection.
func (s *clickhouseStorage) Close() error {
	return s.conn.Close()
}
