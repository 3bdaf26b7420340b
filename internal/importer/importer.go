// Package importer drives the historical backfill: it downloads trade
// archives, aggregates them into blocks, computes order-flow summaries and
// feature vectors, and persists everything.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tvminh/blockflow/internal/block"
	"github.com/tvminh/blockflow/internal/feature"
	"github.com/tvminh/blockflow/internal/orderflow"
	"github.com/tvminh/blockflow/internal/storage"
	"github.com/tvminh/blockflow/internal/storage/models"
	"github.com/tvminh/blockflow/internal/trade"
	"github.com/tvminh/blockflow/internal/vision"
)

// Config holds the backfill settings.
type Config struct {
	Symbols []string
	Market  vision.MarketType

	// Monthly selects monthly archives instead of daily ones.
	Monthly bool

	// Epsilon is the netting threshold for summaries; zero means the
	// default.
	Epsilon float64
}

// Importer runs archive imports sequentially per symbol. Block TimeDelta
// stays continuous across consecutive archives of the same symbol because
// the previous archive's last block end time is carried forward.
type Importer struct {
	client  *vision.Client
	storage storage.Storage
	logger  *slog.Logger
	cfg     Config

	mu       sync.Mutex
	prevEnds map[string]int64
}

func NewImporter(client *vision.Client, storage storage.Storage, logger *slog.Logger, cfg Config) *Importer {
	if cfg.Epsilon == 0 {
		cfg.Epsilon = orderflow.DefaultEpsilon
	}
	return &Importer{
		client:   client,
		storage:  storage,
		logger:   logger,
		cfg:      cfg,
		prevEnds: make(map[string]int64),
	}
}

// Import processes one archive for one symbol: download, aggregate,
// summarize, standardize, persist.
func (im *Importer) Import(ctx context.Context, symbol string, date time.Time) error {
	im.logger.Info("Importing archive", "symbol", symbol, "market", im.cfg.Market, "date", date.Format("2006-01-02"))

	zipPath, err := im.client.DownloadTrades(ctx, symbol, im.cfg.Market, date, im.cfg.Monthly)
	if err != nil {
		return fmt.Errorf("download failed for %s: %w", symbol, err)
	}
	csvPath, err := vision.ExtractCSV(zipPath)
	if err != nil {
		return fmt.Errorf("extract failed for %s: %w", symbol, err)
	}

	trades, err := vision.ReadTradesFile(csvPath, im.cfg.Market)
	if err != nil {
		return fmt.Errorf("read failed for %s: %w", symbol, err)
	}
	if len(trades) == 0 {
		im.logger.Warn("Archive is empty", "symbol", symbol, "date", date.Format("2006-01-02"))
		return nil
	}

	agg := block.NewAggregator()
	agg.SkipOrderCheck = true // ReadTradesFile already sorted the batch
	im.mu.Lock()
	if prev, ok := im.prevEnds[symbol]; ok {
		agg.SetPrevEnd(prev)
	}
	im.mu.Unlock()

	blocks := make([]block.Block, 0, len(trades)/4+1)
	for _, t := range trades {
		b, ok, err := agg.Push(t)
		if err != nil {
			return err
		}
		if ok {
			blocks = append(blocks, b)
		}
	}
	if b, ok := agg.Flush(); ok {
		blocks = append(blocks, b)
	}
	im.mu.Lock()
	im.prevEnds[symbol] = blocks[len(blocks)-1].EndTime
	im.mu.Unlock()

	summary := orderflow.SummarizeWithEpsilon(trades, im.cfg.Epsilon)

	scaler, err := feature.FitScaler(rawVectors(blocks))
	if err != nil {
		return err
	}

	market := string(im.cfg.Market)
	if err := im.storage.CreateBlocks(ctx, blockRows(symbol, market, blocks)); err != nil {
		return fmt.Errorf("failed to store blocks: %w", err)
	}
	if err := im.storage.CreateSummaries(ctx, []*models.Summary{
		summaryRow(symbol, market, trades, summary),
	}); err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}
	if err := im.storage.CreateFeatures(ctx, featureRows(symbol, market, blocks, scaler)); err != nil {
		return fmt.Errorf("failed to store features: %w", err)
	}

	im.logger.Info("Imported archive",
		"symbol", symbol,
		"trades", len(trades),
		"blocks", len(blocks),
	)
	return nil
}

// ImportRange walks dates from first to last inclusive. Symbols run
// concurrently; within one symbol archives go oldest first so TimeDelta
// carries forward correctly. The first failure cancels the other workers
// between archives.
func (im *Importer) ImportRange(ctx context.Context, first, last time.Time) error {
	step := func(d time.Time) time.Time { return d.AddDate(0, 0, 1) }
	if im.cfg.Monthly {
		step = func(d time.Time) time.Time { return d.AddDate(0, 1, 0) }
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(im.cfg.Symbols))

	for _, symbol := range im.cfg.Symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			for date := first; !date.After(last); date = step(date) {
				if ctx.Err() != nil {
					return
				}
				if err := im.Import(ctx, symbol, date); err != nil {
					errCh <- err
					cancel()
					return
				}
			}
		}(symbol)
	}

	wg.Wait()
	close(errCh)
	return <-errCh
}

func rawVectors(blocks []block.Block) []feature.Vector {
	vectors := make([]feature.Vector, len(blocks))
	for i, b := range blocks {
		vectors[i] = feature.FromBlock(b)
	}
	return vectors
}

func blockRows(symbol, market string, blocks []block.Block) []*models.Block {
	rows := make([]*models.Block, len(blocks))
	for i, b := range blocks {
		rows[i] = &models.Block{
			Symbol:          symbol,
			Market:          market,
			Side:            b.Side.String(),
			Price:           b.Price,
			PriceDelta:      b.PriceDelta,
			Volume:          b.Volume,
			TradeCount:      uint32(b.TradeCount),
			BlockEndTime:    time.UnixMicro(b.EndTime).UTC(),
			TimeDeltaMicros: b.TimeDelta,
		}
	}
	return rows
}

func summaryRow(symbol, market string, trades []trade.Trade, s *orderflow.Summary) *models.Summary {
	return &models.Summary{
		Symbol:        symbol,
		Market:        market,
		WindowStart:   trades[0].Time(),
		WindowEnd:     trades[len(trades)-1].Time(),
		BuyPrice:      s.BuyVWAP,
		BuyVolume:     s.BuyVolume,
		SellPrice:     s.SellVWAP,
		SellVolume:    s.SellVolume,
		Price:         s.VWAP,
		Volume:        s.TotalVolume,
		NetNotional:   s.NetNotional,
		OrderPrice:    s.OrderPrice,
		NetOrderCount: int64(s.NetOrderCount),
		NetBuyPrice:   s.NetBuyPrice,
		NetBuyVolume:  s.NetBuyVolume,
		NetSellPrice:  s.NetSellPrice,
		NetSellVolume: s.NetSellVolume,
		NetVolume:     s.NetVolume,
		HighPrice:     s.HighPrice,
		LowPrice:      s.LowPrice,
	}
}

func featureRows(symbol, market string, blocks []block.Block, scaler *feature.Scaler) []*models.Feature {
	mean := scaler.Mean[:]
	scale := scaler.Scale[:]

	rows := make([]*models.Feature, len(blocks))
	for i, b := range blocks {
		v := scaler.Transform(feature.FromBlock(b))
		rows[i] = &models.Feature{
			Symbol:       symbol,
			Market:       market,
			BlockEndTime: time.UnixMicro(b.EndTime).UTC(),
			Vector:       append([]float64(nil), v[:]...),
			ScalerMean:   append([]float64(nil), mean...),
			ScalerScale:  append([]float64(nil), scale...),
		}
	}
	return rows
}
