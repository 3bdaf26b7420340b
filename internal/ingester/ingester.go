// Package ingester provides Kafka-to-ClickHouse ingestion of aggregated
// blocks. Offsets are committed only after a successful insert, so delivery
// is at-least-once and the ReplacingMergeTree tables absorb the duplicates.
package ingester

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tvminh/blockflow/internal/publisher"
	"github.com/tvminh/blockflow/internal/storage"
	"github.com/tvminh/blockflow/internal/storage/models"
)

type Config struct {
	BatchSize    int
	BatchTimeout time.Duration
}

type Ingester struct {
	reader  *kafka.Reader
	storage storage.Storage
	logger  *slog.Logger
	cfg     Config
}

// It receives the tools it needs, it doesn't create them.
func NewIngester(reader *kafka.Reader, storage storage.Storage, logger *slog.Logger, cfg Config) *Ingester {
	return &Ingester{
		reader:  reader,
		storage: storage,
		logger:  logger,
		cfg:     cfg,
	}
}

// Start is a blocking function that runs the main loop
func (ig *Ingester) Start(ctx context.Context) error {
	ig.logger.Info("Starting Ingester Loop", "batch_size", ig.cfg.BatchSize)

	// Buffers are reused across flushes to reduce GC pressure.
	batchBlocks := make([]*models.Block, 0, ig.cfg.BatchSize)
	batchMsgs := make([]kafka.Message, 0, ig.cfg.BatchSize)

	ticker := time.NewTicker(ig.cfg.BatchTimeout)
	defer ticker.Stop()

	flush := func() error {
		if len(batchBlocks) == 0 {
			return nil
		}

		// Retry loop: we never drop data, we retry until the DB accepts it.
		for {
			if err := ig.storage.CreateBlocks(ctx, batchBlocks); err != nil {
				ig.logger.Error("DB insert failed (retrying in 2s)", "error", err, "count", len(batchBlocks))

				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(2 * time.Second):
					continue
				}
			}
			break
		}

		// Commit Kafka offsets AFTER DB insert
		if err := ig.reader.CommitMessages(ctx, batchMsgs...); err != nil {
			ig.logger.Warn("Failed to commit offsets", "error", err)
		}

		ig.logger.Debug("Flushed blocks", "count", len(batchBlocks))
		batchBlocks = batchBlocks[:0]
		batchMsgs = batchMsgs[:0]
		ticker.Reset(ig.cfg.BatchTimeout)
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return flush() // Try to flush one last time on shutdown

		case <-ticker.C:
			if err := flush(); err != nil {
				return err
			}

		default:
			// Fetch with short timeout so we can check ticker/ctx often
			fetchCtx, cancel := context.WithTimeout(ctx, ig.cfg.BatchTimeout)
			m, err := ig.reader.FetchMessage(fetchCtx)
			cancel()

			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					continue
				}
				if errors.Is(err, context.Canceled) {
					return flush()
				}
				ig.logger.Error("Kafka fetch error", "error", err)
				select {
				case <-ctx.Done():
					return flush()
				case <-time.After(time.Second):
				}
				continue
			}

			blocks, err := ig.parseMessage(m)
			if err != nil {
				rawPreview := string(m.Value)
				if len(rawPreview) > 200 {
					rawPreview = rawPreview[:200]
				}
				ig.logger.Warn("Dropping unparseable message", "error", err, "raw", rawPreview)
				continue
			}

			batchBlocks = append(batchBlocks, blocks...)
			batchMsgs = append(batchMsgs, m)

			if len(batchBlocks) >= ig.cfg.BatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
}

// parseMessage unifies single and array payload handling.
func (ig *Ingester) parseMessage(msg kafka.Message) ([]*models.Block, error) {
	decoded, err := publisher.DecodeBlockMessages(msg.Value)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Block, 0, len(decoded))
	for _, item := range decoded {
		b, err := transform(item)
		if err != nil {
			ig.logger.Warn("Block validation failed", "error", err, "symbol", item.Symbol)
			continue
		}
		result = append(result, b)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no valid blocks found")
	}
	return result, nil
}

// transform converts a wire message to a database row.
func transform(m publisher.BlockMessage) (*models.Block, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &models.Block{
		Symbol:          m.Symbol,
		Market:          m.Market,
		Side:            m.Side,
		Price:           m.Price,
		PriceDelta:      m.PriceDelta,
		Volume:          m.Volume,
		TradeCount:      uint32(m.TradeCount),
		BlockEndTime:    time.UnixMicro(m.EndTime).UTC(),
		TimeDeltaMicros: m.TimeDeltaMicros,
		InsertedAt:      time.Now(),
	}, nil
}
