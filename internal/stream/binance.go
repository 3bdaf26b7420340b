package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tvminh/blockflow/internal/block"
	"github.com/tvminh/blockflow/internal/publisher"
	"github.com/tvminh/blockflow/internal/trade"
)

const (
	SpotStreamURL    = "wss://stream.binance.com:9443/stream"
	FuturesStreamURL = "wss://fstream.binance.com/stream"
)

// combinedEvent is one frame from a combined stream endpoint.
type combinedEvent struct {
	Stream string     `json:"stream"`
	Data   tradeEvent `json:"data"`
}

// tradeEvent is the exchange trade payload. Price and quantity arrive as
// strings.
type tradeEvent struct {
	EventType    string `json:"e"`
	EventTime    int64  `json:"E"`
	Symbol       string `json:"s"`
	TradeID      int64  `json:"t"`
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	TradeTime    int64  `json:"T"`
	IsBuyerMaker bool   `json:"m"`
}

// parseTradeFrame decodes one combined-stream frame into the symbol and the
// normalized trade record. Stream trade times are milliseconds.
func parseTradeFrame(data []byte) (string, trade.Trade, error) {
	var ev combinedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return "", trade.Trade{}, fmt.Errorf("failed to decode stream frame: %w", err)
	}
	if ev.Data.EventType != "trade" {
		return "", trade.Trade{}, fmt.Errorf("unexpected event type %q", ev.Data.EventType)
	}

	price, err := strconv.ParseFloat(ev.Data.Price, 64)
	if err != nil {
		return "", trade.Trade{}, fmt.Errorf("%w: price %q", trade.ErrInvalidTrade, ev.Data.Price)
	}
	qty, err := strconv.ParseFloat(ev.Data.Quantity, 64)
	if err != nil {
		return "", trade.Trade{}, fmt.Errorf("%w: quantity %q", trade.ErrInvalidTrade, ev.Data.Quantity)
	}

	t := trade.Trade{
		ID:        ev.Data.TradeID,
		Price:     price,
		Quantity:  qty,
		Side:      trade.SideFromBuyerMaker(ev.Data.IsBuyerMaker),
		Timestamp: ev.Data.TradeTime * 1000,
	}.WithNotional()

	if err := t.Validate(); err != nil {
		return "", trade.Trade{}, err
	}
	return strings.ToUpper(ev.Data.Symbol), t, nil
}

// CombinedStreamURL builds the multiplexed subscription URL for a chunk of
// symbols.
func CombinedStreamURL(base string, symbols []string) string {
	streams := make([]string, len(symbols))
	for i, s := range normalizeSymbols(symbols) {
		streams[i] = s + "@trade"
	}
	return base + "?streams=" + strings.Join(streams, "/")
}

// Config holds the live stream settings.
type Config struct {
	Market  string // "spot" or "futures"
	Symbols []string
}

// Stream runs one aggregator per symbol over live trades and publishes every
// closed block.
type Stream struct {
	cfg    Config
	pub    *publisher.Publisher
	logger *logrus.Logger

	mu          sync.Mutex
	aggregators map[string]*block.Aggregator
}

func NewStream(cfg Config, pub *publisher.Publisher, logger *logrus.Logger) *Stream {
	return &Stream{
		cfg:         cfg,
		pub:         pub,
		logger:      logger,
		aggregators: make(map[string]*block.Aggregator),
	}
}

func (s *Stream) baseURL() string {
	if s.cfg.Market == "futures" {
		return FuturesStreamURL
	}
	return SpotStreamURL
}

// Run starts one worker per symbol chunk and blocks until the context is
// cancelled.
func (s *Stream) Run(ctx context.Context) error {
	if len(s.cfg.Symbols) == 0 {
		return fmt.Errorf("no symbols configured")
	}

	chunks := ChunkMarkets(s.cfg.Symbols, MaxSubsPerConnection)

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wsURL := CombinedStreamURL(s.baseURL(), chunk)
		worker := NewWorker(DefaultWebSocketConfig(wsURL), s.logger, s.handleFrame)

		wg.Add(1)
		workerID := fmt.Sprintf("%s-%d-%s", s.cfg.Market, i, chunk[0])
		go worker.Run(ctx, workerID, &wg)
	}

	wg.Wait()
	return nil
}

// handleFrame feeds one frame through the symbol's aggregator and publishes
// the block it may close. Live trades arrive in exchange order; the
// aggregator's own ordering check stays on to catch reconnect replays.
func (s *Stream) handleFrame(data []byte) error {
	symbol, t, err := parseTradeFrame(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	agg, ok := s.aggregators[symbol]
	if !ok {
		agg = block.NewAggregator()
		s.aggregators[symbol] = agg
	}
	closed, done, err := agg.Push(t)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warnf("[%s] Dropping out-of-order trade: %v", symbol, err)
		return nil
	}
	if !done {
		return nil
	}

	return s.pub.Publish(publisher.NewBlockMessage(symbol, s.cfg.Market, closed))
}
