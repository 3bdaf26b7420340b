// Package stream consumes live trade streams over WebSocket, runs them
// through the block aggregator and publishes closed blocks to Kafka. It is
// the real-time counterpart of the archive importer.
package stream

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	MaxSubsPerConnection = 20

	// WebSocket connection timeouts and intervals
	InitialReconnectDelay = 1 * time.Second
	MaxReconnectDelay     = 30 * time.Second
	HandshakeTimeout      = 5 * time.Second
	ReadTimeout           = 60 * time.Second
	WriteTimeout          = 10 * time.Second
	PingInterval          = 30 * time.Second
	PongTimeout           = 10 * time.Second

	// Connection health
	MaxConsecutiveErrors = 5
	HealthCheckInterval  = 5 * time.Second
)

func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

// WebSocketConfig holds WebSocket-specific configuration
type WebSocketConfig struct {
	URL              string
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	PingInterval     time.Duration
	PongTimeout      time.Duration
}

// DefaultWebSocketConfig returns a default WebSocket configuration
func DefaultWebSocketConfig(wsURL string) *WebSocketConfig {
	return &WebSocketConfig{
		URL:              wsURL,
		HandshakeTimeout: HandshakeTimeout,
		ReadTimeout:      ReadTimeout,
		WriteTimeout:     WriteTimeout,
		PingInterval:     PingInterval,
		PongTimeout:      PongTimeout,
	}
}

// Worker owns one WebSocket connection with reconnect, ping/pong keepalive
// and health checking. Every received frame is handed to OnMessage.
type Worker struct {
	Config    *WebSocketConfig
	Logger    *logrus.Logger
	OnMessage func([]byte) error
	OnConnect func(*websocket.Conn) error // Optional connection setup
}

func NewWorker(config *WebSocketConfig, logger *logrus.Logger, onMessage func([]byte) error) *Worker {
	return &Worker{
		Config:    config,
		Logger:    logger,
		OnMessage: onMessage,
	}
}

// Run keeps the connection alive until the context is cancelled, with
// exponential backoff between reconnect attempts.
func (w *Worker) Run(ctx context.Context, workerID string, wg *sync.WaitGroup) {
	defer wg.Done()

	w.Logger.Infof("[%s] Starting", workerID)

	reconnectDelay := InitialReconnectDelay
	consecutiveErrors := 0

	for {
		select {
		case <-ctx.Done():
			w.Logger.Infof("[%s] Shutting down due to context cancellation", workerID)
			return
		default:
			if err := w.handleConnection(ctx, workerID); err != nil {
				consecutiveErrors++
				w.Logger.Errorf("[%s] WebSocket error (%d/%d): %v. Reconnecting in %v...",
					workerID, consecutiveErrors, MaxConsecutiveErrors, err, reconnectDelay)

				// Exponential backoff with max limit
				if reconnectDelay < MaxReconnectDelay {
					reconnectDelay *= 2
					if reconnectDelay > MaxReconnectDelay {
						reconnectDelay = MaxReconnectDelay
					}
				}

				if consecutiveErrors >= MaxConsecutiveErrors {
					w.Logger.Warnf("[%s] Too many consecutive errors, extending delay", workerID)
					reconnectDelay = MaxReconnectDelay
				}

				select {
				case <-ctx.Done():
					return
				case <-time.After(reconnectDelay):
					continue
				}
			} else {
				consecutiveErrors = 0
				reconnectDelay = InitialReconnectDelay
			}
		}
	}
}

// handleConnection manages a single WebSocket connection lifecycle
func (w *Worker) handleConnection(ctx context.Context, workerID string) error {
	u, err := url.Parse(w.Config.URL)
	if err != nil {
		return fmt.Errorf("invalid WebSocket URL: %w", err)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: w.Config.HandshakeTimeout,
	}

	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to WebSocket: %w", err)
	}
	defer conn.Close()

	w.Logger.Infof("[%s] Connected to WebSocket", workerID)

	connCtx, connCancel := context.WithCancel(ctx)
	defer connCancel()

	if w.OnConnect != nil {
		if err := w.OnConnect(conn); err != nil {
			return fmt.Errorf("failed to execute OnConnect: %w", err)
		}
	}

	// Setup ping/pong handlers
	pongReceived := make(chan bool, 1)
	lastPongTime := time.Now()

	conn.SetPongHandler(func(string) error {
		select {
		case pongReceived <- true:
		default:
		}
		lastPongTime = time.Now()
		return nil
	})

	conn.SetPingHandler(func(message string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(w.Config.WriteTimeout))
		if err != nil {
			w.Logger.Errorf("[%s] Failed to send pong: %v", workerID, err)
		}
		return err
	})

	pingTicker := time.NewTicker(w.Config.PingInterval)
	defer pingTicker.Stop()

	healthTicker := time.NewTicker(HealthCheckInterval)
	defer healthTicker.Stop()

	readErrors := make(chan error, 1)
	messages := make(chan []byte, 100)

	// Start message reader
	go func() {
		defer close(messages)
		defer close(readErrors)

		for {
			select {
			case <-connCtx.Done():
				return
			default:
				conn.SetReadDeadline(time.Now().Add(w.Config.ReadTimeout))
				_, message, err := conn.ReadMessage()
				if err != nil {
					select {
					case readErrors <- err:
					case <-connCtx.Done():
					}
					return
				}

				select {
				case messages <- message:
				case <-connCtx.Done():
					return
				}
			}
		}
	}()

	// Main event loop
	for {
		select {
		case <-ctx.Done():
			w.Logger.Infof("[%s] Context cancelled, closing connection", workerID)
			return nil

		case err := <-readErrors:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				return fmt.Errorf("WebSocket read error: %w", err)
			}
			if err != nil {
				return fmt.Errorf("connection error: %w", err)
			}

		case message := <-messages:
			if err := w.OnMessage(message); err != nil {
				w.Logger.Errorf("[%s] Failed to handle message: %v", workerID, err)
			}

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(w.Config.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return fmt.Errorf("failed to send ping: %w", err)
			}

			go func() {
				select {
				case <-pongReceived:
					// Pong received
				case <-time.After(w.Config.PongTimeout):
					w.Logger.Warnf("[%s] Pong timeout, connection may be unhealthy", workerID)
				case <-connCtx.Done():
					return
				}
			}()

		case <-healthTicker.C:
			timeSinceLastPong := time.Since(lastPongTime)
			if timeSinceLastPong > (w.Config.PingInterval + w.Config.PongTimeout) {
				return fmt.Errorf("connection appears unhealthy, last pong was %v ago", timeSinceLastPong)
			}
		}
	}
}

// ChunkMarkets splits a symbol list into connection-sized chunks.
// ["BTCUSDT", "ETHUSDT", ...] -> [["BTCUSDT", "ETHUSDT"], ...]
func ChunkMarkets(markets []string, chunkSize int) [][]string {
	var chunks [][]string
	for i := 0; i < len(markets); i += chunkSize {
		end := i + chunkSize
		if end > len(markets) {
			end = len(markets)
		}
		chunks = append(chunks, markets[i:end])
	}
	return chunks
}

func normalizeSymbols(symbols []string) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
