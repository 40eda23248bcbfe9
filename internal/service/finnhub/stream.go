package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"TradeFlow/internal/domain/models"
	"TradeFlow/internal/domain/repository"
	applogger "TradeFlow/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// Stream maintains a Finnhub WebSocket subscription and keeps the last
// observed trade per symbol. It reconnects with exponential backoff
// until its context is cancelled.
type Stream struct {
	apiKey       string
	websocketURL string
	symbols      []string
	pingInterval time.Duration
	log          *applogger.Logger
	metrics      repository.Metrics

	mu     sync.RWMutex
	quotes map[string]models.Quote

	cancel context.CancelFunc
	done   chan struct{}
}

// NewStream creates a live quote stream.
func NewStream(apiKey, websocketURL string, symbols []string, pingInterval time.Duration, log *applogger.Logger, metrics repository.Metrics) *Stream {
	return &Stream{
		apiKey:       apiKey,
		websocketURL: websocketURL,
		symbols:      symbols,
		pingInterval: pingInterval,
		log:          log,
		metrics:      metrics,
		quotes:       make(map[string]models.Quote),
	}
}

// LatestQuote returns the most recent streamed trade for symbol.
func (s *Stream) LatestQuote(symbol string) (models.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[symbol]
	return q, ok
}

// Start launches the stream loop in the background.
func (s *Stream) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		s.run(ctx)
	}()
}

// Stop cancels the stream loop and waits for it to exit.
func (s *Stream) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
}

func (s *Stream) run(ctx context.Context) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0 // retry forever

	op := func() error {
		if err := s.connectAndRead(ctx); err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			s.metrics.RecordProviderError("finnhub")
			s.log.Warn("stream disconnected, retrying", applogger.Error(err))
			return err
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil && ctx.Err() == nil {
		s.log.Error("stream stopped", applogger.Error(err))
	}
}

type tradeFrame struct {
	Type string `json:"type"`
	Data []struct {
		S string  `json:"s"`
		P float64 `json:"p"`
		V float64 `json:"v"`
		T int64   `json:"t"` // ms
	} `json:"data"`
}

func (s *Stream) connectAndRead(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", s.websocketURL, s.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	// DialContext only bounds the handshake. Close the connection on
	// cancel so a blocked ReadMessage returns and the loop can exit.
	watch := make(chan struct{})
	defer close(watch)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-watch:
		}
	}()

	for _, sym := range s.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": sym}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
	}
	s.log.Info("stream connected", applogger.Strings("symbols", s.symbols))

	// ping loop
	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pingCtx.Done():
				return
			case <-ticker.C:
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		var frame tradeFrame
		if err := json.Unmarshal(b, &frame); err != nil {
			continue // non-trade frame
		}
		if frame.Type != "trade" {
			continue
		}

		s.mu.Lock()
		for _, t := range frame.Data {
			s.quotes[t.S] = models.Quote{
				Symbol:    t.S,
				Price:     t.P,
				Volume:    t.V,
				Timestamp: t.T / 1000,
			}
		}
		s.mu.Unlock()
	}
}
