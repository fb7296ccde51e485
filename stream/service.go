package stream

import (
	"context"
	"log"
	"time"

	"github.com/status-im/token-aggregator/aggregator"
	"github.com/status-im/token-aggregator/config"
)

// SourceName is the source label attached to payloads built from the
// live stream
const SourceName = "binance"

// Service maintains a live quote feed over WebSocket. When enabled it
// contributes a fresh price payload per watched symbol alongside the
// HTTP providers.
type Service struct {
	config config.StreamConfig
	// WebSocket client
	wsClient *WebSocketClient
	// Channel to signal service stop
	stopCh chan struct{}
	// Quotes manager
	quotes *QuotesManager
}

// NewService creates a stream service from configuration
func NewService(cfg config.StreamConfig) *Service {
	s := &Service{
		config: cfg,
		stopCh: make(chan struct{}),
		quotes: NewQuotesManager(),
	}

	s.wsClient = NewWebSocketClient(cfg.WSURL, s.stopCh, s.quotes.UpdateQuotes)

	return s
}

// Enabled reports whether the live feed is configured to run
func (s *Service) Enabled() bool {
	return s.config.Enabled && s.config.WSURL != ""
}

// SetWatchList sets the list of base symbols to watch
func (s *Service) SetWatchList(baseSymbols []string) {
	s.quotes.SetWatchList(baseSymbols, s.config.QuoteCurrency)
}

// Watch adds one base symbol to the watch list
func (s *Service) Watch(baseSymbol string) {
	s.quotes.Watch(baseSymbol, s.config.QuoteCurrency)
}

// GetLatestQuotes returns the latest quotes keyed by base symbol
func (s *Service) GetLatestQuotes() map[string]Quote {
	return s.quotes.GetLatestQuotes()
}

// Payload builds a provider-shaped payload from the latest quote for a
// symbol, suitable for fusion with HTTP provider responses
func (s *Service) Payload(baseSymbol string) (aggregator.RawPayload, bool) {
	quote, ok := s.quotes.QuoteFor(baseSymbol)
	if !ok {
		return nil, false
	}

	return aggregator.RawPayload{
		"price_usd":          quote.Price,
		"volume_24h":         quote.Volume24h,
		"percent_change_24h": quote.PercentChange24h,
		"last_updated":       quote.UpdatedAt.Format(time.RFC3339),
	}, true
}

// Start connects to the stream and launches the message loop
func (s *Service) Start(ctx context.Context) error {
	if !s.Enabled() {
		log.Printf("Stream: disabled, skipping")
		return nil
	}

	if err := s.wsClient.Connect(); err != nil {
		return err
	}

	s.wsClient.SetupPingPong()

	go s.wsClient.StartMessageLoop(ctx, func() {
		s.reconnect()
	})

	return nil
}

func (s *Service) reconnect() {
	s.wsClient.Close()

	if err := s.wsClient.Connect(); err != nil {
		log.Printf("Stream: failed to reconnect: %v", err)
		return
	}

	s.wsClient.SetupPingPong()
}

// Stop terminates the message loop and closes the connection
func (s *Service) Stop() {
	close(s.stopCh)
	s.wsClient.Close()
}
