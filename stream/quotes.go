package stream

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// QuotesManager holds the latest quote per watched symbol
type QuotesManager struct {
	mu sync.RWMutex
	// Map of full symbol to quote (e.g. "ETHUSDT" -> Quote)
	quotes map[string]Quote
	// Map of full symbol to base symbol (e.g. "ETHUSDT" -> "ETH")
	baseSymbols map[string]string

	now func() time.Time
}

// NewQuotesManager creates an empty quotes manager
func NewQuotesManager() *QuotesManager {
	return &QuotesManager{
		quotes:      make(map[string]Quote),
		baseSymbols: make(map[string]string),
		now:         time.Now,
	}
}

// SetWatchList replaces the set of watched base symbols. Quotes for
// previously watched symbols are dropped.
func (qm *QuotesManager) SetWatchList(baseSymbols []string, quoteSymbol string) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	qm.quotes = make(map[string]Quote)
	qm.baseSymbols = make(map[string]string)

	for _, baseSymbol := range baseSymbols {
		fullSymbol := baseSymbol + quoteSymbol
		qm.baseSymbols[fullSymbol] = baseSymbol
	}
}

// Watch adds one base symbol without disturbing existing quotes
func (qm *QuotesManager) Watch(baseSymbol, quoteSymbol string) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	qm.baseSymbols[baseSymbol+quoteSymbol] = baseSymbol
}

// GetLatestQuotes returns the latest quotes keyed by base symbol
func (qm *QuotesManager) GetLatestQuotes() map[string]Quote {
	qm.mu.RLock()
	defer qm.mu.RUnlock()

	quotesCopy := make(map[string]Quote)
	for fullSymbol, quote := range qm.quotes {
		if baseSymbol, ok := qm.baseSymbols[fullSymbol]; ok {
			quotesCopy[baseSymbol] = quote
		}
	}
	return quotesCopy
}

// QuoteFor returns the latest quote for one base symbol
func (qm *QuotesManager) QuoteFor(baseSymbol string) (Quote, bool) {
	qm.mu.RLock()
	defer qm.mu.RUnlock()

	for fullSymbol, base := range qm.baseSymbols {
		if base == baseSymbol {
			quote, ok := qm.quotes[fullSymbol]
			return quote, ok
		}
	}
	return Quote{}, false
}

// UpdateQuotes updates quotes from a stream message. Messages carry
// either a single ticker or an array of tickers.
func (qm *QuotesManager) UpdateQuotes(message []byte) error {
	var tickers []Ticker
	if err := json.Unmarshal(message, &tickers); err != nil {
		var ticker Ticker
		if err := json.Unmarshal(message, &ticker); err != nil {
			return fmt.Errorf("failed to unmarshal ticker message: %v", err)
		}
		tickers = []Ticker{ticker}
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()

	for i := range tickers {
		ticker := &tickers[i]
		if _, ok := qm.baseSymbols[ticker.Symbol]; !ok {
			continue
		}

		price, err := ticker.LastPrice.Float64()
		if err != nil {
			return fmt.Errorf("failed to parse price for %s: %v", ticker.Symbol, err)
		}

		volume24h, err := ticker.Volume24h.Float64()
		if err != nil {
			return fmt.Errorf("failed to parse volume for %s: %v", ticker.Symbol, err)
		}

		percentChange24h, err := ticker.PriceChangePercent.Float64()
		if err != nil {
			return fmt.Errorf("failed to parse price change percent for %s: %v", ticker.Symbol, err)
		}

		qm.quotes[ticker.Symbol] = Quote{
			Price:            price,
			Volume24h:        volume24h,
			PercentChange24h: percentChange24h,
			UpdatedAt:        qm.now(),
		}
	}

	return nil
}
