package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tickerMessage(symbol, price, volume, change string) []byte {
	return []byte(`[{"e":"24hrTicker","s":"` + symbol + `","c":"` + price + `","v":"` + volume + `","P":"` + change + `"}]`)
}

func TestUpdateQuotesWatchedSymbol(t *testing.T) {
	qm := NewQuotesManager()
	qm.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	qm.SetWatchList([]string{"ETH"}, "USDT")

	err := qm.UpdateQuotes(tickerMessage("ETHUSDT", "2500.5", "1000", "-1.2"))
	require.NoError(t, err)

	quotes := qm.GetLatestQuotes()
	require.Contains(t, quotes, "ETH")
	assert.Equal(t, 2500.5, quotes["ETH"].Price)
	assert.Equal(t, 1000.0, quotes["ETH"].Volume24h)
	assert.Equal(t, -1.2, quotes["ETH"].PercentChange24h)
	assert.Equal(t, qm.now(), quotes["ETH"].UpdatedAt)
}

func TestUpdateQuotesIgnoresUnwatchedSymbols(t *testing.T) {
	qm := NewQuotesManager()
	qm.SetWatchList([]string{"ETH"}, "USDT")

	require.NoError(t, qm.UpdateQuotes(tickerMessage("BTCUSDT", "60000", "5", "0.5")))
	assert.Empty(t, qm.GetLatestQuotes())
}

func TestUpdateQuotesSingleTicker(t *testing.T) {
	qm := NewQuotesManager()
	qm.SetWatchList([]string{"SNT"}, "USDT")

	msg := []byte(`{"e":"24hrTicker","s":"SNTUSDT","c":"0.025","v":"9000","P":"3.1"}`)
	require.NoError(t, qm.UpdateQuotes(msg))

	quote, ok := qm.QuoteFor("SNT")
	require.True(t, ok)
	assert.Equal(t, 0.025, quote.Price)
}

func TestUpdateQuotesMalformedMessage(t *testing.T) {
	qm := NewQuotesManager()
	assert.Error(t, qm.UpdateQuotes([]byte(`not json`)))
}

func TestSetWatchListClearsQuotes(t *testing.T) {
	qm := NewQuotesManager()
	qm.SetWatchList([]string{"ETH"}, "USDT")
	require.NoError(t, qm.UpdateQuotes(tickerMessage("ETHUSDT", "2500", "1", "0")))

	qm.SetWatchList([]string{"BTC"}, "USDT")
	assert.Empty(t, qm.GetLatestQuotes())
}

func TestWatchAddsWithoutClearing(t *testing.T) {
	qm := NewQuotesManager()
	qm.SetWatchList([]string{"ETH"}, "USDT")
	require.NoError(t, qm.UpdateQuotes(tickerMessage("ETHUSDT", "2500", "1", "0")))

	qm.Watch("BTC", "USDT")
	require.NoError(t, qm.UpdateQuotes(tickerMessage("BTCUSDT", "60000", "2", "0")))

	quotes := qm.GetLatestQuotes()
	assert.Len(t, quotes, 2)
}
