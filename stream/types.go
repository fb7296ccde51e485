package stream

import (
	"encoding/json"
	"time"
)

// Ticker is a live ticker message from the exchange stream
type Ticker struct {
	EventType          string      `json:"e"` // Event type
	EventTime          int64       `json:"E"` // Event time
	Symbol             string      `json:"s"` // Symbol
	PriceChangePercent json.Number `json:"P"` // Price change percent
	LastPrice          json.Number `json:"c"` // Last price
	Volume24h          json.Number `json:"v"` // Total traded base asset volume
}

// Quote is the latest observed state for one watched symbol
type Quote struct {
	Price            float64   `json:"price"`
	Volume24h        float64   `json:"volume_24h"`
	PercentChange24h float64   `json:"percent_change_24h"`
	UpdatedAt        time.Time `json:"updated_at"`
}
