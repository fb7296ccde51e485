package conflict

// defaultReliabilityWeight is applied to sources absent from the table
const defaultReliabilityWeight = 0.5

// defaultSourceWeights is the static trust table, tiered roughly from
// oracle feeds and flagship exchanges (1.0) down to social-derived
// sources (0.5). Configuration data, adjustable without touching
// resolver logic; per-provider reliability from config overrides it.
var defaultSourceWeights = map[string]float64{
	"chainlink":     1.0,
	"binance":       0.95,
	"coingecko":     0.95,
	"etherscan":     0.95,
	"coinmarketcap": 0.9,
	"goplus":        0.9,
	"kraken":        0.9,
	"defillama":     0.85,
	"messari":       0.85,
	"dexscreener":   0.8,
	"coinpaprika":   0.75,
	"cryptocompare": 0.75,
	"santiment":     0.65,
	"lunarcrush":    0.6,
	"twitter":       0.5,
	"reddit":        0.5,
}

// sourcePriorityOrder is the fixed ordering used by the source_priority
// strategy: oracle feeds before aggregator APIs before social data
var sourcePriorityOrder = []string{
	"chainlink",
	"binance",
	"etherscan",
	"coingecko",
	"coinmarketcap",
	"goplus",
	"defillama",
	"messari",
	"coinpaprika",
	"lunarcrush",
}
