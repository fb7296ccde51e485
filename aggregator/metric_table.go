package aggregator

import "github.com/status-im/token-aggregator/conflict"

// Metric categories used to bucket resolved metrics in the enrichment
// record
const (
	CategoryCore       = "core_metrics"
	CategoryTechnical  = "technical_indicators"
	CategorySocial     = "social_metrics"
	CategorySecurity   = "security_analysis"
	CategoryDeFi       = "defi_metrics"
	CategoryWhale      = "whale_activity"
	CategoryOther      = "other_metrics"
)

// MetricKind drives type coercion during extraction
type MetricKind int

const (
	KindNumeric MetricKind = iota
	KindBool
	KindCategorical
)

// MetricSpec declares how one metric is extracted and resolved. Aliases
// are ordered source-field paths (dot-separated for nested payloads);
// extraction stops at the first path that matches. New providers are
// additive configuration here, not new code paths.
type MetricSpec struct {
	Name     string
	Category string
	Kind     MetricKind
	Aliases  []string
	Strategy conflict.Strategy
}

// metricTable is the declarative extraction table. Strategy selection
// follows metric semantics: outlier-sensitive metrics use
// outlier_removal, volatile-but-summable ones weighted_average,
// indicator-like ones median, trust-sensitive ones highest_confidence
// or majority_vote.
var metricTable = []MetricSpec{
	// Core market metrics
	{
		Name: "price", Category: CategoryCore, Kind: KindNumeric,
		Aliases:  []string{"price", "current_price", "price_usd", "usd", "market_data.current_price.usd", "last_price", "quote.USD.price"},
		Strategy: conflict.StrategyOutlierRemoval,
	},
	{
		Name: "price_change_1h", Category: CategoryCore, Kind: KindNumeric,
		Aliases:  []string{"price_change_1h", "price_change_percentage_1h", "percent_change_1h", "market_data.price_change_percentage_1h"},
		Strategy: conflict.StrategyMedian,
	},
	{
		Name: "price_change_24h", Category: CategoryCore, Kind: KindNumeric,
		Aliases:  []string{"price_change_24h", "price_change_percentage_24h", "percent_change_24h", "usd_24h_change", "market_data.price_change_percentage_24h"},
		Strategy: conflict.StrategyMedian,
	},
	{
		Name: "price_change_7d", Category: CategoryCore, Kind: KindNumeric,
		Aliases:  []string{"price_change_7d", "price_change_percentage_7d", "percent_change_7d", "market_data.price_change_percentage_7d"},
		Strategy: conflict.StrategyMedian,
	},
	{
		Name: "price_change_30d", Category: CategoryCore, Kind: KindNumeric,
		Aliases:  []string{"price_change_30d", "price_change_percentage_30d", "percent_change_30d"},
		Strategy: conflict.StrategyMedian,
	},
	{
		Name: "volume_24h", Category: CategoryCore, Kind: KindNumeric,
		Aliases:  []string{"volume_24h", "total_volume", "usd_24h_vol", "volume", "market_data.total_volume.usd", "quote.USD.volume_24h"},
		Strategy: conflict.StrategyWeightedAverage,
	},
	{
		Name: "market_cap", Category: CategoryCore, Kind: KindNumeric,
		Aliases:  []string{"market_cap", "marketcap", "usd_market_cap", "market_data.market_cap.usd", "quote.USD.market_cap"},
		Strategy: conflict.StrategyWeightedAverage,
	},
	{
		Name: "fully_diluted_valuation", Category: CategoryCore, Kind: KindNumeric,
		Aliases:  []string{"fully_diluted_valuation", "fdv", "market_data.fully_diluted_valuation.usd"},
		Strategy: conflict.StrategyWeightedAverage,
	},
	{
		Name: "circulating_supply", Category: CategoryCore, Kind: KindNumeric,
		Aliases:  []string{"circulating_supply", "market_data.circulating_supply"},
		Strategy: conflict.StrategyMedian,
	},

	// Technical indicators
	{
		Name: "rsi_14", Category: CategoryTechnical, Kind: KindNumeric,
		Aliases:  []string{"rsi_14", "rsi", "indicators.rsi_14"},
		Strategy: conflict.StrategyMedian,
	},
	{
		Name: "macd", Category: CategoryTechnical, Kind: KindNumeric,
		Aliases:  []string{"macd", "indicators.macd"},
		Strategy: conflict.StrategyMedian,
	},
	{
		Name: "bollinger_upper", Category: CategoryTechnical, Kind: KindNumeric,
		Aliases:  []string{"bollinger_upper", "bb_upper", "indicators.bollinger.upper"},
		Strategy: conflict.StrategyMedian,
	},
	{
		Name: "bollinger_lower", Category: CategoryTechnical, Kind: KindNumeric,
		Aliases:  []string{"bollinger_lower", "bb_lower", "indicators.bollinger.lower"},
		Strategy: conflict.StrategyMedian,
	},
	{
		Name: "ema_20", Category: CategoryTechnical, Kind: KindNumeric,
		Aliases:  []string{"ema_20", "ema20", "indicators.ema_20"},
		Strategy: conflict.StrategyMedian,
	},
	{
		Name: "sma_50", Category: CategoryTechnical, Kind: KindNumeric,
		Aliases:  []string{"sma_50", "sma50", "indicators.sma_50"},
		Strategy: conflict.StrategyMedian,
	},

	// Social metrics
	{
		Name: "twitter_followers", Category: CategorySocial, Kind: KindNumeric,
		Aliases:  []string{"twitter_followers", "community_data.twitter_followers", "followers"},
		Strategy: conflict.StrategyMostRecent,
	},
	{
		Name: "reddit_subscribers", Category: CategorySocial, Kind: KindNumeric,
		Aliases:  []string{"reddit_subscribers", "community_data.reddit_subscribers"},
		Strategy: conflict.StrategyMostRecent,
	},
	{
		Name: "sentiment_score", Category: CategorySocial, Kind: KindNumeric,
		Aliases:  []string{"sentiment_score", "sentiment", "sentiment_votes_up_percentage"},
		Strategy: conflict.StrategyMedian,
	},
	{
		Name: "social_score", Category: CategorySocial, Kind: KindNumeric,
		Aliases:  []string{"social_score", "galaxy_score", "social.score"},
		Strategy: conflict.StrategyMedian,
	},
	{
		Name: "social_volume_24h", Category: CategorySocial, Kind: KindNumeric,
		Aliases:  []string{"social_volume_24h", "social_volume", "social.volume_24h"},
		Strategy: conflict.StrategyWeightedAverage,
	},

	// Security analysis
	{
		Name: "security_score", Category: CategorySecurity, Kind: KindNumeric,
		Aliases:  []string{"security_score", "trust_score", "score"},
		Strategy: conflict.StrategyHighestConfidence,
	},
	{
		Name: "is_honeypot", Category: CategorySecurity, Kind: KindBool,
		Aliases:  []string{"is_honeypot", "honeypot", "honeypot_result.is_honeypot"},
		Strategy: conflict.StrategyMajorityVote,
	},
	{
		Name: "rugpull_risk", Category: CategorySecurity, Kind: KindNumeric,
		Aliases:  []string{"rugpull_risk", "rug_pull_risk", "risk_score"},
		Strategy: conflict.StrategyHighestConfidence,
	},
	{
		Name: "contract_verified", Category: CategorySecurity, Kind: KindBool,
		Aliases:  []string{"contract_verified", "is_verified", "is_open_source"},
		Strategy: conflict.StrategyMajorityVote,
	},

	// DeFi metrics
	{
		Name: "tvl", Category: CategoryDeFi, Kind: KindNumeric,
		Aliases:  []string{"tvl", "total_value_locked", "tvl_usd"},
		Strategy: conflict.StrategyWeightedAverage,
	},
	{
		Name: "liquidity_usd", Category: CategoryDeFi, Kind: KindNumeric,
		Aliases:  []string{"liquidity_usd", "liquidity", "total_liquidity_usd"},
		Strategy: conflict.StrategyWeightedAverage,
	},
	{
		Name: "apy", Category: CategoryDeFi, Kind: KindNumeric,
		Aliases:  []string{"apy", "apy_percent", "apr"},
		Strategy: conflict.StrategyMedian,
	},
	{
		Name: "pool_count", Category: CategoryDeFi, Kind: KindNumeric,
		Aliases:  []string{"pool_count", "pools", "pair_count"},
		Strategy: conflict.StrategyMedian,
	},

	// Whale activity
	{
		Name: "whale_tx_count_24h", Category: CategoryWhale, Kind: KindNumeric,
		Aliases:  []string{"whale_tx_count_24h", "whale_transactions_24h", "large_tx_count"},
		Strategy: conflict.StrategyWeightedAverage,
	},
	{
		Name: "whale_holdings_percent", Category: CategoryWhale, Kind: KindNumeric,
		Aliases:  []string{"whale_holdings_percent", "top10_holder_percent", "whale_concentration"},
		Strategy: conflict.StrategyMedian,
	},
}

// categoryImportance weights per-category confidence into the overall
// score; core market data dominates, social data counts least
var categoryImportance = map[string]float64{
	CategoryCore:      1.0,
	CategorySecurity:  0.9,
	CategoryDeFi:      0.8,
	CategoryTechnical: 0.7,
	CategoryWhale:     0.6,
	CategoryOther:     0.5,
	CategorySocial:    0.4,
}

// ExpectedMetricCount is the denominator for the completeness score
var ExpectedMetricCount = len(metricTable)
