package aggregator

import (
	"strconv"
	"strings"
	"time"
)

// Freshness and sparsity confidence penalties applied per extracted
// point. Constants are deliberate choices, see DESIGN.md.
const (
	stalenessPenaltyMax = 0.3
	stalenessHorizon    = 24 * time.Hour
	sparsePayloadFields = 3
	sparsePayloadFactor = 0.8
)

// payload timestamp aliases checked for freshness decay
var timestampAliases = []string{"last_updated", "last_updated_at", "updated_at", "timestamp"}

// lookupPath resolves a dot-separated path inside a nested payload
func lookupPath(payload map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = payload
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// extractValue tries the metric's aliases in order and coerces the
// first match to the expected kind
func extractValue(payload map[string]interface{}, spec MetricSpec) (interface{}, bool) {
	for _, alias := range spec.Aliases {
		raw, ok := lookupPath(payload, alias)
		if !ok {
			continue
		}
		if coerced, ok := coerce(raw, spec.Kind); ok {
			return coerced, true
		}
	}
	return nil, false
}

func coerce(raw interface{}, kind MetricKind) (interface{}, bool) {
	switch kind {
	case KindNumeric:
		switch v := raw.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			return parseNumericString(v)
		}
		return nil, false
	case KindBool:
		switch v := raw.(type) {
		case bool:
			return v, true
		case string:
			switch strings.ToLower(v) {
			case "true", "1", "yes":
				return true, true
			case "false", "0", "no":
				return false, true
			}
		case float64:
			return v != 0, true
		}
		return nil, false
	default:
		return raw, true
	}
}

// payloadTimestamp extracts an observation timestamp when the provider
// reports one; zero time otherwise
func payloadTimestamp(payload map[string]interface{}) time.Time {
	for _, alias := range timestampAliases {
		raw, ok := payload[alias]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case string:
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				return ts
			}
		case float64:
			// unix seconds or milliseconds
			if v > 1e12 {
				return time.UnixMilli(int64(v)).UTC()
			}
			if v > 0 {
				return time.Unix(int64(v), 0).UTC()
			}
		}
	}
	return time.Time{}
}

// pointConfidence derives per-point confidence from the source's static
// reliability, payload freshness and payload completeness
func pointConfidence(reliability float64, observedAt, now time.Time, populatedFields int) float64 {
	confidence := reliability

	if !observedAt.IsZero() {
		age := now.Sub(observedAt)
		if age > 0 {
			fraction := age.Seconds() / stalenessHorizon.Seconds()
			if fraction > 1 {
				fraction = 1
			}
			confidence *= 1 - stalenessPenaltyMax*fraction
		}
	}

	if populatedFields < sparsePayloadFields {
		confidence *= sparsePayloadFactor
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

func parseNumericString(s string) (interface{}, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, false
	}
	return v, true
}
