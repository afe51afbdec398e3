package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Z-vren/brand-value-actor/internal/lead"
)

const noReasons = "No reasons provided"

// Normalize converts a decoded model reply into an Evaluation. It never
// fails: every irregular field degrades to a safe default instead of
// propagating an error.
func Normalize(l *lead.Lead, data map[string]any) *Evaluation {
	quality := clampScore(data["website_quality_score"])
	presence := clampScore(data["online_presence_score"])
	need := normalizeLevel(data["branding_need"])
	match := normalizeLevel(data["brand_value_match"])

	w6hData, _ := data["w6h"].(map[string]any)

	qualified := coerceBool(data["qualified"])
	// Clamping guarantees the range already; the check mirrors the
	// business rule as stated.
	if quality < 0 || quality > 100 {
		qualified = false
	}
	// Low need and low value alignment can never be a qualified lead,
	// whatever the model said.
	if need == LevelLow && match == LevelLow {
		qualified = false
	}

	return &Evaluation{
		CompanyName:         l.CompanyName,
		WebsiteURL:          l.WebsiteURL,
		WebsiteQualityScore: quality,
		BrandingNeed:        need,
		OnlinePresenceScore: presence,
		BrandValueMatch:     match,
		W6H:                 normalizeW6H(w6hData, l.Location),
		Qualified:           qualified,
		Reasons:             coerceReasons(data["reasons"]),
	}
}

// NormalizeError builds the fixed-default record for a failed evaluation.
func NormalizeError(l *lead.Lead, errMsg string) *Evaluation {
	return &Evaluation{
		CompanyName:         l.CompanyName,
		WebsiteURL:          l.WebsiteURL,
		WebsiteQualityScore: 0,
		BrandingNeed:        LevelLow,
		OnlinePresenceScore: 0,
		BrandValueMatch:     LevelLow,
		W6H:                 normalizeW6H(nil, l.Location),
		Qualified:           false,
		Reasons:             []string{fmt.Sprintf("Evaluation failed: %s", errMsg)},
		Error:               errMsg,
	}
}

func normalizeW6H(data map[string]any, location string) W6H {
	whereFallback := strings.TrimSpace(location)
	if whereFallback == "" {
		whereFallback = Unknown
	}

	return W6H{
		Who:     w6hField(data, "who", Unknown),
		What:    w6hField(data, "what", Unknown),
		Where:   w6hField(data, "where", whereFallback),
		When:    w6hField(data, "when", Unknown),
		Why:     w6hField(data, "why", Unknown),
		How:     w6hField(data, "how", Unknown),
		HowMuch: w6hField(data, "how_much", Unknown),
	}
}

func w6hField(data map[string]any, key, fallback string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return fallback
	}
	return coerceString(v)
}

// clampScore coerces the value to an integer score within [0, 100].
// Numeric strings are parsed as floats and truncated; anything else is 0.
func clampScore(v any) int {
	score := 0
	switch val := v.(type) {
	case float64:
		score = int(val)
	case int:
		score = val
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			score = int(f)
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score
}

// normalizeLevel restricts the value to LOW/MEDIUM/HIGH, uppercased and
// trimmed. Non-strings and unknown values coerce to LOW.
func normalizeLevel(v any) string {
	s, ok := v.(string)
	if !ok {
		return LevelLow
	}

	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case LevelLow, LevelMedium, LevelHigh:
		return s
	}

	return LevelLow
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// coerceBool applies truthiness: non-zero numbers, non-empty strings,
// arrays and objects are true.
func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return false
	}
}

// coerceReasons normalizes the reasons field into a non-empty string
// slice. A scalar value is wrapped; falsy elements are dropped.
func coerceReasons(v any) []string {
	var items []any
	switch val := v.(type) {
	case nil:
	case []any:
		items = val
	default:
		if coerceBool(v) {
			items = []any{v}
		}
	}

	reasons := make([]string, 0, len(items))
	for _, item := range items {
		if !coerceBool(item) {
			continue
		}
		reasons = append(reasons, coerceString(item))
	}

	if len(reasons) == 0 {
		return []string{noReasons}
	}

	return reasons
}
