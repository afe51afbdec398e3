package ai

import (
	"context"

	"github.com/Z-vren/brand-value-actor/internal/lead"
)

// Level values for branding_need and brand_value_match. Anything else
// coming back from the model is coerced to LevelLow.
const (
	LevelLow    = "LOW"
	LevelMedium = "MEDIUM"
	LevelHigh   = "HIGH"
)

// Unknown is the placeholder for W6H fields absent from the model output.
const Unknown = "Unknown"

// W6H is the who/what/where/when/why/how/how-much business summary
// extracted by the model. Any string is legal in any field.
type W6H struct {
	Who     string `json:"who"`
	What    string `json:"what"`
	Where   string `json:"where"`
	When    string `json:"when"`
	Why     string `json:"why"`
	How     string `json:"how"`
	HowMuch string `json:"how_much"`
}

// Evaluation is the normalized verdict for a single lead. It is always
// schema-valid: scores are clamped to [0,100], levels are one of
// LOW/MEDIUM/HIGH, and Reasons is never empty. Error is set only when the
// evaluation failed; the remaining fields then carry fixed placeholders.
type Evaluation struct {
	CompanyName         string   `json:"company_name"`
	WebsiteURL          string   `json:"website_url"`
	WebsiteQualityScore int      `json:"website_quality_score"`
	BrandingNeed        string   `json:"branding_need"`
	OnlinePresenceScore int      `json:"online_presence_score"`
	BrandValueMatch     string   `json:"brand_value_match"`
	W6H                 W6H      `json:"w6h"`
	Qualified           bool     `json:"qualified"`
	Reasons             []string `json:"reasons"`
	Error               string   `json:"error,omitempty"`

	// Raw keeps the unparsed model reply for debugging. Not persisted.
	Raw string `json:"-"`
}

// Evaluator produces one evaluation per lead. Implementations must never
// fail: any upstream error is converted into an error-record evaluation.
type Evaluator interface {
	Evaluate(ctx context.Context, l *lead.Lead) *Evaluation
}
