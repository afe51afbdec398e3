package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/Z-vren/brand-value-actor/internal/ai"
	"github.com/Z-vren/brand-value-actor/internal/lead"
	"github.com/Z-vren/brand-value-actor/internal/logger"
	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const (
	systemInstruction = "You are a brand strategist. Always respond with valid JSON only, no additional text."

	notProvided = "Not provided"

	defaultMaxLogLength = 200
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

// Evaluator asks Gemini for a verdict on a lead and normalizes the reply.
// It is the per-lead error-containment boundary: Evaluate always returns a
// complete evaluation, never an error.
type Evaluator struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewEvaluator(generator contentGenerator, maxLogLength int, log *zap.Logger) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Evaluator{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, l *lead.Lead) *ai.Evaluation {
	prompt := buildPrompt(l)

	e.logger.Debug("gemini evaluation request",
		zap.String("company_name", l.CompanyName),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return e.failed(l, err)
	}

	e.logger.Debug("gemini evaluation response",
		zap.String("company_name", l.CompanyName),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	data, err := ai.ExtractJSON(raw)
	if err != nil {
		return e.failed(l, err)
	}

	evaluation := ai.Normalize(l, data)
	evaluation.Raw = raw

	e.logger.Info("lead evaluated",
		zap.String("company_name", l.CompanyName),
		zap.Bool("qualified", evaluation.Qualified),
		zap.Int("website_quality_score", evaluation.WebsiteQualityScore),
		zap.String("branding_need", evaluation.BrandingNeed),
	)

	return evaluation
}

func (e *Evaluator) failed(l *lead.Lead, err error) *ai.Evaluation {
	errMsg := fmt.Sprintf("LLM evaluation failed: %s", err)

	e.logger.Warn("lead evaluation failed",
		zap.String("company_name", l.CompanyName),
		zap.Error(err),
	)

	return ai.NormalizeError(l, errMsg)
}

// buildPrompt substitutes the lead fields into the embedded template,
// with "Not provided" for absent optionals. Pure and deterministic.
func buildPrompt(l *lead.Lead) string {
	socialLinks := notProvided
	if len(l.SocialLinks) > 0 {
		socialLinks = strings.Join(l.SocialLinks, ", ")
	}

	replacer := strings.NewReplacer(
		"{{COMPANY_NAME}}", l.CompanyName,
		"{{WEBSITE_URL}}", l.WebsiteURL,
		"{{INDUSTRY}}", orNotProvided(l.Industry),
		"{{LOCATION}}", orNotProvided(l.Location),
		"{{SOCIAL_LINKS}}", socialLinks,
		"{{HOMEPAGE_TEXT}}", orNotProvided(l.HomepageText),
		"{{ABOUT_TEXT}}", orNotProvided(l.AboutText),
	)

	return replacer.Replace(promptTemplate)
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}
