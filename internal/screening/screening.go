// Package screening runs the per-lead evaluation loop: one evaluation per
// input lead, in input order, with the error containment the output
// contract requires.
package screening

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Z-vren/brand-value-actor/internal/ai"
	"github.com/Z-vren/brand-value-actor/internal/lead"
	"github.com/Z-vren/brand-value-actor/internal/store"
)

// Config contains the screening knobs.
type Config struct {
	// Concurrency bounds the number of in-flight evaluations. 1 means
	// strictly sequential processing.
	Concurrency int
	// RateLimit caps outbound LLM calls per second. 0 disables pacing.
	RateLimit float64
	// Reevaluate forces fresh LLM calls even for leads already present
	// in the store.
	Reevaluate bool
}

// Deps aggregates the collaborators of a screening run. Store may be nil.
type Deps struct {
	Evaluator ai.Evaluator
	Store     *store.Store
	Logger    *zap.Logger
}

type Screener struct {
	config  *Config
	deps    *Deps
	limiter *rate.Limiter
}

func New(cfg *Config, deps *Deps) *Screener {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}

	if deps == nil {
		deps = &Deps{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Screener{config: cfg, deps: deps, limiter: limiter}
}

// Run evaluates every lead and returns exactly one evaluation per lead,
// in input order. It never fails: every per-lead error becomes an error
// record in the output.
func (s *Screener) Run(ctx context.Context, leads *lead.Leads) *ai.Evaluations {
	results := make([]*ai.Evaluation, leads.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)

	for i, l := range leads.Items {
		g.Go(func() error {
			results[i] = s.evaluateOne(ctx, l)
			return nil
		})
	}

	// Workers only ever return nil; containment happens per lead.
	_ = g.Wait()

	evaluations := &ai.Evaluations{Items: results}

	s.deps.Logger.Info("screening completed",
		zap.Int("leads", leads.Len()),
		zap.Int("qualified", evaluations.QualifiedCount()),
		zap.Int("failed", evaluations.FailedCount()),
	)

	return evaluations
}

func (s *Screener) evaluateOne(ctx context.Context, l *lead.Lead) *ai.Evaluation {
	if err := l.Validate(); err != nil {
		s.deps.Logger.Warn("invalid lead",
			zap.String("company_name", l.CompanyName),
			zap.Error(err),
		)
		return ai.NormalizeError(l, fmt.Sprintf("invalid lead input: %s", err))
	}

	if cached := s.fromStore(ctx, l); cached != nil {
		return cached
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return ai.NormalizeError(l, fmt.Sprintf("LLM evaluation failed: %s", err))
		}
	}

	evaluation := s.deps.Evaluator.Evaluate(ctx, l)

	s.toStore(ctx, evaluation)

	return evaluation
}

// fromStore returns the stored evaluation for the lead unless
// re-evaluation is requested. Store failures only log; the lead is then
// evaluated normally.
func (s *Screener) fromStore(ctx context.Context, l *lead.Lead) *ai.Evaluation {
	if s.deps.Store == nil || s.config.Reevaluate {
		return nil
	}

	cached, found, err := s.deps.Store.Get(ctx, l.WebsiteURL)
	if err != nil {
		s.deps.Logger.Warn("reading stored evaluation failed",
			zap.String("website_url", l.WebsiteURL),
			zap.Error(err),
		)
		return nil
	}
	if !found {
		return nil
	}

	s.deps.Logger.Info("using stored evaluation",
		zap.String("company_name", l.CompanyName),
		zap.String("website_url", l.WebsiteURL),
		zap.Bool("qualified", cached.Qualified),
	)

	return cached
}

func (s *Screener) toStore(ctx context.Context, ev *ai.Evaluation) {
	if s.deps.Store == nil {
		return
	}

	if err := s.deps.Store.Upsert(ctx, ev); err != nil {
		s.deps.Logger.Warn("storing evaluation failed",
			zap.String("website_url", ev.WebsiteURL),
			zap.Error(err),
		)
	}
}
