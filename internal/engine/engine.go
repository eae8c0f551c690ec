// Package engine is the orchestrator: it takes an analysis request
// through rate limiting, the result cache, the provider chain, payload
// extraction and the quality gate, and falls back to the deterministic
// scorer when every provider path fails. Upstream trouble never
// surfaces to the caller; the only errors a caller sees are
// ErrRateLimited, its own context expiring, and invalid input.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/akozyrev/redflag/internal/cache"
	"github.com/akozyrev/redflag/internal/extract"
	"github.com/akozyrev/redflag/internal/llm"
	"github.com/akozyrev/redflag/internal/metrics"
	"github.com/akozyrev/redflag/internal/model"
	"github.com/akozyrev/redflag/internal/quality"
	"github.com/akozyrev/redflag/internal/score"
	"github.com/akozyrev/redflag/internal/worker"
)

// ErrRateLimited is returned when the per-user interval has not
// elapsed and the request did not ask to block
var ErrRateLimited = errors.New("rate limited: analysis interval not elapsed")

// Result is a finished analysis with its execution metadata
type Result struct {
	Profile *model.RiskProfile `json:"profile"`
	Meta    model.Metadata     `json:"meta"`
}

// Engine coordinates one analysis pipeline instance
type Engine struct {
	cfg       *model.Config
	chain     []*llm.Client
	extractor *extract.Extractor
	gate      *quality.Gate
	store     cache.Store
	limiter   *worker.UserLimiter
	pool      *worker.Pool
	metrics   *metrics.Metrics

	// sem bounds in-flight provider calls across all requests
	sem chan struct{}
}

// New wires an engine from its parts. The chain may be empty; every
// request then resolves through the deterministic scorer.
func New(cfg *model.Config, store cache.Store, chain []*llm.Client, m *metrics.Metrics) *Engine {
	maxCalls := cfg.Limits.MaxConcurrentCalls
	if maxCalls <= 0 {
		maxCalls = 4
	}
	for _, client := range chain {
		client.OnRetry = func(provider string, _ int) {
			m.ProviderRetries.WithLabelValues(provider).Inc()
		}
	}
	return &Engine{
		cfg:       cfg,
		chain:     chain,
		extractor: extract.New(),
		gate:      quality.New(cfg),
		store:     store,
		limiter:   worker.NewUserLimiter(cfg.Limits.MinInterval),
		pool:      worker.NewPool(maxCalls),
		metrics:   m,
		sem:       make(chan struct{}, maxCalls),
	}
}

// AnalyzeText scans a free-text sample for risk patterns. technique
// may be empty; the selector then picks the operation default.
func (e *Engine) AnalyzeText(ctx context.Context, userID int64, text, requestContext, technique string) (*Result, error) {
	return e.Run(ctx, &model.AnalysisRequest{
		Operation:    model.OpTextScan,
		UserID:       userID,
		Text:         text,
		Context:      requestContext,
		Technique:    technique,
		CacheAllowed: true,
	})
}

// ProfilePartner builds a risk profile from a completed assessment
func (e *Engine) ProfilePartner(ctx context.Context, userID int64, partnerName, description string, answers model.AnswerSet, technique string) (*Result, error) {
	return e.Run(ctx, &model.AnalysisRequest{
		Operation:    model.OpPartnerProfile,
		UserID:       userID,
		PartnerName:  partnerName,
		Text:         description,
		Answers:      answers,
		Technique:    technique,
		CacheAllowed: true,
	})
}

// CheckCompatibility assesses the joint risk of two completed
// assessments
func (e *Engine) CheckCompatibility(ctx context.Context, userID int64, answersA, answersB model.AnswerSet) (*Result, error) {
	return e.Run(ctx, &model.AnalysisRequest{
		Operation:    model.OpCompatibility,
		UserID:       userID,
		Answers:      answersA,
		AnswersB:     answersB,
		CacheAllowed: true,
	})
}

// validate rejects structurally unusable requests. This is the one
// class of caller-visible error besides rate limiting and ctx expiry.
func validate(req *model.AnalysisRequest) error {
	switch req.Operation {
	case model.OpTextScan:
		if req.Text == "" {
			return errors.New("text scan requires a non-empty text")
		}
	case model.OpPartnerProfile:
		if err := score.ValidateAnswers(req.Answers); err != nil {
			return fmt.Errorf("partner profile: %w", err)
		}
	case model.OpCompatibility:
		if err := score.ValidateAnswers(req.Answers); err != nil {
			return fmt.Errorf("compatibility partner A: %w", err)
		}
		if err := score.ValidateAnswers(req.AnswersB); err != nil {
			return fmt.Errorf("compatibility partner B: %w", err)
		}
	default:
		return fmt.Errorf("unknown operation %q", req.Operation)
	}
	return nil
}
