package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/akozyrev/redflag/internal/cache"
	"github.com/akozyrev/redflag/internal/llm"
	"github.com/akozyrev/redflag/internal/model"
	"github.com/akozyrev/redflag/internal/prompts"
	"github.com/akozyrev/redflag/internal/score"
)

// Run executes one analysis end to end. The result is never nil on a
// nil error: when the provider chain yields nothing acceptable the
// deterministic scorer supplies the profile.
func (e *Engine) Run(ctx context.Context, req *model.AnalysisRequest) (*Result, error) {
	start := time.Now()
	if err := validate(req); err != nil {
		return nil, err
	}

	key := cache.Fingerprint(req)
	if req.CacheAllowed {
		if res := e.cachedResult(ctx, key, start); res != nil {
			e.metrics.CacheEvents.WithLabelValues("hit").Inc()
			e.metrics.AnalysesTotal.WithLabelValues(string(req.Operation), string(res.Profile.Source)).Inc()
			return res, nil
		}
		e.metrics.CacheEvents.WithLabelValues("miss").Inc()
	}

	if !e.limiter.Allow(req.UserID) {
		if !req.BlockOnRateLimit {
			e.metrics.RateLimited.Inc()
			return nil, ErrRateLimited
		}
		if err := e.limiter.Wait(ctx, req.UserID); err != nil {
			return nil, err
		}
	}

	profile, meta, err := e.fromProviders(ctx, req)
	if errors.Is(err, errProvidersExhausted) {
		profile = e.deterministic(req)
		meta.Source = model.SourceDeterministic
		meta.ProviderUsed = "none"
		err = nil
	}
	if err != nil {
		return nil, err
	}

	// Safety alerts come from the deterministic triggers regardless of
	// which path produced the profile
	switch req.Operation {
	case model.OpPartnerProfile:
		profile.SafetyAlerts = mergeUnique(profile.SafetyAlerts, score.SafetyAlerts(req.Answers))
	case model.OpCompatibility:
		profile.SafetyAlerts = mergeUnique(profile.SafetyAlerts,
			append(score.SafetyAlerts(req.Answers), score.SafetyAlerts(req.AnswersB)...))
	}

	meta.LatencyMS = time.Since(start).Milliseconds()
	e.metrics.AnalysesTotal.WithLabelValues(string(req.Operation), string(profile.Source)).Inc()

	if req.CacheAllowed && (profile.Source == model.SourceAI || e.cfg.Cache.StoreDegraded) {
		e.storeResult(ctx, key, req.Operation, profile)
	}

	return &Result{Profile: profile, Meta: meta}, nil
}

// Internal flow sentinels; neither ever reaches a caller
var (
	errProvidersExhausted = errors.New("provider chain exhausted")
	errQualityRejected    = errors.New("response rejected by quality gate")
)

// fromProviders walks the chain in priority order. Failures move on to
// the next provider; only context expiry aborts the walk. The
// errProvidersExhausted return sends Run to the deterministic scorer.
func (e *Engine) fromProviders(ctx context.Context, req *model.AnalysisRequest) (*model.RiskProfile, model.Metadata, error) {
	var meta model.Metadata
	opCfg := e.cfg.ForOperation(req.Operation)

	for _, client := range e.chain {
		if err := ctx.Err(); err != nil {
			return nil, meta, err
		}
		// A provider that cannot plausibly finish inside the caller's
		// remaining budget is not worth starting
		if deadline, ok := ctx.Deadline(); ok && client.Timeout > 0 && time.Until(deadline) < client.Timeout/2 {
			continue
		}

		profile, err := e.tryProvider(ctx, client, req, opCfg, &meta)
		if err == nil {
			return profile, meta, nil
		}
		if ctx.Err() != nil {
			return nil, meta, ctx.Err()
		}
	}
	return nil, meta, errProvidersExhausted
}

// tryProvider gives one provider its standard attempt and, when only
// the quality gate objected, one relaxed retry. Any other failure
// exhausts the provider immediately.
func (e *Engine) tryProvider(ctx context.Context, client *llm.Client, req *model.AnalysisRequest, opCfg model.OperationConfig, meta *model.Metadata) (*model.RiskProfile, error) {
	relaxed := false
	for {
		system, prompt := prompts.Build(req, relaxed)
		resp, err := e.callProvider(ctx, client, llm.CompletionRequest{
			System:    system,
			Prompt:    prompt,
			MaxTokens: opCfg.MaxTokens,
		})
		meta.Attempts++
		if err != nil {
			e.metrics.ProviderCalls.WithLabelValues(client.Name(), outcomeFor(err)).Inc()
			return nil, err
		}
		e.metrics.ProviderCalls.WithLabelValues(client.Name(), "ok").Inc()

		payload, err := e.extractor.Extract(resp.Text)
		if err != nil {
			// Unsalvageable output ranks with a transport failure
			e.metrics.ProviderCalls.WithLabelValues(client.Name(), "unparseable").Inc()
			return nil, err
		}
		e.metrics.ExtractionStrategy.WithLabelValues(strconv.Itoa(payload.Strategy)).Inc()

		verdict := e.gate.Evaluate(payload, req.Operation)
		if verdict.Pass {
			e.metrics.QualityScore.WithLabelValues("pass").Observe(float64(verdict.Score))
			meta.Source = model.SourceAI
			meta.ProviderUsed = client.Name()
			meta.QualityScore = verdict.Score
			meta.ExtractionStrategy = payload.Strategy
			return profileFromPayload(payload), nil
		}
		e.metrics.QualityScore.WithLabelValues("fail").Observe(float64(verdict.Score))
		if relaxed {
			return nil, errQualityRejected
		}
		relaxed = true
	}
}

// callProvider runs one completion under the global concurrency cap
func (e *Engine) callProvider(ctx context.Context, client *llm.Client, creq llm.CompletionRequest) (*llm.CompletionResponse, error) {
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-e.sem }()

	start := time.Now()
	resp, err := client.Complete(ctx, creq)
	e.metrics.ProviderLatency.WithLabelValues(client.Name()).Observe(time.Since(start).Seconds())
	return resp, err
}

// deterministic resolves the request through the pure scorer
func (e *Engine) deterministic(req *model.AnalysisRequest) *model.RiskProfile {
	switch req.Operation {
	case model.OpPartnerProfile:
		return score.Answers(req.Answers)
	case model.OpCompatibility:
		return score.Compatibility(req.Answers, req.AnswersB)
	default:
		return score.Text(req.Text)
	}
}

// profileFromPayload converts an accepted payload, clamping scores into
// range and re-deriving the tier so the score-to-tier invariant holds
// no matter what the provider claimed
func profileFromPayload(p *model.ExtractedPayload) *model.RiskProfile {
	overall := clamp(p.OverallScore, 0, 100)
	categories := make(map[string]float64, len(p.CategoryScores))
	for k, v := range p.CategoryScores {
		categories[k] = clamp(v, 0, 10)
	}
	return &model.RiskProfile{
		CategoryScores:  categories,
		OverallScore:    overall,
		Urgency:         score.UrgencyWithCeiling(overall, categories),
		RedFlags:        p.RedFlags,
		Narrative:       p.Narrative,
		PersonalityType: p.PersonalityType,
		Source:          model.SourceAI,
	}
}

func (e *Engine) cachedResult(ctx context.Context, key string, start time.Time) *Result {
	data, found, err := e.store.Get(ctx, key)
	if err != nil || !found {
		// A broken cache backend degrades to a miss
		return nil
	}
	var profile model.RiskProfile
	if json.Unmarshal(data, &profile) != nil {
		return nil
	}
	return &Result{
		Profile: &profile,
		Meta: model.Metadata{
			Source:    profile.Source,
			CacheHit:  true,
			LatencyMS: time.Since(start).Milliseconds(),
		},
	}
}

func (e *Engine) storeResult(ctx context.Context, key string, op model.Operation, profile *model.RiskProfile) {
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if e.store.Set(ctx, key, data, e.cfg.ForOperation(op).CacheTTL) == nil {
		e.metrics.CacheEvents.WithLabelValues("store").Inc()
	}
}

func outcomeFor(err error) string {
	switch {
	case llm.IsUpstream(err):
		return "upstream_error"
	default:
		return "transport_error"
	}
}

func mergeUnique(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, s := range base {
		seen[s] = struct{}{}
	}
	for _, s := range extra {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		base = append(base, s)
	}
	return base
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
