// Package quality scores extracted payloads against a completeness and
// consistency rubric. The verdict decides accept/retry/reject; it never
// mutates the payload it evaluates.
package quality

import (
	"fmt"
	"unicode/utf8"

	"github.com/akozyrev/redflag/internal/model"
)

// Deduction sizes. Additive rubric starting from 100, floored at 0.
const (
	deductMissingOverall    = 25
	deductMissingUrgency    = 15
	deductMissingCategories = 20
	deductMissingNarrative  = 20
	deductMissingFlags      = 10
	deductShortNarrative    = 15
	deductRangeViolation    = 15
	deductFewFlags          = 10

	// Inconsistency between the stated score and the stated tier is
	// the strongest signal of a confabulated payload
	deductInconsistent = 40
)

// minDistinctFlags guards against a single placeholder entry
const minDistinctFlags = 2

// Gate evaluates payloads using per-operation thresholds from config
type Gate struct {
	cfg *model.Config
}

// New creates a quality gate
func New(cfg *model.Config) *Gate {
	return &Gate{cfg: cfg}
}

// Evaluate scores payload against the rubric for op
func (g *Gate) Evaluate(payload *model.ExtractedPayload, op model.Operation) model.QualityVerdict {
	opCfg := g.cfg.ForOperation(op)
	score := 100
	var violations []string

	deduct := func(points int, reason string) {
		score -= points
		violations = append(violations, reason)
	}

	if !payload.HasOverall {
		deduct(deductMissingOverall, "missing overall_risk_score")
	} else if payload.OverallScore < 0 || payload.OverallScore > 100 {
		deduct(deductRangeViolation, fmt.Sprintf("overall_risk_score %.1f outside [0,100]", payload.OverallScore))
	}

	if payload.Urgency == "" {
		deduct(deductMissingUrgency, "missing urgency_level")
	}

	if len(payload.CategoryScores) == 0 {
		deduct(deductMissingCategories, "missing block_scores")
	} else {
		for category, v := range payload.CategoryScores {
			if v < 0 || v > 10 {
				deduct(deductRangeViolation, fmt.Sprintf("block score %s=%.1f outside [0,10]", category, v))
				break
			}
		}
	}

	if payload.Narrative == "" {
		deduct(deductMissingNarrative, "missing narrative")
	} else if utf8.RuneCountInString(payload.Narrative) < opCfg.MinNarrative {
		deduct(deductShortNarrative, fmt.Sprintf("narrative under %d chars", opCfg.MinNarrative))
	}

	if len(payload.RedFlags) == 0 {
		deduct(deductMissingFlags, "missing red_flags")
	} else if distinct(payload.RedFlags) < minDistinctFlags {
		deduct(deductFewFlags, "red_flags is a single placeholder")
	}

	// A stated severity must fall inside the band implied by the
	// stated tier; both paths derive one from the other, so a mismatch
	// means the model invented at least one of them
	if payload.HasOverall && payload.Urgency != "" {
		if model.UrgencyFor(payload.OverallScore) != model.UrgencyLevel(payload.Urgency) {
			deduct(deductInconsistent, fmt.Sprintf("urgency %s inconsistent with score %.1f", payload.Urgency, payload.OverallScore))
		}
	}

	if score < 0 {
		score = 0
	}

	return model.QualityVerdict{
		Score:      score,
		Pass:       score >= opCfg.QualityThreshold,
		Violations: violations,
	}
}

// distinct counts unique entries
func distinct(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	return len(seen)
}
