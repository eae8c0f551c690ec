package score

import (
	"fmt"
	"strings"

	"github.com/akozyrev/redflag/internal/model"
)

// Compatibility blend. The riskier partner dominates: a calm partner
// does not average away the dangerous one.
const (
	compatMaxShare  = 0.6
	compatMeanShare = 0.4
)

// frictionThreshold marks a per-block gap between partners wide enough
// to call out as a friction point
const frictionThreshold = 4.0

// Compatibility scores a pair of assessments. Per block the combined
// score leans toward the higher of the two; wide per-block gaps are
// reported as friction even when both absolute scores are moderate.
func Compatibility(a, b model.AnswerSet) *model.RiskProfile {
	profileA := Answers(a)
	profileB := Answers(b)

	categories := make(map[string]float64, len(Blocks))
	var flags []string
	for _, block := range Blocks {
		va, oka := profileA.CategoryScores[block]
		vb, okb := profileB.CategoryScores[block]
		if !oka && !okb {
			continue
		}
		hi, lo := va, vb
		if vb > va {
			hi, lo = vb, va
		}
		categories[block] = round1(compatMaxShare*hi + compatMeanShare*(va+vb)/2)
		if hi-lo >= frictionThreshold {
			flags = append(flags, fmt.Sprintf("Wide %s gap between partners (%.1f vs %.1f)", block, va, vb))
		}
	}

	overall := round1(compatMaxShare*maxf(profileA.OverallScore, profileB.OverallScore) +
		compatMeanShare*(profileA.OverallScore+profileB.OverallScore)/2)

	flags = append(flags, mergeFlags(profileA.RedFlags, profileB.RedFlags)...)
	alerts := mergeFlags(profileA.SafetyAlerts, profileB.SafetyAlerts)

	profile := &model.RiskProfile{
		CategoryScores: categories,
		OverallScore:   overall,
		Urgency:        UrgencyWithCeiling(overall, categories),
		RedFlags:       flags,
		SafetyAlerts:   alerts,
		Source:         model.SourceDeterministic,
	}
	profile.Narrative = compatibilityNarrative(profile, profileA, profileB)
	return profile
}

func compatibilityNarrative(combined, a, b *model.RiskProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Pairing model rates the joint relationship risk at %.1f of 100 (%s urgency), from individual scores %.1f and %.1f. ",
		combined.OverallScore, combined.Urgency, a.OverallScore, b.OverallScore)
	if top := topCategories(combined.CategoryScores, 1); len(top) > 0 && combined.CategoryScores[top[0]] >= 4.0 {
		fmt.Fprintf(&sb, "The %s block carries the most joint risk. ", top[0])
	}
	switch {
	case len(combined.SafetyAlerts) > 0:
		sb.WriteString("Critical answers from at least one partner triggered safety alerts; address those before anything else.")
	case combined.Urgency.AtLeast(model.UrgencyHigh):
		sb.WriteString("The pairing amplifies the riskier partner's patterns rather than dampening them.")
	default:
		sb.WriteString("No pattern in either assessment rises to an acute concern for the pairing.")
	}
	return sb.String()
}

// mergeFlags appends entries of extra not already present
func mergeFlags(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	out := make([]string, 0, len(base)+len(extra))
	for _, f := range base {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	for _, f := range extra {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
