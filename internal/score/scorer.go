// Package score is the deterministic risk model: a weighted rubric over
// the structured assessment, a marker scan for free text, and a pairing
// model for compatibility. Every function here is pure. When the
// provider chain is down this package is what the caller gets, so the
// outputs carry the same shape and invariants as an accepted payload.
package score

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/akozyrev/redflag/internal/model"
)

// categoryCeiling forces at least HIGH urgency when any single block
// reaches it, regardless of the blended overall score. A partner who
// scores 9 on coercion is not a MEDIUM because the other blocks are
// quiet.
const categoryCeiling = 8.5

// redFlagThreshold marks a block as a standalone red flag
const redFlagThreshold = 7.0

var blockFlagLabels = map[string]string{
	BlockNarcissism:  "Pronounced narcissistic pattern: criticism intolerance, lack of empathy",
	BlockControl:     "Controlling behavior: restricted contacts, supervised decisions",
	BlockGaslighting: "Reality distortion: denied events, invalidated perceptions",
	BlockEmotion:     "Volatile emotional regulation: rage episodes, unpredictable moods",
	BlockIntimacy:    "Coercive intimacy: ignored consent, pressure through closeness",
	BlockSocial:      "Social mask: different persona in public, isolation from allies",
}

var blockPersonalityTypes = map[string]string{
	BlockNarcissism:  "Grandiose self-focused",
	BlockControl:     "Controlling-dominant",
	BlockGaslighting: "Reality-distorting manipulator",
	BlockEmotion:     "Emotionally volatile",
	BlockIntimacy:    "Coercive-intrusive",
	BlockSocial:      "Socially masked",
}

// Answers scores a structured assessment. Unknown question IDs and
// out-of-range option indexes are skipped rather than rejected, so a
// partial answer set still yields a profile over the blocks it covers.
func Answers(answers model.AnswerSet) *model.RiskProfile {
	raw := make(map[string]float64, len(Blocks))
	max := make(map[string]float64, len(Blocks))

	for id, optionIndex := range answers {
		q, ok := questionsByID[id]
		if !ok {
			continue
		}
		if optionIndex < 0 || optionIndex >= len(q.AnswerWeights) {
			continue
		}
		raw[q.Block] += float64(q.Weight * q.AnswerWeights[optionIndex])
		max[q.Block] += float64(q.Weight * maxWeight(q.AnswerWeights))
	}

	categories := make(map[string]float64, len(raw))
	var total, totalMax float64
	for block, maxScore := range max {
		if maxScore == 0 {
			continue
		}
		categories[block] = round1(raw[block] / maxScore * 10)
		total += raw[block]
		totalMax += maxScore
	}

	var overall float64
	if totalMax > 0 {
		overall = round1(total / totalMax * 100)
	}

	profile := &model.RiskProfile{
		CategoryScores:  categories,
		OverallScore:    overall,
		Urgency:         UrgencyWithCeiling(overall, categories),
		RedFlags:        blockFlags(categories),
		SafetyAlerts:    SafetyAlerts(answers),
		PersonalityType: personalityType(categories),
		Source:          model.SourceDeterministic,
	}
	profile.Narrative = answersNarrative(profile)
	return profile
}

// SafetyAlerts returns the alert texts fired by critical answers
func SafetyAlerts(answers model.AnswerSet) []string {
	var alerts []string
	for _, q := range questions {
		if q.CriticalFrom < 0 {
			continue
		}
		if idx, ok := answers[q.ID]; ok && idx >= q.CriticalFrom {
			alerts = append(alerts, q.Alert)
		}
	}
	return alerts
}

// UrgencyWithCeiling derives the tier from the overall score, then
// raises it to HIGH when any single category crosses the ceiling. The
// same rule applies to accepted provider payloads so both sources obey
// the score-to-tier mapping.
func UrgencyWithCeiling(overall float64, categories map[string]float64) model.UrgencyLevel {
	urgency := model.UrgencyFor(overall)
	for _, v := range categories {
		if v >= categoryCeiling && !urgency.AtLeast(model.UrgencyHigh) {
			return model.UrgencyHigh
		}
	}
	return urgency
}

// ValidateAnswers checks that answers cover the full bank with
// in-range option indexes
func ValidateAnswers(answers model.AnswerSet) error {
	for _, q := range questions {
		idx, ok := answers[q.ID]
		if !ok {
			return fmt.Errorf("missing answer for %s", q.ID)
		}
		if idx < 0 || idx >= len(q.AnswerWeights) {
			return fmt.Errorf("answer %d out of range for %s", idx, q.ID)
		}
	}
	for id := range answers {
		if _, ok := questionsByID[id]; !ok {
			return fmt.Errorf("unknown question %s", id)
		}
	}
	return nil
}

func blockFlags(categories map[string]float64) []string {
	var flags []string
	for _, block := range Blocks {
		if categories[block] >= redFlagThreshold {
			flags = append(flags, blockFlagLabels[block])
		}
	}
	return flags
}

func personalityType(categories map[string]float64) string {
	best := ""
	bestScore := 0.0
	for _, block := range Blocks {
		if v, ok := categories[block]; ok && v > bestScore {
			best, bestScore = block, v
		}
	}
	if best == "" || bestScore < 4.0 {
		return "No dominant risk pattern"
	}
	return blockPersonalityTypes[best]
}

func answersNarrative(p *model.RiskProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weighted assessment places the overall relationship risk at %.1f of 100 (%s urgency). ", p.OverallScore, p.Urgency)

	top := topCategories(p.CategoryScores, 2)
	switch {
	case len(top) == 0 || p.CategoryScores[top[0]] < 4.0:
		b.WriteString("No behavioral block stands out; the reported patterns are within the low-concern range.")
	case len(top) == 1:
		fmt.Fprintf(&b, "The dominant concern is the %s block at %.1f of 10.", top[0], p.CategoryScores[top[0]])
	default:
		fmt.Fprintf(&b, "The dominant concerns are %s (%.1f) and %s (%.1f) of 10.",
			top[0], p.CategoryScores[top[0]], top[1], p.CategoryScores[top[1]])
	}

	if len(p.SafetyAlerts) > 0 {
		fmt.Fprintf(&b, " %d critical answer(s) triggered immediate safety alerts; treat those patterns as the priority.", len(p.SafetyAlerts))
	}
	if p.Urgency.AtLeast(model.UrgencyHigh) {
		b.WriteString(" Consider discussing the flagged behaviors with a qualified specialist.")
	}
	return b.String()
}

// topCategories returns up to n block names by descending score,
// ties broken by canonical block order for determinism
func topCategories(categories map[string]float64, n int) []string {
	names := make([]string, 0, len(categories))
	for _, block := range Blocks {
		if _, ok := categories[block]; ok {
			names = append(names, block)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return categories[names[i]] > categories[names[j]]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

func maxWeight(weights []int) int {
	m := 0
	for _, w := range weights {
		if w > m {
			m = w
		}
	}
	return m
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
