package score

import (
	"fmt"
	"strings"

	"github.com/akozyrev/redflag/internal/model"
)

// marker is a behavioral signal searched for in free text. Weight is
// the per-hit contribution to the marker's block score.
type marker struct {
	phrase string
	block  string
	weight float64
	flag   string
}

// textMarkers is intentionally coarse. The scan is the floor under a
// failed provider chain, not a competitor to it: it must never say LOW
// about a message full of threats, and false positives on benign text
// matter less than false negatives on dangerous text.
var textMarkers = []marker{
	{"worthless", BlockNarcissism, 3, "Demeaning language toward the partner"},
	{"pathetic", BlockNarcissism, 3, "Demeaning language toward the partner"},
	{"stupid", BlockNarcissism, 2.5, "Demeaning language toward the partner"},
	{"you should be grateful", BlockNarcissism, 3, "Entitlement framing"},
	{"after everything i've done", BlockNarcissism, 2.5, "Entitlement framing"},
	{"nobody else would", BlockNarcissism, 3, "Devaluation of the partner's worth"},

	{"you can't go", BlockControl, 3.5, "Restriction of movement or contacts"},
	{"i forbid", BlockControl, 4, "Restriction of movement or contacts"},
	{"not allowed to", BlockControl, 3.5, "Restriction of movement or contacts"},
	{"who were you with", BlockControl, 2.5, "Interrogation about whereabouts"},
	{"where were you", BlockControl, 2, "Interrogation about whereabouts"},
	{"show me your phone", BlockControl, 3.5, "Surveillance of private communications"},
	{"checked your messages", BlockControl, 3.5, "Surveillance of private communications"},
	{"ask my permission", BlockControl, 3.5, "Permission-based control"},

	{"that never happened", BlockGaslighting, 4, "Denial of shared events"},
	{"you're imagining", BlockGaslighting, 4, "Denial of the partner's perceptions"},
	{"you're crazy", BlockGaslighting, 4, "Pathologizing the partner"},
	{"you're overreacting", BlockGaslighting, 3, "Invalidation of emotional responses"},
	{"too sensitive", BlockGaslighting, 3, "Invalidation of emotional responses"},
	{"you always twist", BlockGaslighting, 3, "Reframing the partner as unreliable"},
	{"you made me do", BlockGaslighting, 3.5, "Blame shifting"},

	{"i'll kill", BlockEmotion, 5, "Explicit threat of violence"},
	{"i'll hurt you", BlockEmotion, 5, "Explicit threat of violence"},
	{"you'll regret", BlockEmotion, 4, "Intimidation through threats"},
	{"i'll make you pay", BlockEmotion, 4, "Intimidation through threats"},
	{"smashed", BlockEmotion, 3, "Destructive rage episode"},
	{"threw things", BlockEmotion, 3, "Destructive rage episode"},
	{"screamed at", BlockEmotion, 2.5, "Verbal aggression"},

	{"you owe me", BlockIntimacy, 3.5, "Coercion through obligation"},
	{"if you loved me you would", BlockIntimacy, 4, "Conditional affection as leverage"},
	{"i'll leave you if", BlockIntimacy, 3.5, "Abandonment threats as leverage"},
	{"no one will ever love you", BlockIntimacy, 4, "Emotional blackmail"},

	{"your friends are", BlockSocial, 2.5, "Disparagement of the partner's circle"},
	{"your family hates", BlockSocial, 3, "Driving a wedge toward the family"},
	{"they're turning you against me", BlockSocial, 3, "Isolation framing"},
	{"only i understand you", BlockSocial, 3.5, "Isolation framing"},
	{"don't need anyone else", BlockSocial, 3.5, "Isolation framing"},
}

// blockBlendWeights mirror the total question weight per block, so the
// text scan blends categories with the same emphasis as the assessment
var blockBlendWeights = map[string]float64{
	BlockNarcissism:  17,
	BlockControl:     21,
	BlockGaslighting: 18,
	BlockEmotion:     14,
	BlockIntimacy:    11,
	BlockSocial:      14,
}

// Text scores a free-text sample by marker scan. Matching is
// case-insensitive substring search; each block is capped at 10.
func Text(text string) *model.RiskProfile {
	lower := strings.ToLower(text)

	blockScores := make(map[string]float64, len(Blocks))
	flagSeen := make(map[string]struct{})
	var flags []string

	for _, m := range textMarkers {
		if !strings.Contains(lower, m.phrase) {
			continue
		}
		blockScores[m.block] += m.weight
		if _, dup := flagSeen[m.flag]; !dup {
			flagSeen[m.flag] = struct{}{}
			flags = append(flags, m.flag)
		}
	}

	categories := make(map[string]float64, len(Blocks))
	var weighted, weightTotal float64
	for _, block := range Blocks {
		v := blockScores[block]
		if v > 10 {
			v = 10
		}
		categories[block] = round1(v)
		weighted += v * blockBlendWeights[block]
		weightTotal += blockBlendWeights[block]
	}

	overall := round1(weighted / weightTotal * 10)

	profile := &model.RiskProfile{
		CategoryScores: categories,
		OverallScore:   overall,
		Urgency:        UrgencyWithCeiling(overall, categories),
		RedFlags:       flags,
		Source:         model.SourceDeterministic,
	}
	profile.Narrative = textNarrative(profile, len(flags))
	return profile
}

func textNarrative(p *model.RiskProfile, hits int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Marker scan rates the sample at %.1f of 100 (%s urgency). ", p.OverallScore, p.Urgency)
	if hits == 0 {
		b.WriteString("No known manipulation or aggression markers were found in the text.")
		return b.String()
	}
	fmt.Fprintf(&b, "%d distinct behavioral marker(s) matched", hits)
	if top := topCategories(p.CategoryScores, 1); len(top) > 0 && p.CategoryScores[top[0]] > 0 {
		fmt.Fprintf(&b, ", concentrated in the %s block", top[0])
	}
	b.WriteString(". A marker scan sees phrasing, not context; treat this as a floor, not a diagnosis.")
	return b.String()
}
