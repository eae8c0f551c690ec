package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/akozyrev/redflag/internal/model"
)

// Field-level patterns for the last-resort reconstruction. These fire
// on responses truncated mid-object, where no balanced span exists.
var (
	overallScoreRe = regexp.MustCompile(`"overall_risk_score"\s*:\s*"?([0-9]+(?:\.[0-9]+)?)"?`)
	urgencyRe      = regexp.MustCompile(`"urgency_level"\s*:\s*"([A-Za-z]+)"`)
	blockScoresRe  = regexp.MustCompile(`"block_scores"\s*:\s*\{([^}]*)`)
	scorePairRe    = regexp.MustCompile(`"([a-z_]+)"\s*:\s*([0-9]+(?:\.[0-9]+)?)`)
	redFlagsRe     = regexp.MustCompile(`(?s)"red_flags"\s*:\s*\[(.*?)(?:\]|$)`)
	quotedRe       = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)
	narrativeRe    = regexp.MustCompile(`"(?:narrative|psychological_profile|analysis|summary)"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	personalityRe  = regexp.MustCompile(`"personality_type"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// reconstructFields assembles a payload field by field, tolerating a
// partial result. One recovered canonical field is enough: a truncated
// response with only block scores still beats the deterministic path
// for the quality gate to judge.
func reconstructFields(raw string) *model.ExtractedPayload {
	payload := &model.ExtractedPayload{}

	if m := overallScoreRe.FindStringSubmatch(raw); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			payload.OverallScore = f
			payload.HasOverall = true
		}
	}

	if m := urgencyRe.FindStringSubmatch(raw); m != nil {
		u := strings.ToUpper(m[1])
		if model.ValidUrgency(u) {
			payload.Urgency = u
		}
	}

	if m := blockScoresRe.FindStringSubmatch(raw); m != nil {
		scores := make(map[string]float64)
		for _, pair := range scorePairRe.FindAllStringSubmatch(m[1], -1) {
			if f, err := strconv.ParseFloat(pair[2], 64); err == nil {
				scores[pair[1]] = f
			}
		}
		if len(scores) > 0 {
			payload.CategoryScores = scores
		}
	}

	if m := redFlagsRe.FindStringSubmatch(raw); m != nil {
		var flags []string
		for _, q := range quotedRe.FindAllStringSubmatch(m[1], -1) {
			if s := unescape(q[1]); s != "" {
				flags = append(flags, s)
			}
		}
		payload.RedFlags = flags
	}

	if m := narrativeRe.FindStringSubmatch(raw); m != nil {
		payload.Narrative = unescape(m[1])
	}

	if m := personalityRe.FindStringSubmatch(raw); m != nil {
		payload.PersonalityType = unescape(m[1])
	}

	if payload.FieldCount() == 0 {
		return nil
	}
	return payload
}

// unescape decodes JSON string escapes captured by regex
func unescape(s string) string {
	unquoted, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(unquoted)
}
