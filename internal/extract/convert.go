package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/akozyrev/redflag/internal/model"
)

// narrativeKeys are accepted aliases for the narrative field, in
// preference order. Different prompt variants elicit different names.
var narrativeKeys = []string{
	model.FieldNarrative,
	"psychological_profile",
	"analysis",
	"summary",
}

// decodeObject parses s as a JSON object and coerces the canonical
// fields into a typed payload. Returns nil when s is not an object.
func decodeObject(s string) *model.ExtractedPayload {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	return coerce(obj)
}

// coerce maps loosely-typed JSON values onto the payload. Providers
// return numbers as strings, scores as ints, lists with junk entries;
// all of that is tolerated here rather than rejected.
func coerce(obj map[string]any) *model.ExtractedPayload {
	payload := &model.ExtractedPayload{}

	if v, ok := toFloat(obj[model.FieldOverallScore]); ok {
		payload.OverallScore = v
		payload.HasOverall = true
	}

	if s, ok := obj[model.FieldUrgency].(string); ok {
		u := strings.ToUpper(strings.TrimSpace(s))
		if model.ValidUrgency(u) {
			payload.Urgency = u
		}
	}

	if m, ok := obj[model.FieldCategoryScores].(map[string]any); ok {
		scores := make(map[string]float64, len(m))
		for k, v := range m {
			if f, ok := toFloat(v); ok {
				scores[k] = f
			}
		}
		if len(scores) > 0 {
			payload.CategoryScores = scores
		}
	}

	payload.RedFlags = toStrings(obj[model.FieldRedFlags])

	for _, key := range narrativeKeys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			payload.Narrative = strings.TrimSpace(s)
			break
		}
	}

	if s, ok := obj[model.FieldPersonalityType].(string); ok {
		payload.PersonalityType = strings.TrimSpace(s)
	}

	return payload
}

// toFloat accepts JSON numbers and numeric strings
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// toStrings flattens a JSON array into its non-empty string members
func toStrings(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range arr {
		if s, ok := item.(string); ok {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
