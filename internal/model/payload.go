package model

// Canonical payload field names as they appear in provider responses
const (
	FieldOverallScore    = "overall_risk_score"
	FieldUrgency         = "urgency_level"
	FieldCategoryScores  = "block_scores"
	FieldRedFlags        = "red_flags"
	FieldNarrative       = "narrative"
	FieldPersonalityType = "personality_type"
)

// ExtractedPayload is the typed result of salvaging structured data out
// of a raw provider response. Fields absent from the response stay at
// their zero value; HasOverall distinguishes a genuine 0 score.
type ExtractedPayload struct {
	OverallScore    float64            `json:"overall_risk_score"`
	HasOverall      bool               `json:"-"`
	Urgency         string             `json:"urgency_level"`
	CategoryScores  map[string]float64 `json:"block_scores"`
	RedFlags        []string           `json:"red_flags"`
	Narrative       string             `json:"narrative"`
	PersonalityType string             `json:"personality_type"`

	// Strategy is the 1-based index of the cascade step that produced
	// this payload; higher means more aggressively salvaged
	Strategy int `json:"-"`
}

// FieldCount reports how many canonical fields are populated
func (p *ExtractedPayload) FieldCount() int {
	n := 0
	if p.HasOverall {
		n++
	}
	if p.Urgency != "" {
		n++
	}
	if len(p.CategoryScores) > 0 {
		n++
	}
	if len(p.RedFlags) > 0 {
		n++
	}
	if p.Narrative != "" {
		n++
	}
	if p.PersonalityType != "" {
		n++
	}
	return n
}

// QualityVerdict is the rubric evaluation of an extracted payload.
// It never mutates the payload it describes.
type QualityVerdict struct {
	// Score is the additive rubric score in [0,100]
	Score int `json:"score"`

	Pass bool `json:"pass"`

	// Violations lists each rubric rule the payload broke
	Violations []string `json:"violations,omitempty"`
}

// ProviderResponse is the transient record of one upstream call.
// Never persisted.
type ProviderResponse struct {
	Provider  string
	RawText   string
	LatencyMS int64
}
