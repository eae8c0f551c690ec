package model

// Source tags which path produced a RiskProfile
type Source string

const (
	SourceAI            Source = "ai"
	SourceDeterministic Source = "deterministic"
)

// UrgencyLevel is the ordinal risk bucket derived from the overall score
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "LOW"
	UrgencyMedium   UrgencyLevel = "MEDIUM"
	UrgencyHigh     UrgencyLevel = "HIGH"
	UrgencyCritical UrgencyLevel = "CRITICAL"
)

// Fixed thresholds on the overall score. A profile's urgency must always
// be the unique tier whose interval contains its overall score.
const (
	CriticalThreshold = 75.0
	HighThreshold     = 50.0
	MediumThreshold   = 25.0
)

// UrgencyFor returns the tier whose threshold interval contains score
func UrgencyFor(score float64) UrgencyLevel {
	switch {
	case score >= CriticalThreshold:
		return UrgencyCritical
	case score >= HighThreshold:
		return UrgencyHigh
	case score >= MediumThreshold:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// AtLeast reports whether u ranks at or above min
func (u UrgencyLevel) AtLeast(min UrgencyLevel) bool {
	return u.Rank() >= min.Rank()
}

// Rank orders tiers for comparison
func (u UrgencyLevel) Rank() int {
	switch u {
	case UrgencyCritical:
		return 3
	case UrgencyHigh:
		return 2
	case UrgencyMedium:
		return 1
	default:
		return 0
	}
}

// ValidUrgency reports whether s is one of the four tiers
func ValidUrgency(s string) bool {
	switch UrgencyLevel(s) {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// RiskProfile is the canonical output of every analysis, produced by
// either the AI path or the deterministic fallback
type RiskProfile struct {
	// CategoryScores are per-category scores in [0,10]
	CategoryScores map[string]float64 `json:"category_scores"`

	// OverallScore is the weighted combination in [0,100]
	OverallScore float64 `json:"overall_score"`

	// Urgency is derived from OverallScore plus override rules
	Urgency UrgencyLevel `json:"urgency_level"`

	// RedFlags are the flagged behavioral items
	RedFlags []string `json:"red_flags"`

	// SafetyAlerts are canned warnings triggered by critical answers
	SafetyAlerts []string `json:"safety_alerts,omitempty"`

	// Narrative is the human-readable analysis text
	Narrative string `json:"narrative"`

	// PersonalityType is a short label (e.g. "Narcissistic controller")
	PersonalityType string `json:"personality_type,omitempty"`

	Source Source `json:"source"`
}

// Metadata describes how a profile was produced
type Metadata struct {
	Source Source `json:"source"`

	// ProviderUsed is the backend that produced the accepted payload,
	// or "none" on the deterministic path
	ProviderUsed string `json:"provider_used"`

	// Attempts counts provider invocations, including quality retries
	Attempts int `json:"attempts"`

	// QualityScore is the accepted payload's rubric score (0 when degraded)
	QualityScore int `json:"quality_score"`

	// ExtractionStrategy is the 1-based cascade step that parsed the
	// accepted response, 0 when degraded or cached
	ExtractionStrategy int `json:"extraction_strategy,omitempty"`

	LatencyMS int64 `json:"latency_ms"`
	CacheHit  bool  `json:"cache_hit"`
}
