package model

// Operation identifies one of the three analysis entry points
type Operation string

const (
	// OpTextScan is a free-text toxicity/manipulation scan
	OpTextScan Operation = "text_scan"

	// OpPartnerProfile is the structured questionnaire profiling
	OpPartnerProfile Operation = "partner_profile"

	// OpCompatibility is the pairwise comparison of two answer sets
	OpCompatibility Operation = "compatibility"
)

// AnswerSet maps a question ID (e.g. "control_q3") to the ordinal
// index of the chosen option
type AnswerSet map[string]int

// AnalysisRequest is the immutable input to a single analysis run.
// Text scans carry Text, profiles carry Answers (with Text as an
// optional description), compatibility carries both answer sets.
type AnalysisRequest struct {
	Operation Operation

	// UserID owns the request for rate limiting and cache scoping
	UserID int64

	// Text is the raw conversation text for OpTextScan
	Text string

	// Context is optional free-form framing supplied by the caller
	Context string

	// Answers holds questionnaire answers (side A for compatibility)
	Answers AnswerSet

	// AnswersB holds side B answers for OpCompatibility
	AnswersB AnswerSet

	// PartnerName personalizes the narrative for OpPartnerProfile
	PartnerName string

	// Technique selects a prompt variant ("standard", "chain_of_thought",
	// "self_refine"); empty picks the operation default
	Technique string

	// CacheAllowed permits returning and storing cached results
	CacheAllowed bool

	// BlockOnRateLimit makes Run wait out the rate-limit interval
	// instead of failing fast with ErrRateLimited
	BlockOnRateLimit bool
}
