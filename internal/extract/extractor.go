package extract

import (
	"fmt"

	"github.com/akozyrev/redflag/internal/model"
)

// minPlausibleFields is the number of canonical fields a parsed span
// must carry before it is accepted as the wanted payload rather than an
// incidental object embedded in prose
const minPlausibleFields = 2

// ExtractionError means no strategy in the cascade produced a payload.
// The orchestrator treats it like a provider transport failure.
type ExtractionError struct {
	Strategies int
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("no extraction strategy succeeded (%d tried)", e.Strategies)
}

// Strategy is one salvage heuristic: raw text in, payload or nil out.
// Strategies are pure; adding a new heuristic is appending to the list.
type Strategy func(raw string) *model.ExtractedPayload

// Extractor converts a raw provider response into a typed payload via
// an ordered cascade of increasingly permissive strategies. Providers
// routinely wrap the wanted structured block in prose or truncate it
// mid-object, so a single strict parse is not enough.
type Extractor struct {
	strategies []Strategy
}

// New creates the extractor with the standard cascade:
//  1. parse the whole text as a structured object
//  2. parse a fenced block labelled as structured data
//  3. scan for the first plausible balanced-brace span
//  4. slice after known introductory markers and rescan
//  5. field-by-field regex reconstruction, partial results allowed
func New() *Extractor {
	return &Extractor{
		strategies: []Strategy{
			parseWhole,
			parseFenced,
			parseBalanced,
			parseAfterMarker,
			reconstructFields,
		},
	}
}

// Extract runs the cascade and tags the result with the 1-based index
// of the strategy that produced it
func (e *Extractor) Extract(raw string) (*model.ExtractedPayload, error) {
	for i, strategy := range e.strategies {
		if payload := strategy(raw); payload != nil {
			payload.Strategy = i + 1
			return payload, nil
		}
	}
	return nil, &ExtractionError{Strategies: len(e.strategies)}
}
