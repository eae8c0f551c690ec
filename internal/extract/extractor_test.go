package extract

import (
	"errors"
	"testing"

	"github.com/akozyrev/redflag/internal/model"
)

const wantedObject = `{
	"overall_risk_score": 62.5,
	"urgency_level": "HIGH",
	"block_scores": {"control": 7.5, "gaslighting": 6.0},
	"red_flags": ["Restricts contacts", "Denies events"],
	"narrative": "Controlling and invalidating patterns were observed.",
	"personality_type": "Controlling-dominant"
}`

func mustExtract(t *testing.T, raw string) *model.ExtractedPayload {
	t.Helper()
	payload, err := New().Extract(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return payload
}

func assertWanted(t *testing.T, p *model.ExtractedPayload) {
	t.Helper()
	if !p.HasOverall || p.OverallScore != 62.5 {
		t.Errorf("overall = %.1f (has %v), want 62.5", p.OverallScore, p.HasOverall)
	}
	if p.Urgency != "HIGH" {
		t.Errorf("urgency = %q, want HIGH", p.Urgency)
	}
	if p.CategoryScores["control"] != 7.5 {
		t.Errorf("control = %.1f, want 7.5", p.CategoryScores["control"])
	}
	if len(p.RedFlags) != 2 {
		t.Errorf("flags = %v, want 2", p.RedFlags)
	}
	if p.Narrative == "" {
		t.Error("narrative empty")
	}
}

func TestExtractCleanObject(t *testing.T) {
	p := mustExtract(t, wantedObject)
	assertWanted(t, p)
	if p.Strategy != 1 {
		t.Errorf("strategy = %d, want 1 (whole parse)", p.Strategy)
	}
}

func TestExtractFencedBlock(t *testing.T) {
	raw := "Here is my analysis.\n```json\n" + wantedObject + "\n```\nLet me know if you need more."
	p := mustExtract(t, raw)
	assertWanted(t, p)
	if p.Strategy != 2 {
		t.Errorf("strategy = %d, want 2 (fenced)", p.Strategy)
	}
}

func TestExtractObjectEmbeddedInProse(t *testing.T) {
	raw := "Based on the provided exchange I assess the following risks. " +
		wantedObject + " Overall the situation warrants attention."
	p := mustExtract(t, raw)
	assertWanted(t, p)
	if p.Strategy != 3 {
		t.Errorf("strategy = %d, want 3 (balanced scan)", p.Strategy)
	}
}

func TestExtractAfterMarker(t *testing.T) {
	// A decoy object without canonical fields precedes the marker;
	// maxBalancedCandidates worth of such spans would defeat the plain
	// balanced scan, the marker slice skips past them
	decoys := ""
	for i := 0; i < 20; i++ {
		decoys += `{"step": 1, "thought": "reasoning"} `
	}
	raw := decoys + "\nFinal answer: " + wantedObject
	p := mustExtract(t, raw)
	assertWanted(t, p)
	if p.Strategy != 4 {
		t.Errorf("strategy = %d, want 4 (marker)", p.Strategy)
	}
}

func TestExtractTruncatedResponse(t *testing.T) {
	// Cut mid-array: no balanced span exists anywhere
	raw := `{
		"overall_risk_score": 81,
		"urgency_level": "CRITICAL",
		"block_scores": {"emotion": 9.0, "control": 8.0},
		"red_flags": ["Explicit threats", "Rage episo`
	p := mustExtract(t, raw)

	if p.Strategy != 5 {
		t.Fatalf("strategy = %d, want 5 (field reconstruction)", p.Strategy)
	}
	if !p.HasOverall || p.OverallScore != 81 {
		t.Errorf("overall = %.1f, want 81", p.OverallScore)
	}
	if p.Urgency != "CRITICAL" {
		t.Errorf("urgency = %q, want CRITICAL", p.Urgency)
	}
	if p.CategoryScores["emotion"] != 9.0 {
		t.Errorf("emotion = %.1f, want 9.0", p.CategoryScores["emotion"])
	}
	if len(p.RedFlags) == 0 {
		t.Error("no flags recovered from the truncated array")
	}
}

func TestExtractToleratesLooseTypes(t *testing.T) {
	raw := `{
		"overall_risk_score": "55",
		"urgency_level": " high ",
		"block_scores": {"control": "6", "gaslighting": 4}
	}`
	p := mustExtract(t, raw)

	if !p.HasOverall || p.OverallScore != 55 {
		t.Errorf("string-typed overall not coerced: %.1f", p.OverallScore)
	}
	if p.Urgency != "HIGH" {
		t.Errorf("urgency = %q, want normalized HIGH", p.Urgency)
	}
	if p.CategoryScores["control"] != 6 {
		t.Errorf("string-typed block score not coerced: %v", p.CategoryScores)
	}
}

func TestExtractNarrativeAliases(t *testing.T) {
	for _, key := range []string{"narrative", "psychological_profile", "analysis", "summary"} {
		raw := `{"overall_risk_score": 30, "` + key + `": "The observed pattern."}`
		p := mustExtract(t, raw)
		if p.Narrative != "The observed pattern." {
			t.Errorf("alias %q: narrative = %q", key, p.Narrative)
		}
	}
}

func TestExtractRejectsIncidentalObjects(t *testing.T) {
	// Parses fine but carries no canonical field; the cascade must not
	// accept it as the payload
	_, err := New().Extract(`{"name": "test", "value": 3}`)
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("err = %v, want *ExtractionError", err)
	}
}

func TestExtractFailsOnProse(t *testing.T) {
	_, err := New().Extract("I cannot produce a structured assessment for this input.")
	if err == nil {
		t.Fatal("prose accepted as payload")
	}
}

func TestExtractInvalidUrgencyDropped(t *testing.T) {
	p := mustExtract(t, `{"overall_risk_score": 10, "urgency_level": "SEVERE", "narrative": "Fine."}`)
	if p.Urgency != "" {
		t.Errorf("invalid urgency kept: %q", p.Urgency)
	}
}

func TestExtractUnclosedStringDoesNotHang(t *testing.T) {
	p, err := New().Extract(`{"overall_risk_score": 20, "narrative": "unterminated`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !p.HasOverall {
		t.Error("overall not recovered next to the unclosed string")
	}
}
