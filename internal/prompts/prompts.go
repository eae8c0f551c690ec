// Package prompts builds the system and user prompts sent to the
// provider chain. One builder per operation, plus a relaxed variant
// used when a first response fails the quality gate.
package prompts

import (
	"fmt"
	"strings"

	"github.com/akozyrev/redflag/internal/model"
	"github.com/akozyrev/redflag/internal/score"
)

// Prompting techniques. The selector defaults per operation; requests
// may pin one explicitly.
const (
	TechniqueStandard       = "standard"
	TechniqueChainOfThought = "chain_of_thought"
	TechniqueSelfRefine     = "self_refine"
)

const systemPrompt = `You are a relationship-safety analyst. You assess texts and structured
assessments for manipulation, control, gaslighting, emotional volatility,
coercion and social isolation patterns.

Respond with a single JSON object and nothing else. Schema:
{
  "overall_risk_score": <number 0-100>,
  "urgency_level": "LOW" | "MEDIUM" | "HIGH" | "CRITICAL",
  "block_scores": {"narcissism": <0-10>, "control": <0-10>, "gaslighting": <0-10>, "emotion": <0-10>, "intimacy": <0-10>, "social": <0-10>},
  "red_flags": [<specific observed behaviors, strings>],
  "narrative": <plain-language explanation of the assessment>,
  "personality_type": <short label for the dominant pattern, or "">
}

The urgency_level must match the score: 75 and above CRITICAL, 50-74 HIGH,
25-49 MEDIUM, below 25 LOW. Never diagnose; describe observed patterns.`

// relaxedSystemPrompt trades nuance for format discipline. It is the
// second attempt after a response the parser or gate rejected.
const relaxedSystemPrompt = `You are a relationship-safety analyst. Output exactly one raw JSON
object, no markdown fences, no commentary before or after. Required keys:
overall_risk_score (number 0-100), urgency_level (LOW/MEDIUM/HIGH/CRITICAL,
consistent with the score: >=75 CRITICAL, >=50 HIGH, >=25 MEDIUM, else LOW),
block_scores (object, values 0-10), red_flags (array of strings, at least
two specific items), narrative (string, several sentences).`

// SelectTechnique picks the prompting technique for a request.
// Profiles default to chain-of-thought: they synthesize 28 data points
// and benefit most from explicit reasoning structure.
func SelectTechnique(req *model.AnalysisRequest) string {
	switch req.Technique {
	case TechniqueStandard, TechniqueChainOfThought, TechniqueSelfRefine:
		return req.Technique
	}
	if req.Operation == model.OpPartnerProfile {
		return TechniqueChainOfThought
	}
	return TechniqueStandard
}

// Build returns the system and user prompts for a request. relaxed
// selects the format-disciplined retry variant.
func Build(req *model.AnalysisRequest, relaxed bool) (system, user string) {
	system = systemPrompt
	if relaxed {
		system = relaxedSystemPrompt
	}

	var b strings.Builder
	switch req.Operation {
	case model.OpTextScan:
		b.WriteString("Analyze the following message exchange for relationship risk patterns.\n")
		if req.Context != "" {
			fmt.Fprintf(&b, "Context from the requester: %s\n", req.Context)
		}
		fmt.Fprintf(&b, "\nText:\n%s\n", req.Text)

	case model.OpPartnerProfile:
		b.WriteString("Build a behavioral risk profile of a partner from a structured assessment.\n")
		if req.PartnerName != "" {
			fmt.Fprintf(&b, "The partner is referred to as %s.\n", req.PartnerName)
		}
		if req.Text != "" {
			fmt.Fprintf(&b, "Free-form description from the requester:\n%s\n", req.Text)
		}
		b.WriteString("\nAssessment answers (severity 0 = benign, 4 = most concerning):\n")
		writeAnswers(&b, req.Answers)
		writeTechnique(&b, SelectTechnique(req))

	case model.OpCompatibility:
		b.WriteString("Assess the joint relationship risk of a couple from two structured assessments.\n")
		b.WriteString("Weigh the riskier partner's patterns over the calmer one's.\n")
		b.WriteString("\nPartner A answers (severity 0 = benign, 4 = most concerning):\n")
		writeAnswers(&b, req.Answers)
		b.WriteString("\nPartner B answers:\n")
		writeAnswers(&b, req.AnswersB)
		writeTechnique(&b, SelectTechnique(req))
	}

	if relaxed {
		b.WriteString("\nReturn only the JSON object.")
	}
	return system, b.String()
}

// writeAnswers renders an answer set in bank order, grouped by block
func writeAnswers(b *strings.Builder, answers model.AnswerSet) {
	lastBlock := ""
	for _, q := range score.Questions() {
		idx, ok := answers[q.ID]
		if !ok {
			continue
		}
		if q.Block != lastBlock {
			fmt.Fprintf(b, "[%s]\n", q.Block)
			lastBlock = q.Block
		}
		fmt.Fprintf(b, "  %s: severity %d of 4\n", q.ID, idx)
	}
}

func writeTechnique(b *strings.Builder, technique string) {
	switch technique {
	case TechniqueChainOfThought:
		b.WriteString("\nReason through each behavioral block before scoring it, then emit only the final JSON object.\n")
	case TechniqueSelfRefine:
		b.WriteString("\nDraft the assessment, review it for internal consistency (scores vs urgency vs flags), then emit only the corrected final JSON object.\n")
	}
}
