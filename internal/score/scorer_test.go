package score

import (
	"reflect"
	"strings"
	"testing"

	"github.com/akozyrev/redflag/internal/model"
)

func fullAnswers(option int) model.AnswerSet {
	answers := make(model.AnswerSet, QuestionCount())
	for _, q := range Questions() {
		answers[q.ID] = option
	}
	return answers
}

func TestAnswersAllMax(t *testing.T) {
	profile := Answers(fullAnswers(4))

	if profile.OverallScore != 100 {
		t.Errorf("overall = %.1f, want 100", profile.OverallScore)
	}
	if profile.Urgency != model.UrgencyCritical {
		t.Errorf("urgency = %s, want CRITICAL", profile.Urgency)
	}
	if profile.Source != model.SourceDeterministic {
		t.Errorf("source = %s, want deterministic", profile.Source)
	}
	for _, block := range Blocks {
		if profile.CategoryScores[block] != 10 {
			t.Errorf("block %s = %.1f, want 10", block, profile.CategoryScores[block])
		}
	}
	if len(profile.SafetyAlerts) == 0 {
		t.Error("expected safety alerts for all-critical answers")
	}
	if len(profile.RedFlags) != len(Blocks) {
		t.Errorf("red flags = %d, want one per block", len(profile.RedFlags))
	}
	if profile.Narrative == "" {
		t.Error("expected non-empty narrative")
	}
}

func TestAnswersAllMin(t *testing.T) {
	profile := Answers(fullAnswers(0))

	if profile.OverallScore != 0 {
		t.Errorf("overall = %.1f, want 0", profile.OverallScore)
	}
	if profile.Urgency != model.UrgencyLow {
		t.Errorf("urgency = %s, want LOW", profile.Urgency)
	}
	if len(profile.RedFlags) != 0 {
		t.Errorf("unexpected red flags: %v", profile.RedFlags)
	}
	if len(profile.SafetyAlerts) != 0 {
		t.Errorf("unexpected safety alerts: %v", profile.SafetyAlerts)
	}
}

func TestAnswersDeterministic(t *testing.T) {
	answers := fullAnswers(2)
	answers["control_q1"] = 4
	answers["gaslighting_q3"] = 0

	first := Answers(answers)
	second := Answers(answers)
	if !reflect.DeepEqual(first, second) {
		t.Error("same answers produced different profiles")
	}
}

func TestAnswersPartialSet(t *testing.T) {
	answers := model.AnswerSet{
		"narcissism_q1": 4,
		"narcissism_q2": 4,
		"unknown_q9":    4,
	}
	profile := Answers(answers)

	if len(profile.CategoryScores) != 1 {
		t.Fatalf("categories = %v, want narcissism only", profile.CategoryScores)
	}
	if profile.CategoryScores[BlockNarcissism] != 10 {
		t.Errorf("narcissism = %.1f, want 10", profile.CategoryScores[BlockNarcissism])
	}
}

func TestUrgencyConsistentWithOverall(t *testing.T) {
	for option := 0; option <= 4; option++ {
		profile := Answers(fullAnswers(option))
		want := UrgencyWithCeiling(profile.OverallScore, profile.CategoryScores)
		if profile.Urgency != want {
			t.Errorf("option %d: urgency %s does not match score %.1f", option, profile.Urgency, profile.OverallScore)
		}
	}
}

func TestUrgencyCeilingRaisesTier(t *testing.T) {
	categories := map[string]float64{BlockControl: 9.0, BlockEmotion: 0}
	if got := UrgencyWithCeiling(12, categories); got != model.UrgencyHigh {
		t.Errorf("urgency = %s, want HIGH from category ceiling", got)
	}

	// Ceiling never lowers a tier
	if got := UrgencyWithCeiling(80, categories); got != model.UrgencyCritical {
		t.Errorf("urgency = %s, want CRITICAL preserved", got)
	}
}

func TestSafetyAlertTriggers(t *testing.T) {
	cases := []struct {
		name   string
		answer int
		want   bool
	}{
		{"below threshold", 2, false},
		{"at threshold", 3, true},
		{"most severe", 4, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alerts := SafetyAlerts(model.AnswerSet{"intimacy_q1": tc.answer})
			if got := len(alerts) > 0; got != tc.want {
				t.Errorf("answer %d: alert fired = %v, want %v", tc.answer, got, tc.want)
			}
		})
	}
}

func TestValidateAnswers(t *testing.T) {
	if err := ValidateAnswers(fullAnswers(1)); err != nil {
		t.Errorf("complete set rejected: %v", err)
	}

	missing := fullAnswers(1)
	delete(missing, "emotion_q2")
	if err := ValidateAnswers(missing); err == nil {
		t.Error("missing answer accepted")
	}

	outOfRange := fullAnswers(1)
	outOfRange["social_q1"] = 5
	if err := ValidateAnswers(outOfRange); err == nil {
		t.Error("out-of-range answer accepted")
	}

	unknown := fullAnswers(1)
	unknown["social_q99"] = 1
	if err := ValidateAnswers(unknown); err == nil {
		t.Error("unknown question accepted")
	}
}

func TestTextBenign(t *testing.T) {
	profile := Text("We talked about the weekend and agreed to visit her parents. He cooked dinner.")

	if profile.OverallScore != 0 {
		t.Errorf("overall = %.1f, want 0", profile.OverallScore)
	}
	if profile.Urgency != model.UrgencyLow {
		t.Errorf("urgency = %s, want LOW", profile.Urgency)
	}
	if len(profile.RedFlags) != 0 {
		t.Errorf("unexpected flags: %v", profile.RedFlags)
	}
}

func TestTextAbusive(t *testing.T) {
	sample := "He said I'm worthless and that's never happened, I forbid you to go out, " +
		"show me your phone, you're crazy, I'll kill you if you leave, " +
		"no one will ever love you, only I understand you."
	profile := Text(sample)

	if !profile.Urgency.AtLeast(model.UrgencyHigh) {
		t.Errorf("urgency = %s (score %.1f), want at least HIGH", profile.Urgency, profile.OverallScore)
	}
	if len(profile.RedFlags) < 3 {
		t.Errorf("flags = %v, want at least 3 distinct markers", profile.RedFlags)
	}
	if profile.CategoryScores[BlockEmotion] == 0 {
		t.Error("explicit threat did not register in the emotion block")
	}
}

func TestTextCaseInsensitive(t *testing.T) {
	if p := Text("YOU'RE CRAZY and THAT NEVER HAPPENED"); p.CategoryScores[BlockGaslighting] == 0 {
		t.Error("uppercase markers not matched")
	}
}

func TestCompatibilityRiskierPartnerDominates(t *testing.T) {
	risky := fullAnswers(4)
	calm := fullAnswers(0)

	profile := Compatibility(risky, calm)

	// 0.6*100 + 0.4*50
	if profile.OverallScore != 80 {
		t.Errorf("overall = %.1f, want 80", profile.OverallScore)
	}
	if profile.Urgency != model.UrgencyCritical {
		t.Errorf("urgency = %s, want CRITICAL", profile.Urgency)
	}
	if len(profile.SafetyAlerts) == 0 {
		t.Error("risky partner's safety alerts missing from the pairing")
	}

	frictions := 0
	for _, f := range profile.RedFlags {
		if strings.Contains(f, "gap between partners") {
			frictions++
		}
	}
	if frictions != len(Blocks) {
		t.Errorf("friction flags = %d, want one per block", frictions)
	}
}

func TestCompatibilityOrderInsensitiveScore(t *testing.T) {
	a := fullAnswers(3)
	b := fullAnswers(1)

	ab := Compatibility(a, b)
	ba := Compatibility(b, a)
	if ab.OverallScore != ba.OverallScore || ab.Urgency != ba.Urgency {
		t.Errorf("pair order changed the result: %.1f/%s vs %.1f/%s",
			ab.OverallScore, ab.Urgency, ba.OverallScore, ba.Urgency)
	}
}

func TestCompatibilityBothCalm(t *testing.T) {
	profile := Compatibility(fullAnswers(0), fullAnswers(0))
	if profile.OverallScore != 0 || profile.Urgency != model.UrgencyLow {
		t.Errorf("got %.1f/%s, want 0/LOW", profile.OverallScore, profile.Urgency)
	}
}
