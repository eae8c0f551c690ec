package score

// Block names. These double as keys in RiskProfile.CategoryScores, so
// both scoring paths and the extraction layer agree on them.
const (
	BlockNarcissism  = "narcissism"
	BlockControl     = "control"
	BlockGaslighting = "gaslighting"
	BlockEmotion     = "emotion"
	BlockIntimacy    = "intimacy"
	BlockSocial      = "social"
)

// Blocks in presentation order
var Blocks = []string{
	BlockNarcissism,
	BlockControl,
	BlockGaslighting,
	BlockEmotion,
	BlockIntimacy,
	BlockSocial,
}

// Question is one item of the partner assessment. Weight ranks the
// question inside its block; AnswerWeights maps the chosen option index
// to a severity contribution. CriticalFrom marks the option index at
// which the answer fires a safety alert, -1 when the question has none.
type Question struct {
	ID            string
	Block         string
	Weight        int
	AnswerWeights []int
	CriticalFrom  int
	Alert         string
}

var standardAnswerWeights = []int{0, 1, 2, 3, 4}

// questions is the full 28-item bank, six blocks
var questions = []Question{
	{ID: "narcissism_q1", Block: BlockNarcissism, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
	{ID: "narcissism_q2", Block: BlockNarcissism, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
	{ID: "narcissism_q3", Block: BlockNarcissism, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
	{ID: "narcissism_q4", Block: BlockNarcissism, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
	{ID: "narcissism_q5", Block: BlockNarcissism, Weight: 2, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
	{ID: "narcissism_q6", Block: BlockNarcissism, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},

	{ID: "control_q1", Block: BlockControl, Weight: 4, AnswerWeights: standardAnswerWeights, CriticalFrom: 3,
		Alert: "Partner restricts or forbids your social contacts"},
	{ID: "control_q2", Block: BlockControl, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: 3,
		Alert: "Partner monitors your phone, messages and belongings"},
	{ID: "control_q3", Block: BlockControl, Weight: 4, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
	{ID: "control_q4", Block: BlockControl, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: 3,
		Alert: "Partner makes all decisions unilaterally, your opinion is ignored"},
	{ID: "control_q5", Block: BlockControl, Weight: 4, AnswerWeights: standardAnswerWeights, CriticalFrom: 3,
		Alert: "Partner reacts aggressively to your autonomous decisions"},
	{ID: "control_q6", Block: BlockControl, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},

	{ID: "gaslighting_q1", Block: BlockGaslighting, Weight: 4, AnswerWeights: standardAnswerWeights, CriticalFrom: 3,
		Alert: "Partner systematically denies or invalidates your feelings"},
	{ID: "gaslighting_q2", Block: BlockGaslighting, Weight: 4, AnswerWeights: standardAnswerWeights, CriticalFrom: 3,
		Alert: "Partner rewrites conflicts and blames you for inventing them"},
	{ID: "gaslighting_q3", Block: BlockGaslighting, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: 3,
		Alert: "Partner undermines your trust in your own memory"},
	{ID: "gaslighting_q4", Block: BlockGaslighting, Weight: 4, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
	{ID: "gaslighting_q5", Block: BlockGaslighting, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},

	{ID: "emotion_q1", Block: BlockEmotion, Weight: 4, AnswerWeights: standardAnswerWeights, CriticalFrom: 3,
		Alert: "Partner expresses anger through intimidation or physical force"},
	{ID: "emotion_q2", Block: BlockEmotion, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
	{ID: "emotion_q3", Block: BlockEmotion, Weight: 4, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
	{ID: "emotion_q4", Block: BlockEmotion, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},

	{ID: "intimacy_q1", Block: BlockIntimacy, Weight: 4, AnswerWeights: standardAnswerWeights, CriticalFrom: 3,
		Alert: "Partner ignores consent and uses coercion in intimacy"},
	{ID: "intimacy_q2", Block: BlockIntimacy, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
	{ID: "intimacy_q3", Block: BlockIntimacy, Weight: 4, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},

	{ID: "social_q1", Block: BlockSocial, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: 3,
		Alert: "Partner shows a radically different persona in public and in private"},
	{ID: "social_q2", Block: BlockSocial, Weight: 4, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
	{ID: "social_q3", Block: BlockSocial, Weight: 3, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
	{ID: "social_q4", Block: BlockSocial, Weight: 4, AnswerWeights: standardAnswerWeights, CriticalFrom: -1},
}

var questionsByID = func() map[string]Question {
	m := make(map[string]Question, len(questions))
	for _, q := range questions {
		m[q.ID] = q
	}
	return m
}()

// Questions returns the full bank in assessment order
func Questions() []Question {
	return questions
}

// QuestionCount is the expected size of a complete answer set
func QuestionCount() int {
	return len(questions)
}
