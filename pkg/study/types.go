package study

// Citation anchors a claim to a page of the source document.
type Citation struct {
	Page  float64 `json:"page"`
	Quote string  `json:"quote"`
}

type PrimaryStudyTopic struct {
	TopicId    string     `json:"topic_id"`
	Objectives []string   `json:"objectives"`
	KeyPoints  []string   `json:"key_points"`
	Examples   []string   `json:"examples"`
	Citations  []Citation `json:"citations"`
}

type SecondaryStudyTopic struct {
	TopicId            string     `json:"topic_id"`
	DeepExplanations   []string   `json:"deep_explanations"`
	CommonMisconceptions []string `json:"common_misconceptions"`
	AdvancedNotes      []string   `json:"advanced_notes"`
	Citations          []Citation `json:"citations"`
}

type GlossaryTerm struct {
	Term       string  `json:"term"`
	Definition string  `json:"definition"`
	Page       float64 `json:"page"`
}

type ConceptMapLink struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

const (
	QuizTypeMCQ       = "mcq"
	QuizTypeShort     = "short"
	QuizTypeTrueFalse = "truefalse"
)

// QuizItem is immutable once generated. Answer comparison is always exact
// string equality against the Answer field.
type QuizItem struct {
	Qid         string   `json:"qid"`
	Type        string   `json:"type"`
	Stem        string   `json:"stem"`
	Choices     []string `json:"choices,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Citation    Citation `json:"citation"`
	Bloom       string   `json:"bloom"`
}

type MicroQuizTopic struct {
	TopicId string     `json:"topic_id"`
	Items   []QuizItem `json:"items"`
}

type FinalAssessment struct {
	Items                 []QuizItem `json:"items"`
	TimeSuggestionMinutes float64    `json:"time_suggestion_minutes"`
}

// StudyGuide is the aggregate produced by one successful generation run.
// OriginalContent is set locally after the model responds and is kept for
// provenance and semantic search; it is never sent back to the model.
type StudyGuide struct {
	OriginalContent string                `json:"originalContent"`
	QuickSummary    string                `json:"quick_summary"`
	PrimaryStudy    []PrimaryStudyTopic   `json:"primary_study"`
	SecondaryStudy  []SecondaryStudyTopic `json:"secondary_study"`
	Glossary        []GlossaryTerm        `json:"glossary"`
	ConceptMap      []ConceptMapLink      `json:"concept_map"`
	MicroQuizzes    []MicroQuizTopic      `json:"micro_quizzes"`
	FinalAssessment FinalAssessment       `json:"final_assessment"`
}

// MicroQuiz returns the quiz items for a topic, or nil when the topic has
// no micro-quiz.
func (g *StudyGuide) MicroQuiz(topicId string) []QuizItem {
	for _, q := range g.MicroQuizzes {
		if q.TopicId == topicId {
			return q.Items
		}
	}
	return nil
}

const (
	DomainDentistry       = "dentistry"
	DomainMedicine        = "medicine"
	DomainComputerScience = "computer_science"
	DomainOther           = "other"

	DecisionContinue       = "continue"
	DecisionDomainMismatch = "stop_domain_mismatch"
)

// DomainVerdict is the classifier's answer for one document. The decision
// field is derived by the model from the stated confidence policy and is
// honored verbatim by callers.
type DomainVerdict struct {
	DetectedDomain string   `json:"detected_domain"`
	Confidence     float64  `json:"confidence"`
	Evidence       []string `json:"evidence,omitempty"`
	Decision       string   `json:"decision"`
}
