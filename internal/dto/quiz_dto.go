package dto

import (
	"ai-studyguide-be/pkg/quiz"
	"ai-studyguide-be/pkg/study"
)

type StartQuizRequest struct {
	// TopicId selects a micro quiz; empty means the final assessment.
	TopicId string `json:"topic_id"`
}

type StartQuizResponse struct {
	Title                 string       `json:"title"`
	TotalQuestions        int          `json:"total_questions"`
	TimeSuggestionMinutes *float64     `json:"time_suggestion_minutes,omitempty"`
	Question              QuestionView `json:"question"`
}

// QuestionView is a quiz item without its answer key; the answer is only
// revealed by the check endpoint.
type QuestionView struct {
	Index    int             `json:"index"`
	Type     string          `json:"type"`
	Stem     string          `json:"stem"`
	Choices  []string        `json:"choices,omitempty"`
	Bloom    string          `json:"bloom"`
	Citation *study.Citation `json:"citation,omitempty"`
	Checked  bool            `json:"checked"`
	Selected string          `json:"selected,omitempty"`
}

type AnswerQuizRequest struct {
	Selected string `json:"selected" validate:"required"`
}

type AnswerQuizResponse struct {
	Correct        bool   `json:"correct"`
	CorrectAnswer  string `json:"correct_answer"`
	Explanation    string `json:"explanation"`
	AlreadyChecked bool   `json:"already_checked"`
	Score          int    `json:"score"`
}

type NextQuestionResponse struct {
	Finished bool          `json:"finished"`
	State    string        `json:"state"`
	Question *QuestionView `json:"question,omitempty"`
}

type QuizResultsResponse struct {
	Title            string                 `json:"title"`
	Score            int                    `json:"score"`
	Total            int                    `json:"total"`
	ScorePercent     float64                `json:"score_percent"`
	IncorrectAnswers []quiz.IncorrectAnswer `json:"incorrect_answers"`
}

type BackToStudyResponse struct {
	State string `json:"state"`
}

func NewQuestionView(s *quiz.Session) QuestionView {
	item := s.Current()
	selected, checked := s.RecordedAnswer(s.CurrentIndex)
	return QuestionView{
		Index:    s.CurrentIndex,
		Type:     item.Type,
		Stem:     item.Stem,
		Choices:  item.Choices,
		Bloom:    item.Bloom,
		Citation: &item.Citation,
		Checked:  checked,
		Selected: selected,
	}
}
