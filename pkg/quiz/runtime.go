// Package quiz walks an ordered list of quiz items and tracks answers.
package quiz

import (
	"errors"

	"ai-studyguide-be/pkg/study"
)

var (
	ErrNoItems     = errors.New("quiz has no items")
	ErrEmptyAnswer = errors.New("an answer must be selected before checking")
)

// Session is the mutable state of one quiz run. It is serialized into the
// persisted progress snapshot, so every field must survive a JSON round trip.
type Session struct {
	Items        []study.QuizItem `json:"items"`
	Title        string           `json:"title"`
	CurrentIndex int              `json:"current_index"`
	Score        int              `json:"score"`
	// Answers maps question index -> submitted answer. An entry exists iff
	// the question was checked; its presence locks the question.
	Answers map[int]string `json:"answers"`
}

func NewSession(items []study.QuizItem, title string) (*Session, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	return &Session{
		Items:   items,
		Title:   title,
		Answers: map[int]string{},
	}, nil
}

// Current returns the item under the cursor.
func (s *Session) Current() study.QuizItem {
	return s.Items[s.CurrentIndex]
}

// Checked reports whether the given question is already locked.
func (s *Session) Checked(index int) bool {
	_, ok := s.Answers[index]
	return ok
}

// RecordedAnswer returns the submitted answer for a question, if any.
func (s *Session) RecordedAnswer(index int) (string, bool) {
	answer, ok := s.Answers[index]
	return answer, ok
}

// CheckResult is what gets revealed once an answer is locked.
type CheckResult struct {
	Correct        bool   `json:"correct"`
	CorrectAnswer  string `json:"correct_answer"`
	Explanation    string `json:"explanation"`
	AlreadyChecked bool   `json:"already_checked"`
	Score          int    `json:"score"`
}

// Check locks the selected answer for the current question. Checking an
// already-locked question is a no-op that re-reveals the recorded outcome;
// the score never changes twice for one index.
func (s *Session) Check(selected string) (*CheckResult, error) {
	item := s.Current()

	if recorded, ok := s.Answers[s.CurrentIndex]; ok {
		return &CheckResult{
			Correct:        recorded == item.Answer,
			CorrectAnswer:  item.Answer,
			Explanation:    item.Explanation,
			AlreadyChecked: true,
			Score:          s.Score,
		}, nil
	}

	if selected == "" {
		return nil, ErrEmptyAnswer
	}

	s.Answers[s.CurrentIndex] = selected
	correct := selected == item.Answer
	if correct {
		s.Score++
	}

	return &CheckResult{
		Correct:       correct,
		CorrectAnswer: item.Answer,
		Explanation:   item.Explanation,
		Score:         s.Score,
	}, nil
}

// Advance moves to the next question. It returns true when the session is
// finished, which happens when Advance is called on the last item.
func (s *Session) Advance() bool {
	if s.CurrentIndex < len(s.Items)-1 {
		s.CurrentIndex++
		return false
	}
	return true
}

// IncorrectAnswer is one row of the results breakdown.
type IncorrectAnswer struct {
	Stem          string `json:"stem"`
	UserAnswer    string `json:"user_answer"`
	Answered      bool   `json:"answered"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// Summary is the final-results view of a session.
type Summary struct {
	Title            string            `json:"title"`
	Score            int               `json:"score"`
	Total            int               `json:"total"`
	ScorePercent     float64           `json:"score_percent"`
	IncorrectAnswers []IncorrectAnswer `json:"incorrect_answers"`
}

// Results recomputes the summary from recorded answers. An item counts as
// incorrect when its recorded answer does not exactly equal the item's
// answer, including items that were never answered.
func (s *Session) Results() *Summary {
	summary := &Summary{
		Title: s.Title,
		Score: s.Score,
		Total: len(s.Items),
	}
	if summary.Total > 0 {
		summary.ScorePercent = float64(s.Score) / float64(summary.Total) * 100
	}

	for i, item := range s.Items {
		answer, answered := s.Answers[i]
		if answered && answer == item.Answer {
			continue
		}
		summary.IncorrectAnswers = append(summary.IncorrectAnswers, IncorrectAnswer{
			Stem:          item.Stem,
			UserAnswer:    answer,
			Answered:      answered,
			CorrectAnswer: item.Answer,
			Explanation:   item.Explanation,
		})
	}

	return summary
}
