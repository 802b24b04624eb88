package dto

import (
	"time"

	"github.com/google/uuid"

	"ai-studyguide-be/pkg/quiz"
	"ai-studyguide-be/pkg/study"
)

type CreateSessionResponse struct {
	Id           uuid.UUID `json:"id"`
	SessionToken string    `json:"session_token"`
	State        string    `json:"state"`
}

// ShowSessionResponse is the full restorable snapshot: everything the client
// needs to resume exactly where it left off.
type ShowSessionResponse struct {
	Id                uuid.UUID         `json:"id"`
	State             string            `json:"state"`
	Guide             *study.StudyGuide `json:"guide,omitempty"`
	ActiveQuiz        *QuizStateView    `json:"active_quiz,omitempty"`
	ProcessingMessage string            `json:"processing_message,omitempty"`
	LastError         string            `json:"last_error,omitempty"`
	BackgroundTopic   string            `json:"background_topic"`
	SelectedModel     string            `json:"selected_model"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         *time.Time        `json:"updated_at"`
}

type SelectModelRequest struct {
	Model string `json:"model" validate:"required"`
}

type SelectModelResponse struct {
	SelectedModel string `json:"selected_model"`
}

type ResetSessionResponse struct {
	Id    uuid.UUID `json:"id"`
	State string    `json:"state"`
}

// QuizStateView exposes the resumable quiz progress without the answer key.
type QuizStateView struct {
	Title          string         `json:"title"`
	CurrentIndex   int            `json:"current_index"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"total_questions"`
	Answers        map[int]string `json:"answers"`
}

func NewQuizStateView(s *quiz.Session) *QuizStateView {
	if s == nil {
		return nil
	}
	return &QuizStateView{
		Title:          s.Title,
		CurrentIndex:   s.CurrentIndex,
		Score:          s.Score,
		TotalQuestions: len(s.Items),
		Answers:        s.Answers,
	}
}
