package entity

import (
	"time"

	"ai-studyguide-be/pkg/quiz"
	"ai-studyguide-be/pkg/study"

	"github.com/google/uuid"
)

// AppState is the stage of the session state machine.
type AppState string

const (
	StateFileUpload     AppState = "FILE_UPLOAD"
	StateProcessing     AppState = "PROCESSING"
	StateStudyTopics    AppState = "STUDY_TOPICS"
	StateQuizInProgress AppState = "QUIZ_IN_PROGRESS"
	StateQuizResults    AppState = "QUIZ_RESULTS"
)

func (s AppState) Valid() bool {
	switch s {
	case StateFileUpload, StateProcessing, StateStudyTopics, StateQuizInProgress, StateQuizResults:
		return true
	}
	return false
}

// StudySession is the aggregate the state machine operates on. Exactly one
// StudyGuide is active per session; ActiveQuiz, when present, always indexes
// into items belonging to that guide.
type StudySession struct {
	Id    uuid.UUID
	State AppState

	Guide      *study.StudyGuide
	ActiveQuiz *quiz.Session

	ProcessingMessage string
	LastError         string
	BackgroundTopic   string
	SelectedModel     string

	// ProcessingRunId is the in-flight run token. A pipeline goroutine may
	// only mutate the session while its token matches this field.
	ProcessingRunId *uuid.UUID

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// OwnsRun reports whether the given run token is still the current one.
func (s *StudySession) OwnsRun(runId uuid.UUID) bool {
	return s.ProcessingRunId != nil && *s.ProcessingRunId == runId
}
