package service

import (
	"context"
	"errors"
	"fmt"

	"ai-studyguide-be/internal/constant"
	"ai-studyguide-be/internal/dto"
	"ai-studyguide-be/internal/entity"
	"ai-studyguide-be/pkg/quiz"

	"github.com/google/uuid"
)

const finalAssessmentTitle = "Final Assessment"

type IQuizService interface {
	Start(ctx context.Context, sessionId uuid.UUID, req *dto.StartQuizRequest) (*dto.StartQuizResponse, error)
	Answer(ctx context.Context, sessionId uuid.UUID, req *dto.AnswerQuizRequest) (*dto.AnswerQuizResponse, error)
	Next(ctx context.Context, sessionId uuid.UUID) (*dto.NextQuestionResponse, error)
	Results(ctx context.Context, sessionId uuid.UUID) (*dto.QuizResultsResponse, error)
	BackToStudy(ctx context.Context, sessionId uuid.UUID) (*dto.BackToStudyResponse, error)
}

type quizService struct {
	store *SessionStore
}

func NewQuizService(store *SessionStore) IQuizService {
	return &quizService{
		store: store,
	}
}

// Start begins a micro quiz or, with an empty topic id, the final
// assessment. Any previous quiz on the session is discarded.
func (c *quizService) Start(ctx context.Context, sessionId uuid.UUID, req *dto.StartQuizRequest) (*dto.StartQuizResponse, error) {
	var timeSuggestion *float64

	session, err := c.store.Mutate(ctx, sessionId, func(s *entity.StudySession) error {
		if s.Guide == nil {
			return errConflict("No study guide has been generated for this session yet")
		}
		if s.State != entity.StateStudyTopics && s.State != entity.StateQuizResults {
			return errConflict("A quiz can only be started from the study view")
		}

		quizItems := s.Guide.FinalAssessment.Items
		title := finalAssessmentTitle
		if req.TopicId != "" {
			quizItems = s.Guide.MicroQuiz(req.TopicId)
			if quizItems == nil {
				return errValidation(fmt.Sprintf("no micro quiz exists for topic %q", req.TopicId))
			}
			title = "Quiz: " + req.TopicId
		} else {
			minutes := s.Guide.FinalAssessment.TimeSuggestionMinutes
			timeSuggestion = &minutes
		}

		active, err := quiz.NewSession(quizItems, title)
		if err != nil {
			if errors.Is(err, quiz.ErrNoItems) {
				return errValidation("the selected quiz has no questions")
			}
			return err
		}

		s.ActiveQuiz = active
		s.State = entity.StateQuizInProgress
		s.BackgroundTopic = constant.BackgroundQuiz
		return nil
	})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound()
	}

	return &dto.StartQuizResponse{
		Title:                 session.ActiveQuiz.Title,
		TotalQuestions:        len(session.ActiveQuiz.Items),
		TimeSuggestionMinutes: timeSuggestion,
		Question:              dto.NewQuestionView(session.ActiveQuiz),
	}, nil
}

// Answer locks the selected answer for the current question and reveals the
// outcome. Re-answering a locked question is a no-op re-reveal.
func (c *quizService) Answer(ctx context.Context, sessionId uuid.UUID, req *dto.AnswerQuizRequest) (*dto.AnswerQuizResponse, error) {
	var result *quiz.CheckResult

	session, err := c.store.Mutate(ctx, sessionId, func(s *entity.StudySession) error {
		if s.State != entity.StateQuizInProgress || s.ActiveQuiz == nil {
			return errConflict("No quiz is in progress for this session")
		}

		checked, err := s.ActiveQuiz.Check(req.Selected)
		if err != nil {
			if errors.Is(err, quiz.ErrEmptyAnswer) {
				return errValidation("an answer must be selected")
			}
			return err
		}
		result = checked
		return nil
	})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound()
	}

	return &dto.AnswerQuizResponse{
		Correct:        result.Correct,
		CorrectAnswer:  result.CorrectAnswer,
		Explanation:    result.Explanation,
		AlreadyChecked: result.AlreadyChecked,
		Score:          result.Score,
	}, nil
}

// Next advances the cursor, or finishes the quiz when the current question
// is the last one.
func (c *quizService) Next(ctx context.Context, sessionId uuid.UUID) (*dto.NextQuestionResponse, error) {
	session, err := c.store.Mutate(ctx, sessionId, func(s *entity.StudySession) error {
		if s.State != entity.StateQuizInProgress || s.ActiveQuiz == nil {
			return errConflict("No quiz is in progress for this session")
		}

		if finished := s.ActiveQuiz.Advance(); finished {
			s.State = entity.StateQuizResults
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound()
	}

	if session.State == entity.StateQuizResults {
		return &dto.NextQuestionResponse{
			Finished: true,
			State:    string(session.State),
		}, nil
	}

	question := dto.NewQuestionView(session.ActiveQuiz)
	return &dto.NextQuestionResponse{
		State:    string(session.State),
		Question: &question,
	}, nil
}

// Results computes the final breakdown. The suggested duration is reported
// by Start and never enforced here.
func (c *quizService) Results(ctx context.Context, sessionId uuid.UUID) (*dto.QuizResultsResponse, error) {
	session, err := c.store.Load(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound()
	}
	if session.State != entity.StateQuizResults || session.ActiveQuiz == nil {
		return nil, errConflict("The quiz has not been finished yet")
	}

	summary := session.ActiveQuiz.Results()
	return &dto.QuizResultsResponse{
		Title:            summary.Title,
		Score:            summary.Score,
		Total:            summary.Total,
		ScorePercent:     summary.ScorePercent,
		IncorrectAnswers: summary.IncorrectAnswers,
	}, nil
}

// BackToStudy discards the quiz session and returns to the study view.
func (c *quizService) BackToStudy(ctx context.Context, sessionId uuid.UUID) (*dto.BackToStudyResponse, error) {
	session, err := c.store.Mutate(ctx, sessionId, func(s *entity.StudySession) error {
		if s.State != entity.StateQuizInProgress && s.State != entity.StateQuizResults {
			return errConflict("No quiz is active for this session")
		}
		s.ActiveQuiz = nil
		s.State = entity.StateStudyTopics
		s.BackgroundTopic = constant.BackgroundStudy
		return nil
	})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound()
	}

	return &dto.BackToStudyResponse{
		State: string(session.State),
	}, nil
}
