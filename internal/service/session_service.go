package service

import (
	"context"
	"fmt"
	"log"

	"ai-studyguide-be/internal/constant"
	"ai-studyguide-be/internal/dto"
	"ai-studyguide-be/internal/entity"
	"ai-studyguide-be/internal/pkg/serverutils"
	"ai-studyguide-be/pkg/events"
	pktNats "ai-studyguide-be/pkg/nats"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context) (*dto.CreateSessionResponse, error)
	Show(ctx context.Context, sessionId uuid.UUID) (*dto.ShowSessionResponse, error)
	Reset(ctx context.Context, sessionId uuid.UUID) (*dto.ResetSessionResponse, error)
	SelectModel(ctx context.Context, sessionId uuid.UUID, req *dto.SelectModelRequest) (*dto.SelectModelResponse, error)
}

type sessionService struct {
	store          *SessionStore
	eventPublisher *pktNats.Publisher
}

func NewSessionService(store *SessionStore, eventPublisher *pktNats.Publisher) ISessionService {
	return &sessionService{
		store:          store,
		eventPublisher: eventPublisher,
	}
}

func (c *sessionService) Create(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session := NewSession(uuid.New())
	if err := c.store.Save(ctx, session); err != nil {
		return nil, err
	}

	token, err := serverutils.IssueSessionToken(session.Id)
	if err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		Id:           session.Id,
		SessionToken: token,
		State:        string(session.State),
	}, nil
}

func (c *sessionService) Show(ctx context.Context, sessionId uuid.UUID) (*dto.ShowSessionResponse, error) {
	session, err := c.store.Load(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound()
	}

	return &dto.ShowSessionResponse{
		Id:                session.Id,
		State:             string(session.State),
		Guide:             session.Guide,
		ActiveQuiz:        dto.NewQuizStateView(session.ActiveQuiz),
		ProcessingMessage: session.ProcessingMessage,
		LastError:         session.LastError,
		BackgroundTopic:   session.BackgroundTopic,
		SelectedModel:     session.SelectedModel,
		CreatedAt:         session.CreatedAt,
		UpdatedAt:         session.UpdatedAt,
	}, nil
}

// Reset returns the session to FILE_UPLOAD and clears everything the
// pipeline or a quiz produced. The store performs the whole reset under the
// session lock; clearing the run id invalidates any pipeline goroutine still
// in flight.
func (c *sessionService) Reset(ctx context.Context, sessionId uuid.UUID) (*dto.ResetSessionResponse, error) {
	session, err := c.store.Reset(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound()
	}

	if c.eventPublisher != nil {
		if err := c.eventPublisher.Publish(ctx, events.SessionReset(sessionId)); err != nil {
			log.Printf("[WARN] Failed to publish SESSION_RESET event: %v", err)
		}
	}

	return &dto.ResetSessionResponse{
		Id:    session.Id,
		State: string(session.State),
	}, nil
}

// SelectModel swaps the generation persona. Only meaningful before an
// upload, so any other state is rejected.
func (c *sessionService) SelectModel(ctx context.Context, sessionId uuid.UUID, req *dto.SelectModelRequest) (*dto.SelectModelResponse, error) {
	if !constant.IsKnownModel(req.Model) {
		return nil, errValidation(fmt.Sprintf("unknown model %q", req.Model))
	}

	session, err := c.store.Mutate(ctx, sessionId, func(s *entity.StudySession) error {
		if s.State != entity.StateFileUpload {
			return errConflict("The model can only be changed before uploading a document")
		}
		s.SelectedModel = req.Model
		return nil
	})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound()
	}

	return &dto.SelectModelResponse{
		SelectedModel: session.SelectedModel,
	}, nil
}
