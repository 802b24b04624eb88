package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-studyguide-be/internal/constant"
	"ai-studyguide-be/internal/dto"
	"ai-studyguide-be/internal/entity"
	"ai-studyguide-be/internal/pkg/logger"
	"ai-studyguide-be/pkg/embedding"
	"ai-studyguide-be/pkg/events"
	"ai-studyguide-be/pkg/extract"
	pktNats "ai-studyguide-be/pkg/nats"
	"ai-studyguide-be/pkg/study"

	"github.com/google/uuid"
)

// searchThreshold is the minimum cosine similarity for semantic search hits.
const searchThreshold = 0.3

// errStaleRun aborts a mutation whose pipeline run token no longer matches
// the session. The result of a stale run is discarded, never merged.
var errStaleRun = errors.New("stale pipeline run")

// ProgressNotifier pushes pipeline progress to connected clients. The
// websocket hub implements it; a nil notifier disables pushes.
type ProgressNotifier interface {
	NotifyProgress(sessionId uuid.UUID, event dto.ProgressEvent)
}

// DocumentUpload carries one uploaded file into the pipeline.
type DocumentUpload struct {
	Filename string
	MimeType string
	Content  []byte
}

type IStudyService interface {
	Upload(ctx context.Context, sessionId uuid.UUID, upload *DocumentUpload) (*dto.UploadDocumentResponse, error)
	ShowGuide(ctx context.Context, sessionId uuid.UUID) (*dto.ShowGuideResponse, error)
	SemanticSearch(ctx context.Context, sessionId uuid.UUID, query string, limit int) ([]*dto.SearchGuideResponse, error)
}

type studyService struct {
	store             *SessionStore
	extractor         *extract.Extractor
	guides            *study.Service
	publisherService  IPublisherService
	embeddingProvider embedding.Provider
	eventPublisher    *pktNats.Publisher
	notifier          ProgressNotifier
	logger            logger.ILogger
}

func NewStudyService(
	store *SessionStore,
	extractor *extract.Extractor,
	guides *study.Service,
	publisherService IPublisherService,
	embeddingProvider embedding.Provider,
	eventPublisher *pktNats.Publisher,
	notifier ProgressNotifier,
	log logger.ILogger,
) IStudyService {
	return &studyService{
		store:             store,
		extractor:         extractor,
		guides:            guides,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		notifier:          notifier,
		logger:            log,
	}
}

// Upload moves the session into PROCESSING and starts the pipeline in the
// background. Exactly one run can be in flight per session; the fresh run
// token invalidates anything older.
func (c *studyService) Upload(ctx context.Context, sessionId uuid.UUID, upload *DocumentUpload) (*dto.UploadDocumentResponse, error) {
	runId := uuid.New()

	session, err := c.store.Mutate(ctx, sessionId, func(s *entity.StudySession) error {
		if s.State == entity.StateProcessing {
			return errConflict("A document is already being processed for this session")
		}
		if s.State != entity.StateFileUpload {
			return errConflict("A study guide already exists; reset the session before uploading again")
		}
		s.State = entity.StateProcessing
		s.ProcessingRunId = &runId
		s.LastError = ""
		s.ProcessingMessage = fmt.Sprintf(constant.ProgressExtractingFmt, upload.Filename)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound()
	}

	c.notify(session, "")
	go c.runPipeline(context.Background(), sessionId, runId, upload, session.SelectedModel)

	return &dto.UploadDocumentResponse{
		SessionId:         session.Id,
		State:             string(session.State),
		ProcessingMessage: session.ProcessingMessage,
	}, nil
}

func (c *studyService) runPipeline(ctx context.Context, sessionId uuid.UUID, runId uuid.UUID, upload *DocumentUpload, model string) {
	c.logger.Info("StudyPipeline", "Pipeline started", map[string]interface{}{
		"session_id": sessionId,
		"run_id":     runId,
		"filename":   upload.Filename,
	})

	text, err := c.extractor.Extract(ctx, upload.Filename, upload.MimeType, upload.Content)
	if err != nil {
		c.failRun(ctx, sessionId, runId, err)
		return
	}
	if strings.TrimSpace(text) == "" {
		c.failRun(ctx, sessionId, runId, extract.ErrEmptyDocument)
		return
	}

	if !c.advance(ctx, sessionId, runId, constant.ProgressVerifyingScope) {
		return
	}

	verdict, err := c.guides.DetectDomain(ctx, text, constant.ClassifierPersona)
	if err != nil {
		c.failRun(ctx, sessionId, runId, err)
		return
	}
	if verdict.Decision == study.DecisionContinue && verdict.Confidence < 0.7 {
		// The verdict is trusted verbatim; the disagreement is only logged.
		c.logger.Warn("StudyPipeline", "Classifier decision disagrees with its confidence", map[string]interface{}{
			"session_id": sessionId,
			"domain":     verdict.DetectedDomain,
			"confidence": verdict.Confidence,
		})
	}
	if verdict.Decision != study.DecisionContinue {
		c.failRun(ctx, sessionId, runId, errDomainMismatch)
		return
	}

	if !c.advance(ctx, sessionId, runId, constant.ProgressGenerating) {
		return
	}

	guide, err := c.guides.GenerateGuide(ctx, text, constant.GenerationPersona(model))
	if err != nil {
		c.failRun(ctx, sessionId, runId, err)
		return
	}

	session, stale := c.withRun(ctx, sessionId, runId, func(s *entity.StudySession) {
		s.Guide = guide
		s.ProcessingMessage = constant.ProgressComplete
	})
	if stale {
		return
	}
	c.notify(session, "")

	// Keep the completion message visible before switching views.
	time.Sleep(constant.GuideReadyDelay)

	session, stale = c.withRun(ctx, sessionId, runId, func(s *entity.StudySession) {
		s.State = entity.StateStudyTopics
		s.BackgroundTopic = constant.BackgroundStudy
		s.ProcessingMessage = ""
		s.ProcessingRunId = nil
	})
	if stale {
		return
	}
	c.notify(session, "")

	c.logger.Info("StudyPipeline", "Study guide ready", map[string]interface{}{
		"session_id":     sessionId,
		"primary_topics": len(guide.PrimaryStudy),
	})

	c.publishEmbedGuide(ctx, sessionId)

	if c.eventPublisher != nil {
		evt := events.GuideGenerated(sessionId, verdict.DetectedDomain, len(guide.PrimaryStudy))
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			c.logger.Warn("StudyPipeline", "Failed to publish GUIDE_GENERATED event", map[string]interface{}{"error": err.Error()})
		}
	}
}

// withRun mutates the session only while the run token still matches. The
// second return value reports a stale run, which the caller must abandon.
func (c *studyService) withRun(ctx context.Context, sessionId uuid.UUID, runId uuid.UUID, fn func(*entity.StudySession)) (*entity.StudySession, bool) {
	session, err := c.store.Mutate(ctx, sessionId, func(s *entity.StudySession) error {
		if !s.OwnsRun(runId) {
			return errStaleRun
		}
		fn(s)
		return nil
	})
	if errors.Is(err, errStaleRun) || session == nil && err == nil {
		c.logger.Info("StudyPipeline", "Discarding stale pipeline result", map[string]interface{}{
			"session_id": sessionId,
			"run_id":     runId,
		})
		return nil, true
	}
	if err != nil {
		c.logger.Error("StudyPipeline", "Failed to persist pipeline progress", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, true
	}
	return session, false
}

func (c *studyService) advance(ctx context.Context, sessionId uuid.UUID, runId uuid.UUID, message string) bool {
	session, stale := c.withRun(ctx, sessionId, runId, func(s *entity.StudySession) {
		s.ProcessingMessage = message
	})
	if stale {
		return false
	}
	c.notify(session, "")
	return true
}

// errDomainMismatch is the pipeline-internal marker for a rejected domain.
var errDomainMismatch = errors.New("document domain mismatch")

// failRun maps a pipeline failure to its user-facing message, clears the
// run and returns the session to FILE_UPLOAD.
func (c *studyService) failRun(ctx context.Context, sessionId uuid.UUID, runId uuid.UUID, cause error) {
	code, message := mapPipelineError(cause)

	c.logger.Warn("StudyPipeline", "Pipeline failed", map[string]interface{}{
		"session_id": sessionId,
		"code":       code,
		"error":      cause.Error(),
	})

	session, stale := c.withRun(ctx, sessionId, runId, func(s *entity.StudySession) {
		s.State = entity.StateFileUpload
		s.Guide = nil
		s.ActiveQuiz = nil
		s.ProcessingMessage = ""
		s.LastError = message
		s.BackgroundTopic = constant.BackgroundUpload
		s.ProcessingRunId = nil
	})
	if stale {
		return
	}
	c.notify(session, code)
}

func mapPipelineError(err error) (code string, message string) {
	var unsupported *extract.UnsupportedFormatError
	switch {
	case errors.As(err, &unsupported):
		return CodeUnsupportedFormat, unsupported.Error()
	case errors.Is(err, extract.ErrEmptyDocument):
		return CodeEmptyExtraction, constant.MsgEmptyExtraction
	case errors.Is(err, extract.ErrPDFProcessing):
		return CodePDFProcessing, constant.MsgPDFProcessing
	case errors.Is(err, extract.ErrDocxProcessing):
		return CodeDocxProcessing, constant.MsgDocxProcessing
	case errors.Is(err, errDomainMismatch):
		return CodeDomainMismatch, constant.MsgDomainMismatch
	default:
		return CodeGenerationFailed, constant.MsgGenerationFailed
	}
}

func (c *studyService) notify(session *entity.StudySession, errorCode string) {
	if c.notifier == nil || session == nil {
		return
	}
	c.notifier.NotifyProgress(session.Id, dto.ProgressEvent{
		SessionId: session.Id,
		State:     string(session.State),
		Message:   session.ProcessingMessage,
		Error:     session.LastError,
		ErrorCode: errorCode,
	})
}

func (c *studyService) publishEmbedGuide(ctx context.Context, sessionId uuid.UUID) {
	payload, err := json.Marshal(dto.PublishEmbedGuideMessage{SessionId: sessionId})
	if err != nil {
		return
	}
	if err := c.publisherService.Publish(ctx, payload); err != nil {
		c.logger.Warn("StudyPipeline", "Failed to queue guide embedding", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func (c *studyService) ShowGuide(ctx context.Context, sessionId uuid.UUID) (*dto.ShowGuideResponse, error) {
	session, err := c.store.Load(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound()
	}
	if session.Guide == nil {
		return nil, errConflict("No study guide has been generated for this session yet")
	}
	return &dto.ShowGuideResponse{Guide: session.Guide}, nil
}

// SemanticSearch ranks the session's guide chunks against the query.
func (c *studyService) SemanticSearch(ctx context.Context, sessionId uuid.UUID, query string, limit int) ([]*dto.SearchGuideResponse, error) {
	session, err := c.store.Load(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound()
	}
	if session.Guide == nil {
		return nil, errConflict("No study guide has been generated for this session yet")
	}

	vector, err := c.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	uow := c.store.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.GuideEmbeddingRepository().SearchSimilarWithScore(ctx, vector, limit, sessionId, searchThreshold)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.SearchGuideResponse, 0, len(scored))
	for _, s := range scored {
		results = append(results, &dto.SearchGuideResponse{
			Document:       s.Embedding.Document,
			ChunkIndex:     s.Embedding.ChunkIndex,
			RelevanceScore: s.Similarity,
		})
	}
	return results, nil
}
