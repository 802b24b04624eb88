package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-studyguide-be/internal/constant"
	"ai-studyguide-be/internal/dto"
	"ai-studyguide-be/internal/entity"
	"ai-studyguide-be/internal/repository/unitofwork"
	"ai-studyguide-be/pkg/embedding"
	"ai-studyguide-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService turns queued guides into pgvector rows. Embedding runs
// entirely off the request path; a failure here never touches the session
// state machine.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	store             *SessionStore
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	store *SessionStore,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		store:             store,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedGuideMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // invalid payloads are never retriable
		return
	}

	log.Printf("[INFO] Embedding guide for session %s", payload.SessionId)

	session, err := cs.store.Load(ctx, payload.SessionId)
	if err != nil {
		log.Printf("[ERROR] Failed to load session %s: %v", payload.SessionId, err)
		msg.Nack()
		return
	}
	if session == nil || session.Guide == nil {
		// Session reset or gone before we got here.
		log.Printf("[INFO] Session %s has no guide anymore, skipping", payload.SessionId)
		msg.Ack()
		return
	}

	chunks := utils.SplitText(session.Guide.OriginalContent, constant.EmbedChunkSize, constant.EmbedChunkOverlap)
	log.Printf("[INFO] Guide source split into %d chunks", len(chunks))

	var newEmbeddings []*entity.GuideEmbedding
	for i, chunk := range chunks {
		vector, err := cs.embeddingProvider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of session %s: %v", i, payload.SessionId, err)
			msg.Nack()
			return
		}
		newEmbeddings = append(newEmbeddings, &entity.GuideEmbedding{
			Id:             uuid.New(),
			SessionId:      payload.SessionId,
			Document:       chunk,
			EmbeddingValue: vector,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.GuideEmbeddingRepository().DeleteBySessionId(ctx, payload.SessionId); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}
	if len(newEmbeddings) > 0 {
		if err := uow.GuideEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create embeddings: %v", err)
			msg.Nack()
			return
		}
	}
	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit embeddings: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Stored %d embedding chunks for session %s", len(newEmbeddings), payload.SessionId)
	msg.Ack()
}
