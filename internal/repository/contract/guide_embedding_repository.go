package contract

import (
	"context"

	"ai-studyguide-be/internal/entity"
	"ai-studyguide-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredGuideEmbedding pairs a chunk with its cosine similarity to a query.
type ScoredGuideEmbedding struct {
	Embedding  *entity.GuideEmbedding
	Similarity float64
}

type GuideEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.GuideEmbedding) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GuideEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, sessionId uuid.UUID, threshold float64) ([]*ScoredGuideEmbedding, error)
}
