package mapper

import (
	"ai-studyguide-be/internal/entity"
	"ai-studyguide-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type GuideEmbeddingMapper struct{}

func NewGuideEmbeddingMapper() *GuideEmbeddingMapper {
	return &GuideEmbeddingMapper{}
}

func (m *GuideEmbeddingMapper) ToEntity(e *model.GuideEmbedding) *entity.GuideEmbedding {
	if e == nil {
		return nil
	}
	return &entity.GuideEmbedding{
		Id:             e.Id,
		SessionId:      e.SessionId,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *GuideEmbeddingMapper) ToEntities(models []*model.GuideEmbedding) []*entity.GuideEmbedding {
	out := make([]*entity.GuideEmbedding, 0, len(models))
	for _, e := range models {
		out = append(out, m.ToEntity(e))
	}
	return out
}

func (m *GuideEmbeddingMapper) ToModel(e *entity.GuideEmbedding) *model.GuideEmbedding {
	if e == nil {
		return nil
	}
	return &model.GuideEmbedding{
		Id:             e.Id,
		SessionId:      e.SessionId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}
