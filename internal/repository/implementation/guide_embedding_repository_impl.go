package implementation

import (
	"context"

	"ai-studyguide-be/internal/entity"
	"ai-studyguide-be/internal/mapper"
	"ai-studyguide-be/internal/model"
	"ai-studyguide-be/internal/repository/contract"
	"ai-studyguide-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type GuideEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GuideEmbeddingMapper
}

func NewGuideEmbeddingRepository(db *gorm.DB) contract.GuideEmbeddingRepository {
	return &GuideEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewGuideEmbeddingMapper(),
	}
}

func (r *GuideEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GuideEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.GuideEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.GuideEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *GuideEmbeddingRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	query := specification.BySessionId{SessionId: sessionId}.Apply(r.db.WithContext(ctx).Unscoped())
	return query.Delete(&model.GuideEmbedding{}).Error
}

func (r *GuideEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GuideEmbedding, error) {
	var models []*model.GuideEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *GuideEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.GuideEmbedding{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchSimilarWithScore returns the session's chunks ranked by cosine
// similarity to the query vector, filtered by threshold.
func (r *GuideEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, sessionId uuid.UUID, threshold float64) ([]*contract.ScoredGuideEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding_value <=> query) recovers the similarity.
	type result struct {
		model.GuideEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("guide_embeddings").
		Select("guide_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("session_id = ?", sessionId).
		Where("deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredGuideEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredGuideEmbedding{
			Embedding:  r.mapper.ToEntity(&res.GuideEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
