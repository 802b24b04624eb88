package unitofwork

import (
	"context"

	"ai-studyguide-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	StudySessionRepository() contract.StudySessionRepository
	GuideEmbeddingRepository() contract.GuideEmbeddingRepository
}
