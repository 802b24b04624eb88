package entity

import (
	"time"

	"github.com/google/uuid"
)

// GuideEmbedding is one embedded chunk of a session's source document.
type GuideEmbedding struct {
	Id             uuid.UUID
	SessionId      uuid.UUID
	Document       string
	EmbeddingValue []float32
	ChunkIndex     int
	CreatedAt      time.Time
}
