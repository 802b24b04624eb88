package dto

import (
	"github.com/google/uuid"

	"ai-studyguide-be/pkg/study"
)

type UploadDocumentResponse struct {
	SessionId         uuid.UUID `json:"session_id"`
	State             string    `json:"state"`
	ProcessingMessage string    `json:"processing_message"`
}

type ShowGuideResponse struct {
	Guide *study.StudyGuide `json:"guide"`
}

// ProgressEvent is pushed over the progress websocket for each pipeline
// stage change.
type ProgressEvent struct {
	SessionId uuid.UUID `json:"session_id"`
	State     string    `json:"state"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorCode string    `json:"error_code,omitempty"`
}

// PublishEmbedGuideMessage is the payload of the internal embed-guide queue.
type PublishEmbedGuideMessage struct {
	SessionId uuid.UUID `json:"session_id"`
}

type SearchGuideResponse struct {
	Document       string  `json:"document"`
	ChunkIndex     int     `json:"chunk_index"`
	RelevanceScore float64 `json:"relevance_score"`
}
