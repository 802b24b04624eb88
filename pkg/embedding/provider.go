package embedding

import "context"

// Task types understood by the Gemini embedding endpoint. Documents and
// queries are embedded asymmetrically for retrieval.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Provider generates a fixed-dimension embedding for a text.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
