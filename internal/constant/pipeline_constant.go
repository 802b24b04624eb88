package constant

import "time"

// Progress messages published before each pipeline step and on completion.
const (
	ProgressExtractingFmt  = "Extracting text from %s..."
	ProgressVerifyingScope = "Verifying document domain..."
	ProgressGenerating     = "Preparing your personalized study guide..."
	ProgressComplete       = "Analysis complete!"
)

// GuideReadyDelay keeps the completion message visible before the session
// transitions to the study view.
const GuideReadyDelay = 1 * time.Second

// User-facing pipeline failure messages. Raw parser or service errors never
// reach the client.
const (
	MsgEmptyExtraction  = "No text could be extracted from the file. Please try a different file."
	MsgDomainMismatch   = "This application is specialized in dentistry only. Please upload a document related to this field."
	MsgGenerationFailed = "The study guide could not be generated. Please try again."
	MsgPDFProcessing    = "Could not process the PDF file. Please ensure it is not corrupted or password-protected."
	MsgDocxProcessing   = "Could not process the Word document. Please ensure it is not corrupted."
)

// Background topics drive the decorative imagery on the client; they carry
// no functional weight.
const (
	BackgroundUpload = "abstract dental technology"
	BackgroundStudy  = "detailed dental diagram"
	BackgroundQuiz   = "dental examination room"
)

// Chunking parameters for guide embeddings.
const (
	EmbedChunkSize    = 1200
	EmbedChunkOverlap = 150
)
