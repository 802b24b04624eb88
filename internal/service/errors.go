package service

import (
	"ai-studyguide-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// Stable error codes surfaced in the response envelope.
const (
	CodeSessionNotFound   = "SESSION_NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeValidation        = "VALIDATION"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeEmptyExtraction   = "EMPTY_EXTRACTION"
	CodePDFProcessing     = "PDF_PROCESSING"
	CodeDocxProcessing    = "DOCX_PROCESSING"
	CodeDomainMismatch    = "DOMAIN_MISMATCH"
	CodeGenerationFailed  = "GENERATION_FAILED"
)

func errSessionNotFound() *serverutils.AppError {
	return serverutils.NewAppError(fiber.StatusNotFound, CodeSessionNotFound, "Session not found")
}

func errConflict(message string) *serverutils.AppError {
	return serverutils.NewAppError(fiber.StatusConflict, CodeConflict, message)
}

func errValidation(message string) *serverutils.AppError {
	return serverutils.NewAppError(fiber.StatusBadRequest, CodeValidation, message)
}
