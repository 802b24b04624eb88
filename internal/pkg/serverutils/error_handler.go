package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError is a domain error safe to show the client. Err keeps the
// underlying cause for logs; it is never serialized.
type AppError struct {
	Code    string // stable machine-readable code, e.g. DOMAIN_MISMATCH
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Code: code, Status: status, Message: message}
}

func WrapAppError(status int, code, message string, err error) *AppError {
	return &AppError{Code: code, Status: status, Message: message, Err: err}
}

// ErrorHandlerMiddleware converts any error leaving a controller into the
// JSON envelope. Unknown errors become an opaque 500; raw internals never
// reach the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			body := ErrorResponse(appErr.Status, appErr.Message)
			body.Error = appErr.Code
			return ctx.Status(appErr.Status).JSON(body)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
