package serverutils

import (
	"errors"
	"net/http"

	"mathdoc-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors returned by handlers into the JSON
// envelope. Internal errors are logged and their text withheld.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, log, err)
	}
}

func WriteError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse("http_error", fiberErr.Message, nil))
	}

	status, code := Classify(err)

	var details any
	var verr *ValidationError
	if errors.As(err, &verr) {
		details = verr.Fields
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("HTTP", "request failed", map[string]interface{}{
				"error":  err.Error(),
				"method": ctx.Method(),
				"path":   ctx.Path(),
			})
		}
		message = "internal server error"
	}

	return ctx.Status(status).JSON(ErrorResponse(code, message, details))
}
