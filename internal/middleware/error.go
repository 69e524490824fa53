package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/models"
	"github.com/soltixdb/eda/internal/services"
)

// StatusForCode maps a service error code to an HTTP status
func StatusForCode(code string) int {
	switch code {
	case services.CodeInvalidInput:
		return fiber.StatusBadRequest
	case services.CodeTypeMismatch, services.CodeDatasetError:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler returns a custom error handler middleware.
// Service errors keep their code and details; anything unrecognised is
// reported as a 500 without leaking its message.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		detail := models.ErrorDetail{
			Code:    services.CodeInternalError,
			Message: "Internal Server Error",
			Path:    c.Path(),
		}

		var fe *fiber.Error
		var se *services.ServiceError
		switch {
		case errors.As(err, &se):
			status = StatusForCode(se.Code)
			detail.Code = se.Code
			detail.Message = se.Message
			detail.Details = se.Details
		case errors.As(err, &fe):
			status = fe.Code
			detail.Code = "ERROR"
			detail.Message = fe.Message
		}

		fields := []interface{}{
			"path", c.Path(),
			"method", c.Method(),
			"status", status,
			"code", detail.Code,
			"error", err,
		}
		if requestID := logging.RequestID(c.UserContext()); requestID != "" {
			fields = append(fields, "request_id", requestID)
		}
		if status >= fiber.StatusInternalServerError {
			logger.Error("Request error", fields...)
		} else {
			logger.Warn("Request rejected", fields...)
		}

		return c.Status(status).JSON(models.ErrorResponse{Error: detail})
	}
}
