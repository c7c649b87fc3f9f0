// internal/server/middleware.go
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	apperrors "parche-recommender/internal/common/errors"
)

const (
	requestIDHeader = "X-Request-ID"
	clientIDHeader  = "X-Client-ID"
	requestIDKey    = "requestId"
)

// requestID propagates the caller's request id or assigns a new one.
func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(requestIDKey, id)
		c.Set(requestIDHeader, id)
		return c.Next()
	}
}

func requestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

type errorBody struct {
	Error      string `json:"error"`
	Completion string `json:"completion,omitempty"`
}

func writeError(c *fiber.Ctx, stdErr *apperrors.StandardError) error {
	return c.Status(apperrors.HTTPStatus(stdErr.Code)).JSON(errorBody{Error: string(stdErr.Code)})
}

func errorHandler(log Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := apperrors.ErrCodeInternal
			if fiberErr.Code < fiber.StatusInternalServerError {
				code = apperrors.ErrCodeInvalidChatRequest
			}
			if fiberErr.Code == fiber.StatusNotFound {
				return c.Status(fiberErr.Code).JSON(errorBody{Error: fiberErr.Message})
			}
			return c.Status(fiberErr.Code).JSON(errorBody{Error: string(code)})
		}

		stdErr := apperrors.AsStandardError(err)
		log.Error("request failed", map[string]interface{}{
			"requestId": requestIDFrom(c),
			"path":      c.Path(),
			"errorCode": string(stdErr.Code),
			"error":     err.Error(),
		})
		return writeError(c, stdErr)
	}
}
