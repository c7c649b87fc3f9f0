// internal/server/chat_handler.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"parche-recommender/internal/catalog"
	apperrors "parche-recommender/internal/common/errors"
	"parche-recommender/internal/common/metrics"
	"parche-recommender/internal/common/validation"
	"parche-recommender/internal/models"
	"parche-recommender/internal/recommendation"
)

type chatHandler struct {
	engine  Responder
	catalog catalog.Snapshotter
	logger  Logger
	timeout time.Duration
}

func (h *chatHandler) handle(c *fiber.Ctx) error {
	start := time.Now()
	reqID := requestIDFrom(c)

	if result := validation.ChatRequest.ValidateBytes(c.Body()); !result.Valid {
		h.logger.Warn("invalid chat request", map[string]interface{}{
			"requestId": reqID,
			"errors":    result.GetErrorMessages(),
		})
		return writeError(c, apperrors.NewInvalidChatRequestError(result.Error()))
	}

	var req models.ChatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return writeError(c, apperrors.NewInvalidChatRequestError(err.Error()))
	}

	query, history, ok := SplitConversation(req.Messages)
	if !ok {
		return writeError(c, apperrors.NewInvalidChatRequestError("no user message"))
	}

	ctx := c.UserContext()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	plans, err := h.catalog.Snapshot(ctx)
	if err != nil {
		h.logger.Error("catalog snapshot failed", map[string]interface{}{
			"requestId": reqID,
			"error":     err.Error(),
		})
		return writeError(c, apperrors.NewCatalogUnavailableError(err))
	}
	metrics.CatalogSnapshotSize.Set(float64(len(plans)))

	resp, err := h.engine.Respond(ctx, recommendation.Request{
		Message: query,
		History: history,
		Catalog: plans,
	})
	if err != nil {
		if errors.Is(err, recommendation.ErrNilCatalog) {
			return apperrors.NewCatalogRequiredError()
		}
		return apperrors.NewInternalError(err)
	}

	metrics.ObserveResponse(string(resp.Source), resp.Intent, resp.FallbackReason, time.Since(start).Seconds())
	h.logger.Info("chat response", map[string]interface{}{
		"requestId":      reqID,
		"source":         string(resp.Source),
		"intent":         resp.Intent,
		"fallbackReason": resp.FallbackReason,
		"references":     len(resp.PlanReferences),
		"durationMs":     time.Since(start).Milliseconds(),
	})

	if resp.Source == models.SourceError {
		status := resp.UpstreamStatus
		if status == 0 {
			status = apperrors.HTTPStatus(apperrors.ErrorCode(resp.ErrorCode))
		}
		return c.Status(status).JSON(errorBody{Error: resp.ErrorCode, Completion: resp.Content})
	}

	refs := resp.PlanReferences
	if refs == nil {
		refs = []models.PlanReference{}
	}
	return c.JSON(chatSuccess{
		Completion:         resp.Content,
		PlanReferences:     refs,
		TypingDelaySeconds: resp.TypingDelaySeconds,
		ConfidenceScore:    resp.ConfidenceScore,
	})
}

// chatSuccess always carries every field, unlike models.ChatResponse.
type chatSuccess struct {
	Completion         string                 `json:"completion"`
	PlanReferences     []models.PlanReference `json:"planReferences"`
	TypingDelaySeconds float64                `json:"typingDelaySeconds"`
	ConfidenceScore    float64                `json:"confidenceScore"`
}

// SplitConversation returns the last user message as the query and every
// earlier non-system message as history.
func SplitConversation(messages []models.ConversationTurn) (string, []models.ConversationTurn, bool) {
	last := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.RoleUser {
			last = i
			break
		}
	}
	if last < 0 {
		return "", nil, false
	}

	history := make([]models.ConversationTurn, 0, last)
	for _, m := range messages[:last] {
		if m.Role == models.RoleSystem {
			continue
		}
		history = append(history, m)
	}
	return messages[last].Content, history, true
}
