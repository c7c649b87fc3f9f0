// internal/recommendation/engine.go
package recommendation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "parche-recommender/internal/common/errors"
	"parche-recommender/internal/models"
)

var (
	ErrNilCatalog      = errors.New("CATALOG_REQUIRED")
	errEmptyCompletion = errors.New("EMPTY_COMPLETION")
)

// Completer calls a remote language model with a full conversation and
// returns its completion text. Errors that expose HTTPStatus() decide
// whether the engine surfaces them or recovers locally.
type Completer interface {
	Complete(ctx context.Context, messages []models.ConversationTurn) (string, error)
}

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

type Request struct {
	Message string
	History []models.ConversationTurn
	Catalog []models.PlanRecord
}

// Engine answers chat messages, preferring the remote completer and falling
// back to the local pipeline. It holds no per-request state.
type Engine struct {
	completer     Completer
	newRand       RandFactory
	remoteTimeout time.Duration
	logger        Logger
}

type Option func(*Engine)

func WithCompleter(c Completer) Option {
	return func(e *Engine) { e.completer = c }
}

func WithRandFactory(f RandFactory) Option {
	return func(e *Engine) { e.newRand = f }
}

// WithRemoteTimeout bounds the remote call; zero leaves it to the caller.
func WithRemoteTimeout(d time.Duration) Option {
	return func(e *Engine) { e.remoteTimeout = d }
}

func WithLogger(l Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		newRand: DefaultRandFactory,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Respond produces the response for one message. The only error returned is
// ErrNilCatalog; every other failure ends in a well-formed response.
func (e *Engine) Respond(ctx context.Context, req Request) (models.EngineResponse, error) {
	if req.Catalog == nil {
		return models.EngineResponse{}, ErrNilCatalog
	}
	rng := e.newRand()

	if e.completer == nil {
		resp := RunLocal(req.Message, req.History, req.Catalog, rng)
		resp.TypingDelaySeconds = typingDelay(rng)
		return resp, nil
	}

	completion, err := e.complete(ctx, req)
	if err == nil {
		return models.EngineResponse{
			Content:            completion,
			PlanReferences:     ExtractReferences(completion, req.Catalog),
			TypingDelaySeconds: typingDelay(rng),
			ConfidenceScore:    RemoteConfidence,
			Source:             models.SourceRemote,
		}, nil
	}

	if status, ok := upstreamStatus(err); ok {
		switch {
		case status == http.StatusTooManyRequests:
			e.logger.Warn("completion endpoint rate limited", map[string]interface{}{"status": status})
			return errorResponse(RateLimitedMessage, apperrors.ErrCodeRateLimited, status), nil
		case status >= http.StatusInternalServerError:
			e.logger.Warn("completion endpoint unavailable", map[string]interface{}{"status": status})
			return errorResponse(UpstreamUnavailableMessage, apperrors.ErrCodeUpstreamUnavailable, status), nil
		}
	}

	reason := FallbackReason(err)
	e.logger.Warn("remote completion failed, using local pipeline", map[string]interface{}{
		"reason": reason,
		"error":  err.Error(),
	})

	resp := RunLocal(req.Message, req.History, req.Catalog, rng)
	resp.TypingDelaySeconds = typingDelay(rng)
	resp.FallbackReason = reason
	return resp, nil
}

func (e *Engine) complete(ctx context.Context, req Request) (string, error) {
	if e.remoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.remoteTimeout)
		defer cancel()
	}

	completion, err := e.completer.Complete(ctx, BuildMessages(req.Message, req.History, req.Catalog))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return "", fmt.Errorf("%w: %v", ctxErr, err)
		}
		return "", err
	}
	if strings.TrimSpace(completion) == "" {
		return "", errEmptyCompletion
	}
	return completion, nil
}

func errorResponse(content string, code apperrors.ErrorCode, status int) models.EngineResponse {
	return models.EngineResponse{
		Content:         content,
		PlanReferences:  []models.PlanReference{},
		ConfidenceScore: ErrorConfidence,
		Source:          models.SourceError,
		ErrorCode:       string(code),
		UpstreamStatus:  status,
	}
}

func upstreamStatus(err error) (int, bool) {
	var coded interface{ HTTPStatus() int }
	if errors.As(err, &coded) {
		return coded.HTTPStatus(), true
	}
	return 0, false
}

// FallbackReason classifies a recovered remote failure for logs and metrics.
func FallbackReason(err error) string {
	var reasoned interface{ Reason() string }
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, errEmptyCompletion):
		return "empty_completion"
	case errors.As(err, &reasoned):
		return reasoned.Reason()
	default:
		return "transport"
	}
}

type nopLogger struct{}

func (nopLogger) Info(string, map[string]interface{}) {}
func (nopLogger) Warn(string, map[string]interface{}) {}
