// internal/workers/ai-conversation/recommend-plans/handler.go
package recommendplans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"parche-recommender/internal/catalog"
	apperrors "parche-recommender/internal/common/errors"
	"parche-recommender/internal/common/metrics"
	"parche-recommender/internal/common/observability"
	"parche-recommender/internal/common/validation"
	"parche-recommender/internal/models"
	"parche-recommender/internal/recommendation"
)

const (
	TaskType = "recommend-plans"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Responder is satisfied by *recommendation.Engine.
type Responder interface {
	Respond(ctx context.Context, req recommendation.Request) (models.EngineResponse, error)
}

type Handler struct {
	config       *Config
	engine       Responder
	catalog      catalog.Snapshotter
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       Logger
}

func NewHandler(config *Config, engine Responder, snap catalog.Snapshotter, obs *observability.Observability, log Logger) *Handler {
	l := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:       config,
		engine:       engine,
		catalog:      snap,
		obs:          obs,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if result := validation.RecommendInput.ValidateBytes([]byte(job.Variables)); !result.Valid {
		h.fail(ctx, client, job, start, apperrors.NewInvalidChatRequestError(result.Error()))
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, start, apperrors.NewInvalidChatRequestError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, start, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJob(ctx, TaskType, "completed", time.Since(start))
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.NewInvalidChatRequestError(ErrInvalidInput.Error() + ": message is required")
	}

	plans := input.Plans
	if plans == nil {
		snap, err := h.catalog.Snapshot(ctx)
		if err != nil {
			return nil, apperrors.NewCatalogUnavailableError(err)
		}
		plans = snap
	} else if err := catalog.Validate(plans); err != nil {
		return nil, apperrors.NewCatalogValidationFailedError(err.Error())
	}

	started := time.Now()
	resp, err := h.engine.Respond(ctx, recommendation.Request{
		Message: input.Message,
		History: input.History,
		Catalog: plans,
	})
	if err != nil {
		if errors.Is(err, recommendation.ErrNilCatalog) {
			return nil, apperrors.NewCatalogRequiredError()
		}
		return nil, apperrors.NewInternalError(err)
	}

	metrics.ObserveResponse(string(resp.Source), resp.Intent, resp.FallbackReason, time.Since(started).Seconds())
	if resp.FallbackReason != "" {
		h.logger.Warn("remote completion recovered locally", map[string]interface{}{
			"reason": resp.FallbackReason,
		})
	}

	return &Output{
		EngineResponse: resp,
		CatalogSize:    len(plans),
		ProcessedAt:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, start time.Time, err error) {
	stdErr := apperrors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJob(ctx, TaskType, "failed", time.Since(start))
	h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

// Execute runs the recommendation without a job client.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
