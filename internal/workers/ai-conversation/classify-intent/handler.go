// internal/workers/ai-conversation/classify-intent/handler.go
package classifyintent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"parche-recommender/internal/common/metrics"
	"parche-recommender/internal/recommendation"
)

const (
	TaskType = "classify-intent"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

// Confidence reported for an unmatched message.
const unmatchedConfidence = 0.5

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config *Config
	logger Logger
}

func NewHandler(config *Config, log Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, fmt.Errorf("%w: parse input: %v", ErrInvalidInput, err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	intent := recommendation.Classify(input.Question, input.History)
	metrics.Intents.WithLabelValues(intent.String()).Inc()

	output := &Output{
		IntentAnalysis: IntentAnalysis{
			PrimaryIntent: intent.String(),
			Confidence:    confidenceFor(intent),
			IsCategory:    intent.IsCategory(),
		},
		GreetedBefore: recommendation.HasGreetedBefore(input.History),
	}
	if avoid := recommendation.LastAssistantCategory(input.History); avoid != recommendation.IntentNone {
		output.AvoidCategory = avoid.String()
	}

	h.logger.Info("intent classified", map[string]interface{}{
		"intent":        output.IntentAnalysis.PrimaryIntent,
		"avoidCategory": output.AvoidCategory,
	})
	return output, nil
}

func confidenceFor(intent recommendation.Intent) float64 {
	switch {
	case intent.IsCategory():
		return recommendation.LocalConfidence
	case intent == recommendation.IntentNone:
		return unmatchedConfidence
	default:
		return recommendation.ClarificationConfidence
	}
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	errorCode := "UNKNOWN_ERROR"
	if errors.Is(err, ErrInvalidInput) {
		errorCode = "INVALID_INPUT"
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"error":     err.Error(),
		"errorCode": errorCode,
	})

	_, _ = client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(err.Error()).
		Send(context.Background())
}

// Execute classifies without a job client.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
