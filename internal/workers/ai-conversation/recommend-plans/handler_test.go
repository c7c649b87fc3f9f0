// internal/workers/ai-conversation/recommend-plans/handler_test.go
package recommendplans

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parche-recommender/internal/catalog"
	apperrors "parche-recommender/internal/common/errors"
	"parche-recommender/internal/models"
	"parche-recommender/internal/recommendation"
)

// ==========================
// Test Logger Implementation
// ==========================

type TestLogger struct {
	t      *testing.T
	fields map[string]interface{}
	warns  *[]string
}

func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{t: t, fields: map[string]interface{}{}, warns: &[]string{}}
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v %v", msg, l.fields, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	*l.warns = append(*l.warns, msg)
	l.t.Logf("WARN: %s %v %v", msg, l.fields, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v %v", msg, l.fields, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{t: l.t, fields: merged, warns: l.warns}
}

type BenchmarkLogger struct{}

func (b *BenchmarkLogger) Info(msg string, fields map[string]interface{})  {}
func (b *BenchmarkLogger) Warn(msg string, fields map[string]interface{})  {}
func (b *BenchmarkLogger) Error(msg string, fields map[string]interface{}) {}
func (b *BenchmarkLogger) With(fields map[string]interface{}) Logger       { return b }

// ==========================
// Test Helper Functions
// ==========================

func createTestPlans() []models.PlanRecord {
	return []models.PlanRecord{
		{ID: "p1", Name: "Rooftop Sunset", Category: "rooftop", Description: "Terraza con vista", Rating: 4.8},
		{ID: "p2", Name: "La Octava", Category: "discoteca", Description: "Rumba crossover", Rating: 4.2},
		{ID: "p3", Name: "Hatoviejo", Category: "restaurante", Description: "Comida típica", Rating: 4.4},
		{ID: "p4", Name: "Museo de Antioquia", Category: "museo", Description: "Obras de Botero", Rating: 4.4},
	}
}

type failingSnapshotter struct{ err error }

func (f failingSnapshotter) Snapshot(context.Context) ([]models.PlanRecord, error) {
	return nil, f.err
}

type stubCompleter struct {
	completion string
	err        error
}

func (s stubCompleter) Complete(context.Context, []models.ConversationTurn) (string, error) {
	return s.completion, s.err
}

type statusErr struct{ status int }

func (e statusErr) Error() string   { return "upstream" }
func (e statusErr) HTTPStatus() int { return e.status }

func createTestHandler(t *testing.T, snap catalog.Snapshotter, opts ...recommendation.Option) (*Handler, *TestLogger) {
	t.Helper()
	if snap == nil {
		repo, err := catalog.NewMemoryRepository(createTestPlans())
		require.NoError(t, err)
		snap = repo
	}
	log := NewTestLogger(t)
	opts = append(opts, recommendation.WithRandFactory(recommendation.SeededRandFactory(42)))
	return NewHandler(&Config{Timeout: 5 * time.Second}, recommendation.NewEngine(opts...), snap, nil, log), log
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		wantConfidence float64
		wantContains   string
		wantIntent     string
	}{
		{
			name:           "greeting",
			input:          &Input{Message: "hola"},
			wantConfidence: recommendation.ClarificationConfidence,
			wantContains:   "Parche AI",
			wantIntent:     "greeting",
		},
		{
			name:           "nightlife request",
			input:          &Input{Message: "quiero salir de rumba esta noche"},
			wantConfidence: recommendation.LocalConfidence,
			wantContains:   "La Octava",
			wantIntent:     "nightlife",
		},
		{
			name: "too short",
			input: &Input{Message: "ok", History: []models.ConversationTurn{
				{Role: models.RoleAssistant, Content: "¡Hola!"},
			}},
			wantConfidence: recommendation.ClarificationConfidence,
			wantContains:   recommendation.TooShortMessage,
			wantIntent:     "too_short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := createTestHandler(t, nil)

			output, err := handler.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, models.SourceLocal, output.Source)
			assert.Equal(t, tt.wantConfidence, output.ConfidenceScore)
			assert.Contains(t, output.Content, tt.wantContains)
			assert.Equal(t, tt.wantIntent, output.Intent)
			assert.Equal(t, 4, output.CatalogSize)
			assert.NotEmpty(t, output.ProcessedAt)
		})
	}
}

func TestHandler_Execute_InlinePlansOverrideCatalog(t *testing.T) {
	handler, _ := createTestHandler(t, failingSnapshotter{err: catalog.ErrCatalogUnavailable})

	output, err := handler.Execute(context.Background(), &Input{
		Message: "algo cultural, un museo",
		Plans:   []models.PlanRecord{{ID: "x1", Name: "Casa de la Memoria", Category: "museo", Rating: 4.5}},
	})

	require.NoError(t, err)
	assert.Contains(t, output.Content, "Casa de la Memoria")
	assert.Equal(t, 1, output.CatalogSize)
}

func TestHandler_Execute_RemoteOutcomes(t *testing.T) {
	t.Run("remote success", func(t *testing.T) {
		handler, _ := createTestHandler(t, nil, recommendation.WithCompleter(stubCompleter{completion: "Ve a Hatoviejo"}))

		output, err := handler.Execute(context.Background(), &Input{Message: "tengo hambre"})

		require.NoError(t, err)
		assert.Equal(t, models.SourceRemote, output.Source)
		require.Len(t, output.PlanReferences, 1)
		assert.Equal(t, "p3", output.PlanReferences[0].PlanID)
	})

	t.Run("rate limited completes with error source", func(t *testing.T) {
		handler, _ := createTestHandler(t, nil, recommendation.WithCompleter(stubCompleter{err: statusErr{429}}))

		output, err := handler.Execute(context.Background(), &Input{Message: "tengo hambre"})

		require.NoError(t, err)
		assert.Equal(t, models.SourceError, output.Source)
		assert.Equal(t, "RATE_LIMITED", output.ErrorCode)
		assert.Equal(t, recommendation.RateLimitedMessage, output.Content)
	})

	t.Run("transport failure falls back", func(t *testing.T) {
		handler, _ := createTestHandler(t, nil, recommendation.WithCompleter(stubCompleter{err: errors.New("dial tcp: refused")}))

		output, err := handler.Execute(context.Background(), &Input{Message: "quiero salir de rumba esta noche"})

		require.NoError(t, err)
		assert.Equal(t, models.SourceLocal, output.Source)
		assert.Equal(t, "transport", output.FallbackReason)
	})
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		snap     catalog.Snapshotter
		input    *Input
		wantCode apperrors.ErrorCode
	}{
		{"nil input", nil, nil, apperrors.ErrCodeInvalidChatRequest},
		{"blank message", nil, &Input{Message: "   "}, apperrors.ErrCodeInvalidChatRequest},
		{"catalog unavailable", failingSnapshotter{err: catalog.ErrCatalogUnavailable}, &Input{Message: "hola"}, apperrors.ErrCodeCatalogUnavailable},
		{
			"invalid inline plans", nil,
			&Input{Message: "hola", Plans: []models.PlanRecord{{ID: "a", Name: "x"}, {ID: "a", Name: "y"}}},
			apperrors.ErrCodeCatalogValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := createTestHandler(t, tt.snap)

			_, err := handler.Execute(context.Background(), tt.input)

			require.Error(t, err)
			stdErr := apperrors.AsStandardError(err)
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}

func TestHandler_CatalogFailureIsRetryable(t *testing.T) {
	handler, _ := createTestHandler(t, failingSnapshotter{err: errors.New("timeout")})

	_, err := handler.Execute(context.Background(), &Input{Message: "hola"})

	bpmn := apperrors.ConvertToBPMNError(apperrors.AsStandardError(err))
	assert.True(t, bpmn.Retryable)
	assert.Equal(t, 3, bpmn.Retries)
}

func TestOutput_JSONShape(t *testing.T) {
	handler, _ := createTestHandler(t, nil)
	output, err := handler.Execute(context.Background(), &Input{Message: "hola"})
	require.NoError(t, err)

	raw, err := json.Marshal(output)
	require.NoError(t, err)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &vars))
	for _, key := range []string{"content", "planReferences", "typingDelaySeconds", "confidenceScore", "source", "catalogSize"} {
		assert.Contains(t, vars, key)
	}
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	repo, _ := catalog.NewMemoryRepository(createTestPlans())
	handler := NewHandler(&Config{Timeout: time.Second}, recommendation.NewEngine(), repo, nil, &BenchmarkLogger{})
	input := &Input{Message: "quiero salir de rumba esta noche"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = handler.Execute(context.Background(), input)
	}
}
