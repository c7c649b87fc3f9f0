package camunda

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parche-recommender/internal/common/config"
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Info(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"refused", errors.New("dial tcp: connection refused"), true},
		{"deadline", errors.New("context deadline exceeded"), true},
		{"grpc unavailable", errors.New("rpc error: code = Unavailable"), true},
		{"not found", errors.New("process not found"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestOptions_FillsDefaults(t *testing.T) {
	defaults := config.CamundaConfig{MaxJobsActive: 10, Timeout: 30000}

	got := Options(config.WorkerConfig{Enabled: true}, defaults)
	assert.Equal(t, 10, got.MaxJobsActive)
	assert.Equal(t, 30000, got.Timeout)
	assert.True(t, got.Enabled)

	got = Options(config.WorkerConfig{MaxJobsActive: 2, Timeout: 500}, defaults)
	assert.Equal(t, 2, got.MaxJobsActive)
	assert.Equal(t, 500, got.Timeout)
}

func TestStartWorker_Disabled(t *testing.T) {
	log := &recordingLogger{}

	w := StartWorker(nil, "recommend-plans", config.WorkerConfig{Enabled: false}, nil, log)
	assert.Nil(t, w)
	require.Len(t, log.messages, 1)
	assert.Equal(t, "worker disabled", log.messages[0])

	// Stop on a disabled worker is a no-op.
	w.Stop()
}

func TestNewClientWithConfig_RequiresAddress(t *testing.T) {
	_, err := NewClientWithConfig(&ClientConfig{GatewayAddress: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway address")
}
