package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveResponse(t *testing.T) {
	beforeLocal := testutil.ToFloat64(Recommendations.WithLabelValues("local"))
	beforeIntent := testutil.ToFloat64(Intents.WithLabelValues("food"))
	beforeTimeout := testutil.ToFloat64(RemoteFailures.WithLabelValues("timeout"))

	ObserveResponse("local", "food", "timeout", 0.02)

	assert.Equal(t, beforeLocal+1, testutil.ToFloat64(Recommendations.WithLabelValues("local")))
	assert.Equal(t, beforeIntent+1, testutil.ToFloat64(Intents.WithLabelValues("food")))
	assert.Equal(t, beforeTimeout+1, testutil.ToFloat64(RemoteFailures.WithLabelValues("timeout")))
}

func TestObserveResponse_RemoteSkipsIntent(t *testing.T) {
	beforeRemote := testutil.ToFloat64(Recommendations.WithLabelValues("remote"))

	ObserveResponse("remote", "", "", 0.4)

	assert.Equal(t, beforeRemote+1, testutil.ToFloat64(Recommendations.WithLabelValues("remote")))
}
