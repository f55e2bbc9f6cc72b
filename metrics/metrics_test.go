package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFrame(t *testing.T) {
	before := testutil.ToFloat64(FramesEvaluated.WithLabelValues("test"))
	longBefore := testutil.ToFloat64(Signals.WithLabelValues("enter_long"))

	ObserveFrame("test", 3*time.Millisecond, map[string]int{"enter_long": 4, "exit_long": 0})

	assert.Equal(t, before+1, testutil.ToFloat64(FramesEvaluated.WithLabelValues("test")))
	assert.Equal(t, longBefore+4, testutil.ToFloat64(Signals.WithLabelValues("enter_long")))
}

func TestHandler(t *testing.T) {
	ObserveFrame("handler", time.Millisecond, map[string]int{"exit_short": 1})

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "momentum_frames_evaluated_total")
	assert.Contains(t, string(body), `momentum_signals_total{signal="exit_short"}`)
	assert.Contains(t, string(body), "momentum_evaluation_seconds_bucket")
}
