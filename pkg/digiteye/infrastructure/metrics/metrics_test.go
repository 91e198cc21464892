package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/digiteye/pkg/digiteye/infrastructure/retryhttp"
)

type stubVisionModel struct {
	err error
}

func (s *stubVisionModel) Ask(image []byte, mimeType, prompt, credential string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "7", nil
}

func TestMetrics_Observer(t *testing.T) {
	m := NewMetrics()

	m.ObserveAttempt(retryhttp.OutcomeRetryableFailure)
	m.ObserveAttempt(retryhttp.OutcomeRetryableFailure)
	m.ObserveAttempt(retryhttp.OutcomeSuccess)
	m.ObserveBackoff(time.Second)
	m.ObserveBackoff(2 * time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attemptsTotal.WithLabelValues("retryable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attemptsTotal.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.backoffSeconds))
}

func TestMetrics_VisionModelDecorator(t *testing.T) {
	m := NewMetrics()

	_, err := NewVisionModelDecorator(&stubVisionModel{}, m).Ask(nil, "", "", "")
	require.NoError(t, err)
	_, err = NewVisionModelDecorator(&stubVisionModel{err: errors.New("boom")}, m).Ask(nil, "", "", "")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.queriesTotal.WithLabelValues("answered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queriesTotal.WithLabelValues("failed")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveAttempt(retryhttp.OutcomeTerminalFailure)
	recorder := httptest.NewRecorder()

	m.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `digiteye_request_attempts_total{outcome="terminal"} 1`)
}
