package api

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/digiteye/pkg/common"
	"kgeyst.com/digiteye/pkg/digiteye/domain"
	"kgeyst.com/digiteye/pkg/digiteye/infrastructure/retryhttp"
)

type recordingLogger struct {
	mutex    sync.Mutex
	messages []string
}

func (r *recordingLogger) Log(message string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recordingLogger) all() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return strings.Join(r.messages, "")
}

type recordingClock struct {
	mutex  sync.Mutex
	sleeps []time.Duration
}

func (r *recordingClock) After(d time.Duration) <-chan time.Time {
	r.mutex.Lock()
	r.sleeps = append(r.sleeps, d)
	r.mutex.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func drawnDigitPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 2; y < 14; y++ {
		img.Set(8, y, color.White)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fakeModelServer fails with 503 `failures` times, then answers "7". It also serves /seven.png.
func fakeModelServer(t *testing.T, failures int, image []byte) *httptest.Server {
	t.Helper()
	var mutex sync.Mutex
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/seven.png" {
			_, _ = w.Write(image)
			return
		}
		_, _ = io.ReadAll(r.Body)
		mutex.Lock()
		calls++
		failing := calls <= failures
		mutex.Unlock()
		if failing {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"7\n\nA solemn seven."}]}}]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestAPI(server *httptest.Server, clock *recordingClock, logger *recordingLogger) *api {
	config := common.NewConfig(map[string]any{
		domain.ConfigKeyVisionBaseURL:    server.URL,
		domain.ConfigKeyRequestBaseDelay: 100,
	})
	return newAPI(config, logger, retryhttp.WithClock(clock))
}

func TestRecognize_EndToEndWithRetries(t *testing.T) {
	image := drawnDigitPNG(t)
	server := fakeModelServer(t, 2, image)
	clock := &recordingClock{}
	logger := &recordingLogger{}
	a := newTestAPI(server, clock, logger)

	answer, err := a.Recognize(image, "", "very-secret")

	require.NoError(t, err)
	digit, ok := domain.ExtractDigit(answer)
	assert.True(t, ok)
	assert.Equal(t, '7', digit)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, clock.sleeps)
	assert.NotContains(t, logger.all(), "very-secret")

	recorder := httptest.NewRecorder()
	a.MetricsHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, recorder.Body.String(), `digiteye_request_attempts_total{outcome="retryable"} 2`)
	assert.Contains(t, recorder.Body.String(), `digiteye_vision_queries_total{result="answered"} 1`)
}

func TestRecognizeMessage(t *testing.T) {
	image := drawnDigitPNG(t)
	server := fakeModelServer(t, 0, image)
	a := newTestAPI(server, &recordingClock{}, &recordingLogger{})

	answer, err := a.RecognizeMessage("what is "+server.URL+"/seven.png ?", "cred")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(answer, "7"))
}

func TestRecognizeMessage_NoImageURL(t *testing.T) {
	server := fakeModelServer(t, 0, nil)
	a := newTestAPI(server, &recordingClock{}, &recordingLogger{})

	_, err := a.RecognizeMessage("just words", "cred")

	assert.ErrorContains(t, err, "no image URL")
}

func TestConfigKeysForFrontEnds(t *testing.T) {
	config := common.NewConfig(map[string]any{
		"agentName":  "Seer",
		"roomName":   "Scriptorium",
		"serverName": "irc.example.org:6667",
	})

	assert.Equal(t, "Seer", config.GetString(ConfigKeyAgentName))
	assert.Equal(t, "Scriptorium", config.GetString(ConfigKeyRoomName))
	assert.Equal(t, "irc.example.org:6667", config.GetString(ConfigKeyServerName))
}
