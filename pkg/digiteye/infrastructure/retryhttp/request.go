package retryhttp

import (
	"net/http"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	DefaultTimeout     = 30 * time.Second
	// MaxBackoff caps a single sleep so that large attempt counts can't overflow the delay.
	MaxBackoff = 10 * time.Minute
)

// RetryPolicy bounds how hard the client tries before giving up.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, the first one included.
	MaxAttempts int
	// BaseDelay is the sleep before the second attempt; every further sleep doubles it.
	BaseDelay time.Duration
	// Timeout applies to each attempt separately.
	Timeout time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Timeout:     DefaultTimeout,
	}
}

// Request is a single JSON exchange. The client never modifies it, so it can be reused across retries.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	// Credential is sent as the "key" query parameter. It never appears in logs or errors.
	Credential  string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
}

// NewJSONRequest builds a POST request with a JSON body.
func NewJSONRequest(url string, body []byte, credential string, policy RetryPolicy) *Request {
	return &Request{
		Method:      http.MethodPost,
		URL:         url,
		Headers:     map[string]string{"Content-Type": "application/json"},
		Body:        body,
		Credential:  credential,
		Timeout:     policy.Timeout,
		MaxAttempts: policy.MaxAttempts,
		BaseDelay:   policy.BaseDelay,
	}
}

// Backoff returns how long to sleep after the failed attempt with the given zero-based index, never more than
// MaxBackoff.
func Backoff(baseDelay time.Duration, attempt int) time.Duration {
	if baseDelay <= 0 {
		return 0
	}
	if attempt >= 62 || baseDelay > MaxBackoff>>attempt {
		return MaxBackoff
	}
	return baseDelay << attempt
}

// IsRetryableStatus reports whether the server may succeed if asked again later.
func IsRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable:
		return true
	default:
		return false
	}
}
