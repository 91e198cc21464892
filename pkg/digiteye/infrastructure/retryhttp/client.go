package retryhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/juju/clock"

	"kgeyst.com/digiteye/pkg/common"
)

// Clock is the part of github.com/juju/clock the client needs for backoff sleeps.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

// Outcome classifies a single attempt.
type Outcome int

const (
	OutcomeSuccess = Outcome(iota)
	OutcomeRetryableFailure
	OutcomeTerminalFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryableFailure:
		return "retryable"
	case OutcomeTerminalFailure:
		return "terminal"
	default:
		return "unknown"
	}
}

// Observer is notified about every attempt and every backoff sleep. Used for metrics.
type Observer interface {
	ObserveAttempt(outcome Outcome)
	ObserveBackoff(delay time.Duration)
}

type Option func(*Client)

func WithClock(c Clock) Option {
	return func(client *Client) {
		client.clock = c
	}
}

func WithObserver(observer Observer) Option {
	return func(client *Client) {
		client.observer = observer
	}
}

// Client sends JSON requests with bounded retries and exponential backoff. It keeps no per-request state, and
// backoff sleeps block the calling goroutine.
type Client struct {
	httpClient *resty.Client
	clock      Clock
	observer   Observer
	logger     common.Logger
}

func NewClient(logger common.Logger, options ...Option) *Client {
	httpClient := resty.New()
	// Retries are driven by Send, not by resty.
	httpClient.SetRetryCount(0)
	httpClient.SetLogger(&restyLogger{logger: logger})
	client := &Client{
		httpClient: httpClient,
		clock:      clock.WallClock,
		logger:     logger,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// Send issues the request and returns the JSON body of the first 200 response. Statuses 429, 500 and 503 and
// transport failures are retried with delays of BaseDelay, 2*BaseDelay, 4*BaseDelay... Any other status fails
// immediately. Every failure is a *RequestError.
func (c *Client) Send(request *Request) (json.RawMessage, error) {
	for attempt := 0; attempt < request.MaxAttempts; attempt++ {
		hasMoreAttempts := attempt < request.MaxAttempts-1
		response, err := c.execute(request)
		if err != nil {
			err = redactError(err)
			if hasMoreAttempts {
				c.retry(request, attempt, err.Error())
				continue
			}
			c.observeAttempt(OutcomeTerminalFailure)
			return nil, &RequestError{Kind: KindTransport, Attempts: attempt + 1, Err: err}
		}
		statusCode := response.StatusCode()
		if statusCode == http.StatusOK {
			body := response.Body()
			if !json.Valid(body) {
				c.observeAttempt(OutcomeTerminalFailure)
				return nil, newStatusError(KindMalformedResponse, statusCode, body, attempt+1)
			}
			c.observeAttempt(OutcomeSuccess)
			return json.RawMessage(body), nil
		}
		if IsRetryableStatus(statusCode) {
			if hasMoreAttempts {
				c.retry(request, attempt, fmt.Sprintf("status %d", statusCode))
				continue
			}
			c.observeAttempt(OutcomeTerminalFailure)
			return nil, newStatusError(KindRetriesExhausted, statusCode, response.Body(), attempt+1)
		}
		c.observeAttempt(OutcomeTerminalFailure)
		return nil, newStatusError(KindTerminalStatus, statusCode, response.Body(), attempt+1)
	}
	return nil, &RequestError{Kind: KindRetriesExhausted, Attempts: request.MaxAttempts}
}

func (c *Client) execute(request *Request) (*resty.Response, error) {
	timeout := request.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	restyRequest := c.httpClient.R().
		SetContext(ctx).
		SetHeaders(request.Headers).
		SetQueryParam("key", request.Credential)
	if request.Body != nil {
		restyRequest.SetBody(request.Body)
	}
	return restyRequest.Execute(request.Method, request.URL)
}

func (c *Client) retry(request *Request, attempt int, reason string) {
	c.observeAttempt(OutcomeRetryableFailure)
	delay := Backoff(request.BaseDelay, attempt)
	c.logger.Log(fmt.Sprintf("attempt %d/%d failed (%s), retrying in %s\n", attempt+1, request.MaxAttempts, reason, delay))
	if c.observer != nil {
		c.observer.ObserveBackoff(delay)
	}
	<-c.clock.After(delay)
}

func (c *Client) observeAttempt(outcome Outcome) {
	if c.observer != nil {
		c.observer.ObserveAttempt(outcome)
	}
}

// restyLogger routes resty's own diagnostics into our logger, with the credential redacted.
type restyLogger struct {
	logger common.Logger
}

func (r *restyLogger) Errorf(format string, v ...interface{}) {
	r.log("ERROR", format, v...)
}

func (r *restyLogger) Warnf(format string, v ...interface{}) {
	r.log("WARN", format, v...)
}

func (r *restyLogger) Debugf(format string, v ...interface{}) {
	r.log("DEBUG", format, v...)
}

func (r *restyLogger) log(level, format string, v ...interface{}) {
	r.logger.Log(RedactCredential(fmt.Sprintf("resty "+level+": "+format, v...)) + "\n")
}
