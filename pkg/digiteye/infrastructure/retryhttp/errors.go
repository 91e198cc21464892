package retryhttp

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

type ErrorKind int

const (
	// KindTransport the request never got an HTTP response (connection refused, timeout etc.)
	KindTransport = ErrorKind(iota)
	// KindRetriesExhausted the server kept answering with a retryable status until the attempt budget ran out
	KindRetriesExhausted
	// KindTerminalStatus the server answered with a status which retrying won't fix
	KindTerminalStatus
	// KindMalformedResponse the server answered 200 but the body isn't JSON
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRetriesExhausted:
		return "retries exhausted"
	case KindTerminalStatus:
		return "terminal status"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return "unknown"
	}
}

const maxErrorBodySize = 2048

// RequestError is the only error Client.Send returns.
type RequestError struct {
	Kind ErrorKind
	// StatusCode is zero for transport errors.
	StatusCode int
	Body       string
	Attempts   int
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.Kind == KindTransport:
		return fmt.Sprintf("network/connection error after %d attempt(s): %v", e.Attempts, e.Err)
	case e.Kind == KindMalformedResponse:
		return fmt.Sprintf("API call returned malformed JSON (%d): %s", e.StatusCode, e.Body)
	case e.StatusCode == 0:
		return "API call failed after multiple retries"
	}
	detail := e.Body
	if detail == "" {
		detail = fmt.Sprintf("status code: %d", e.StatusCode)
	}
	if e.Kind == KindRetriesExhausted {
		return fmt.Sprintf("API call failed (%d) after %d attempt(s). %s", e.StatusCode, e.Attempts, detail)
	}
	return fmt.Sprintf("API call failed (%d). %s", e.StatusCode, detail)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func newStatusError(kind ErrorKind, statusCode int, body []byte, attempts int) *RequestError {
	text := string(body)
	if len(text) > maxErrorBodySize {
		text = text[:maxErrorBodySize] + "..."
	}
	return &RequestError{
		Kind:       kind,
		StatusCode: statusCode,
		Body:       text,
		Attempts:   attempts,
	}
}

var credentialPattern = regexp.MustCompile(`([?&]key=)[^&\s"']*`)

// RedactCredential hides the value of the "key" query parameter in a URL or in any text which embeds one.
func RedactCredential(str string) string {
	return credentialPattern.ReplaceAllString(str, "${1}REDACTED")
}

// net/http puts the full URL (query included) into *url.Error, which would leak the credential.
func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{
			Op:  urlErr.Op,
			URL: RedactCredential(urlErr.URL),
			Err: urlErr.Err,
		}
	}
	message := err.Error()
	redacted := RedactCredential(message)
	if redacted == message {
		return err
	}
	return errors.New(redacted)
}
