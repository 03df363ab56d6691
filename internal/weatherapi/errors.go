package weatherapi

import (
	"fmt"
	"net/url"

	"github.com/antonholmquist/jason"

	"github.com/AvtMob/WeatherApp/internal/errors"
)

// Failure kinds, also used as the error_type metric label.
const (
	KindTransport  = "transport"
	KindHTTPStatus = "http_status"
	KindDecode     = "decode"
	KindValidation = "validation"
)

// RequestFailed is the single error type returned by the client. Transport
// failures, non-2xx responses and undecodable bodies all surface as this type;
// Message is meant for display and never contains the API key.
type RequestFailed struct {
	Endpoint   string
	Kind       string
	StatusCode int // 0 when no response was received
	APICode    int // provider error code from the JSON error body, if any
	Message    string
	Err        error
}

func (e *RequestFailed) Error() string {
	return e.Message
}

func (e *RequestFailed) Unwrap() error {
	return e.Err
}

// ErrorCategory implements errors.CategorizedError
func (e *RequestFailed) ErrorCategory() errors.ErrorCategory {
	switch e.Kind {
	case KindTransport:
		return errors.CategoryNetwork
	case KindHTTPStatus:
		return errors.CategoryHTTP
	case KindDecode:
		return errors.CategoryFileParsing
	case KindValidation:
		return errors.CategoryValidation
	default:
		return errors.CategoryGeneric
	}
}

// AsRequestFailed extracts the RequestFailed from err's chain.
func AsRequestFailed(err error) (*RequestFailed, bool) {
	var rf *RequestFailed
	if errors.As(err, &rf) {
		return rf, true
	}
	return nil, false
}

func transportFailure(endpoint string, err error) *RequestFailed {
	// *url.Error embeds the full request URL, key included
	cause := err
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		cause = errors.Unwrap(urlErr)
	}
	return &RequestFailed{
		Endpoint: endpoint,
		Kind:     KindTransport,
		Message:  fmt.Sprintf("request to %s failed: %v", endpoint, cause),
		Err:      cause,
	}
}

// statusFailure builds the error for a non-2xx response, folding in the
// provider's {"error":{"code":N,"message":"..."}} body when it parses.
func statusFailure(endpoint string, status int, body []byte) *RequestFailed {
	rf := &RequestFailed{
		Endpoint:   endpoint,
		Kind:       KindHTTPStatus,
		StatusCode: status,
		Message:    fmt.Sprintf("%s returned HTTP %d", endpoint, status),
	}

	obj, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return rf
	}
	msg, err := obj.GetString("error", "message")
	if err != nil || msg == "" {
		return rf
	}
	if code, err := obj.GetInt64("error", "code"); err == nil {
		rf.APICode = int(code)
		rf.Message = fmt.Sprintf("%s returned HTTP %d: %s (code %d)", endpoint, status, msg, code)
	} else {
		rf.Message = fmt.Sprintf("%s returned HTTP %d: %s", endpoint, status, msg)
	}
	return rf
}

func decodeFailure(endpoint string, err error) *RequestFailed {
	return &RequestFailed{
		Endpoint: endpoint,
		Kind:     KindDecode,
		Message:  fmt.Sprintf("failed to decode %s response: %v", endpoint, err),
		Err:      err,
	}
}

func validationFailure(endpoint, format string, args ...any) *RequestFailed {
	return &RequestFailed{
		Endpoint: endpoint,
		Kind:     KindValidation,
		Message:  fmt.Sprintf(format, args...),
	}
}
