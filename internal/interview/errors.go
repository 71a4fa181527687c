package interview

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyResponse = errors.New("empty response from model")
	ErrMalformedJSON = errors.New("model response is not a single JSON object")
)

const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeUpstream   = "UPSTREAM_ERROR"
	ErrorCodeMalformed  = "MALFORMED_RESPONSE"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)

// ValidationError reports a request field that is missing or out of range.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UpstreamError wraps a failure talking to the model provider.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// MalformedResponseError wraps a model response that could not be interpreted.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ErrorCode classifies err for logs and the usage ledger.
func ErrorCode(err error) string {
	var (
		verr *ValidationError
		uerr *UpstreamError
		merr *MalformedResponseError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return ErrorCodeValidation
	case errors.As(err, &merr):
		return ErrorCodeMalformed
	case errors.As(err, &uerr):
		return ErrorCodeUpstream
	default:
		return ErrorCodeInternal
	}
}
