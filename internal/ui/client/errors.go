package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/povodb/povodb-ui/internal/ui/types"
)

// UnknownErrorMessage is shown when a failure carries no usable message (e.g. a recovered non-error panic value)
const UnknownErrorMessage = "An unknown error occurred"

// ErrUnknown stands in for failures that are not errors at all
var ErrUnknown = errors.New(UnknownErrorMessage)

// Kind classifies a ClientError
type Kind int

const (
	// KindNetwork - no response was received (connection refused, timeout, DNS...)
	KindNetwork Kind = iota
	// KindHTTP - the API responded with a non-2xx status
	KindHTTP
	// KindInternal - the request could not be built, an interceptor failed or the response could not be decoded
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	default:
		return "internal"
	}
}

// ClientError represents a failure communicating with the PovoDB API.
//
// Error() returns the normalized, human readable message: the server supplied detail when there is one,
// otherwise the transport level message.
// The remaining fields are kept for diagnostics (see LogValue).
type ClientError struct {
	Kind       Kind
	StatusCode int // 0 when no response was received
	Method     string
	Path       string
	Detail     string          // server supplied detail, if any
	Body       json.RawMessage // raw error payload, if any
	Err        error           // underlying transport / decode error
}

func (e *ClientError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
	}
	return UnknownErrorMessage
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// LogValue implements slog.LogValuer so the full diagnostic context is logged in one attribute
func (e *ClientError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.String("method", e.Method),
		slog.String("path", e.Path),
		slog.String("message", e.Error()),
	}
	if e.StatusCode != 0 {
		attrs = append(attrs, slog.Int("status", e.StatusCode))
	}
	if len(e.Body) > 0 {
		attrs = append(attrs, slog.String("data", string(e.Body)))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// NewClientConnectionError creates a ClientError for network/connection issues
func NewClientConnectionError(req *http.Request, err error) *ClientError {
	ce := &ClientError{
		Kind: KindNetwork,
		Err:  err,
	}
	ce.setRequest(req)
	return ce
}

// NewClientInternalError creates a ClientError for internal errors, supply the error and an explanation of what was being done when the error occurred
func NewClientInternalError(req *http.Request, err error, while string) *ClientError {
	ce := &ClientError{
		Kind: KindInternal,
		Err:  fmt.Errorf("%s: %w", while, err),
	}
	ce.setRequest(req)
	return ce
}

// NewClientApiError creates a ClientError from a non-2xx response sent by the API
func NewClientApiError(req *http.Request, res *http.Response) *ClientError {
	ce := &ClientError{
		Kind:       KindHTTP,
		StatusCode: res.StatusCode,
	}
	ce.setRequest(req)

	if res.Body == nil {
		return ce
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, 64*1024))
	if err != nil || len(body) == 0 {
		return ce
	}
	if json.Valid(body) {
		ce.Body = body
	}

	var errResp types.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		ce.Detail = parseDetail(errResp.Detail)
	}
	return ce
}

func (e *ClientError) setRequest(req *http.Request) {
	if req == nil {
		return
	}
	e.Method = req.Method
	e.Path = req.URL.Path
}

// parseDetail extracts the message from a detail field: a plain string, or a list of validation issues
func parseDetail(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var issues []types.ValidationIssue
	if err := json.Unmarshal(raw, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Msg == "" {
				continue
			}
			if field := issueField(issue.Loc); field != "" {
				msgs = append(msgs, fmt.Sprintf("%s: %s", field, issue.Msg))
			} else {
				msgs = append(msgs, issue.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

// issueField returns the last element of a validation location, e.g. ["query","limit"] -> limit
func issueField(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	return fmt.Sprint(loc[len(loc)-1])
}

// ErrorMessage normalizes any failure to a single human readable message:
//   - *ClientError: the server detail, else the transport message
//   - other errors: their message
//   - anything else (e.g. a recovered panic value): UnknownErrorMessage
func ErrorMessage(v any) string {
	switch e := v.(type) {
	case nil:
		return UnknownErrorMessage
	case error:
		var ce *ClientError
		if errors.As(e, &ce) {
			return ce.Error()
		}
		if msg := e.Error(); msg != "" {
			return msg
		}
		return UnknownErrorMessage
	default:
		return UnknownErrorMessage
	}
}

func statusOf(err error) int {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is an API 404
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is an API 401
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}
