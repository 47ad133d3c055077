package query

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/povodb/povodb-ui/internal/ui/client"
)

type Status int

const (
	// StatusIdle is reported by disabled queries
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is what a view sees for one query.
//
// When Status is StatusError, Data may still hold the last successful value. Views must render the
// error and not fall back to the stale data.
type Result[T any] struct {
	Key       Key
	Status    Status
	Data      T
	Err       error
	UpdatedAt time.Time
}

func (r Result[T]) IsIdle() bool    { return r.Status == StatusIdle }
func (r Result[T]) IsLoading() bool { return r.Status == StatusLoading }
func (r Result[T]) IsSuccess() bool { return r.Status == StatusSuccess }
func (r Result[T]) IsError() bool   { return r.Status == StatusError }

// Message is the normalized error message, empty when there is no error
func (r Result[T]) Message() string {
	if r.Err == nil {
		return ""
	}
	return client.ErrorMessage(r.Err)
}

// PanicError is returned when a fetcher panics
type PanicError struct {
	Value any
}

// Error returns the message of an error panic value and the unknown error message otherwise
func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return client.UnknownErrorMessage
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func (e *PanicError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", "panic"),
		slog.String("value", fmt.Sprint(e.Value)),
	)
}
