package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestInfo describes the outgoing request to request interceptors
type RequestInfo struct {
	Method string
	Path   string
	Query  string
}

// RequestInterceptor runs before every request is sent.
//
// Interceptors can only add headers - the request body is not reachable from here.
// A non-nil error aborts the request: it is returned to the caller as a *ClientError and never swallowed.
type RequestInterceptor func(ctx context.Context, info RequestInfo, header http.Header) error

// ResponseInterceptor runs after every request completes, in registration order.
//
// res is nil when no response was received. err is nil on success, otherwise a *ClientError.
// Interceptors observe the outcome and must return err unchanged: re-raising the original error keeps the
// rejected-result shape uniform for callers.
type ResponseInterceptor func(req *http.Request, res *http.Response, err error) error

// RequestIDHeader carries the ui request id to the API so that log lines can be correlated
const RequestIDHeader = "X-Request-ID"

// RequestID propagates the chi request id of the page being rendered, or a new uuid when there is none
func RequestID() RequestInterceptor {
	return func(ctx context.Context, _ RequestInfo, header http.Header) error {
		if header.Get(RequestIDHeader) != "" {
			return nil
		}
		id := middleware.GetReqID(ctx)
		if id == "" {
			id = uuid.NewString()
		}
		header.Set(RequestIDHeader, id)
		return nil
	}
}

// TokenSource returns the credential for the current request. ok is false when there is none.
type TokenSource func(ctx context.Context) (token string, ok bool, err error)

// BearerToken attaches "Authorization: Bearer <token>" when source supplies a token.
// No authentication is configured by default, this is the hook for adding it.
func BearerToken(source TokenSource) RequestInterceptor {
	return func(ctx context.Context, _ RequestInfo, header http.Header) error {
		token, ok, err := source(ctx)
		if err != nil {
			return fmt.Errorf("could not get access token: %w", err)
		}
		if ok {
			header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
		return nil
	}
}

// LogErrors logs the status, method, path, server payload and message of every failed request
func LogErrors(logger *slog.Logger) ResponseInterceptor {
	return func(req *http.Request, _ *http.Response, err error) error {
		if err == nil {
			return nil
		}
		ctx := context.Background()
		if req != nil {
			ctx = req.Context()
		}
		logger.LogAttrs(ctx, slog.LevelError, "API error", logAttr(err))
		return err
	}
}

// OnUnauthorized calls hook when the API answers 401.
// Session refresh is not implemented: the hook is only notified, the request is neither retried nor redirected.
func OnUnauthorized(hook func(req *http.Request)) ResponseInterceptor {
	return func(req *http.Request, res *http.Response, err error) error {
		var ce *ClientError
		if errors.As(err, &ce) && ce.StatusCode == http.StatusUnauthorized {
			hook(req)
		}
		return err
	}
}
