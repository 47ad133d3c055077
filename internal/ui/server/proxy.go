package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/povodb/povodb-ui/internal/apperrors"
	"github.com/povodb/povodb-ui/internal/logger"
	"github.com/povodb/povodb-ui/internal/ui/responses"
)

// newAPIProxy forwards /api/v1 requests to the PovoDB API so that browsers can reach it from the ui origin.
// The request id of the ui request is passed on so both logs can be correlated.
func newAPIProxy(apiBaseURL string) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(apiBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			if requestID := middleware.GetReqID(pr.In.Context()); requestID != "" {
				pr.Out.Header.Set("X-Request-ID", requestID)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			reqLogger := logger.ContextRequestLogger(r.Context())
			reqLogger.Error("API proxy request failed",
				slog.String("component", "APIProxy"),
				slog.String("error", err.Error()),
			)
			responses.RespondWithError(w, r, http.StatusBadGateway, apperrors.ErrCodeBadGateway, "The PovoDB API is unavailable")
		},
	}, nil
}
