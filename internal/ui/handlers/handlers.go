package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"

	povodb "github.com/povodb/povodb-ui"
	"github.com/povodb/povodb-ui/internal/logger"
	"github.com/povodb/povodb-ui/internal/ui/client"
	"github.com/povodb/povodb-ui/internal/ui/queries"
	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/templates"
)

// statisticsLimit is the number of rows shown in the vote statistics and top contributor tables
const statisticsLimit = 10

type HandlerService struct {
	Queries     *queries.Service
	Environment string

	// RefetchInterval is passed to the pages so that open fragments reload periodically
	RefetchInterval time.Duration
}

func (h *HandlerService) page(r *http.Request, title string) templates.Page {
	return templates.Page{
		Title:           title,
		Path:            r.URL.Path,
		Environment:     h.Environment,
		RefetchInterval: h.RefetchInterval,
	}
}

// debug reports whether fragments include the query debug panel
func (h *HandlerService) debug() bool {
	return h.Environment == "dev"
}

// render writes the component, logging failures with the request logger. The response status is already sent
// when rendering fails so the error is only logged.
func render(w http.ResponseWriter, r *http.Request, component templ.Component, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		reqLogger := logger.ContextRequestLogger(r.Context())
		reqLogger.Error("Failed to render "+name, slog.String("error", err.Error()))
	}
}

// pagination reads the 1-indexed page form value. Missing or malformed values select the first page.
func pagination(r *http.Request) client.Pagination {
	page, err := strconv.Atoi(r.FormValue("page"))
	if err != nil {
		page = 1
	}
	return client.PageOf(page, povodb.DefaultPageSize)
}

// queryOptions returns the options for a fragment's queries: the periodic reload refetches even when the cached
// result is still fresh
func queryOptions(r *http.Request) []query.Option {
	if r.FormValue(templates.RefetchParam) == "" {
		return nil
	}
	return []query.Option{query.WithRefetch()}
}

// formValue returns the named form value or def when the field was not sent at all
func formValue(r *http.Request, name, def string) string {
	if err := r.ParseForm(); err != nil {
		return def
	}
	if values, ok := r.Form[name]; ok && len(values) > 0 {
		return values[0]
	}
	return def
}
