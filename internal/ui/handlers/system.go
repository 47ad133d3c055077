package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/povodb/povodb-ui/internal/apperrors"
	"github.com/povodb/povodb-ui/internal/logger"
	"github.com/povodb/povodb-ui/internal/ui/responses"
	"github.com/povodb/povodb-ui/internal/ui/templates"
)

// Focus is posted by the page when the browser window regains focus.
// The queries of the resources the page shows are refetched when observed and marked stale otherwise,
// and the response asks the page to reload its fragments. Without resources every query is affected.
func (h *HandlerService) Focus(w http.ResponseWriter, r *http.Request) {
	var resources []string
	for resource := range strings.SplitSeq(r.FormValue(templates.FocusParam), ",") {
		if resource = strings.TrimSpace(resource); resource != "" {
			resources = append(resources, resource)
		}
	}
	refetched := h.Queries.Cache().Focus(resources...)
	_ = logger.ContextWithLogAttrs(r.Context(),
		slog.Int("refetched", refetched),
		slog.Any("resources", resources))

	w.Header().Set("HX-Trigger", templates.RefreshEvent)
	w.WriteHeader(http.StatusOK)
}

func (h *HandlerService) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	render(w, r, templates.NotFoundPage(h.page(r, "Página não encontrada")), "not found page")
}

// PlaceholderPage is used for the footer links (about, privacy, terms)
func (h *HandlerService) PlaceholderPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, templates.PlaceholderPage(h.page(r, "Em Construção")), "placeholder page")
}

// LivenessHandler reports that the ui server is running
func (h *HandlerService) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(http.StatusText(http.StatusOK)))
}

// ReadinessHandler reports the health of the PovoDB API the ui depends on
func (h *HandlerService) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	res := h.Queries.Health(r.Context())
	if res.IsError() {
		responses.RespondWithError(w, r, http.StatusServiceUnavailable, apperrors.ErrCodeAPIUnavailable, res.Message())
		return
	}
	responses.RespondWithJSON(w, http.StatusOK, res.Data)
}
