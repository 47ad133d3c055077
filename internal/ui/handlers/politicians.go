package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	povodb "github.com/povodb/povodb-ui"
	"github.com/povodb/povodb-ui/internal/logger"
	"github.com/povodb/povodb-ui/internal/ui/client"
	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/templates"
)

// politicianFilterForm reads the politician filters. Fields that were not sent take the form defaults:
// any party and the default country.
func politicianFilterForm(r *http.Request) templates.PoliticianFilterForm {
	return templates.PoliticianFilterForm{
		Name:    formValue(r, "name", ""),
		Party:   formValue(r, "party", povodb.FilterAll),
		Country: formValue(r, "country", povodb.DefaultCountry),
	}
}

// PoliticiansPage renders the politician search page
func (h *HandlerService) PoliticiansPage(w http.ResponseWriter, r *http.Request) {
	component := templates.PoliticiansPage(h.page(r, "Políticos"), politicianFilterForm(r))
	render(w, r, component, "politicians page")
}

// PoliticianList renders the politician search results for the filters in the request
func (h *HandlerService) PoliticianList(w http.ResponseWriter, r *http.Request) {
	form := politicianFilterForm(r)
	filters := client.PoliticianFilters{
		Pagination: pagination(r),
		Name:       form.Name,
		Party:      form.Party,
		Country:    form.Country,
	}

	res := h.Queries.Politicians(r.Context(), filters, queryOptions(r)...)
	logResult(r, res.Key, res.Status)

	render(w, r, templates.PoliticianList(res, h.debug()), "politician list")
}

func (h *HandlerService) PoliticianDetailPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	render(w, r, templates.PoliticianDetailPage(h.page(r, "Político"), id), "politician detail page")
}

func (h *HandlerService) PoliticianDetail(w http.ResponseWriter, r *http.Request) {
	res := h.Queries.PoliticianDetails(r.Context(), chi.URLParam(r, "id"), queryOptions(r)...)
	logResult(r, res.Key, res.Status)

	render(w, r, templates.PoliticianDetail(res, h.debug()), "politician detail")
}

// PoliticianContributions renders the contribution statistics of a politician
func (h *HandlerService) PoliticianContributions(w http.ResponseWriter, r *http.Request) {
	res := h.Queries.PoliticianContributions(r.Context(), chi.URLParam(r, "id"), queryOptions(r)...)
	logResult(r, res.Key, res.Status)

	render(w, r, templates.PoliticianContributionStats(res, h.debug()), "politician contributions")
}

// logResult adds the query key and outcome to the request completion log
func logResult(r *http.Request, key query.Key, status query.Status) {
	_ = logger.ContextWithLogAttrs(r.Context(),
		slog.String("query", key.String()),
		slog.String("query_status", status.String()),
	)
}
