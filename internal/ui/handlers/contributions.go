package handlers

import (
	"net/http"

	"github.com/povodb/povodb-ui/internal/ui/client"
	"github.com/povodb/povodb-ui/internal/ui/templates"
)

func contributionFilterForm(r *http.Request) templates.ContributionFilterForm {
	return templates.ContributionFilterForm{
		ContributorName: r.FormValue("contributor_name"),
		PoliticianID:    r.FormValue("politician_id"),
	}
}

func (h *HandlerService) ContributionsPage(w http.ResponseWriter, r *http.Request) {
	component := templates.ContributionsPage(h.page(r, "Contribuições"), contributionFilterForm(r))
	render(w, r, component, "contributions page")
}

func (h *HandlerService) ContributionList(w http.ResponseWriter, r *http.Request) {
	form := contributionFilterForm(r)
	filters := client.ContributionFilters{
		Pagination:      pagination(r),
		PoliticianID:    form.PoliticianID,
		ContributorName: form.ContributorName,
		ContributorType: r.FormValue("contributor_type"),
	}

	res := h.Queries.Contributions(r.Context(), filters, queryOptions(r)...)
	logResult(r, res.Key, res.Status)

	render(w, r, templates.ContributionList(res, h.debug()), "contribution list")
}

func (h *HandlerService) TopContributors(w http.ResponseWriter, r *http.Request) {
	res := h.Queries.TopContributors(r.Context(), statisticsLimit, queryOptions(r)...)
	logResult(r, res.Key, res.Status)

	render(w, r, templates.TopContributors(res, h.debug()), "top contributors")
}
