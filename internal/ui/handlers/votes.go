package handlers

import (
	"net/http"

	povodb "github.com/povodb/povodb-ui"
	"github.com/povodb/povodb-ui/internal/ui/client"
	"github.com/povodb/povodb-ui/internal/ui/templates"
)

func voteFilterForm(r *http.Request) templates.VoteFilterForm {
	return templates.VoteFilterForm{
		VotePosition: formValue(r, "vote_position", povodb.FilterAll),
		PoliticianID: r.FormValue("politician_id"),
	}
}

func (h *HandlerService) VotesPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, templates.VotesPage(h.page(r, "Votações"), voteFilterForm(r)), "votes page")
}

func (h *HandlerService) VoteList(w http.ResponseWriter, r *http.Request) {
	form := voteFilterForm(r)
	filters := client.VoteFilters{
		Pagination:   pagination(r),
		PoliticianID: form.PoliticianID,
		BillID:       r.FormValue("bill_id"),
		VotePosition: form.VotePosition,
	}

	res := h.Queries.Votes(r.Context(), filters, queryOptions(r)...)
	logResult(r, res.Key, res.Status)

	render(w, r, templates.VoteList(res, h.debug()), "vote list")
}

func (h *HandlerService) VoteStatistics(w http.ResponseWriter, r *http.Request) {
	res := h.Queries.VoteStatistics(r.Context(), statisticsLimit, queryOptions(r)...)
	logResult(r, res.Key, res.Status)

	render(w, r, templates.VoteStatistics(res, h.debug()), "vote statistics")
}
