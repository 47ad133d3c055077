package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/povodb/povodb-ui/internal/ui/client"
	"github.com/povodb/povodb-ui/internal/ui/templates"
)

func (h *HandlerService) BillsPage(w http.ResponseWriter, r *http.Request) {
	form := templates.BillFilterForm{Status: r.FormValue("status")}
	render(w, r, templates.BillsPage(h.page(r, "Projetos de Lei"), form), "bills page")
}

func (h *HandlerService) BillList(w http.ResponseWriter, r *http.Request) {
	filters := client.BillFilters{
		Pagination: pagination(r),
		Status:     r.FormValue("status"),
		SponsorID:  r.FormValue("sponsor_id"),
	}

	res := h.Queries.Bills(r.Context(), filters, queryOptions(r)...)
	logResult(r, res.Key, res.Status)

	render(w, r, templates.BillList(res, h.debug()), "bill list")
}

func (h *HandlerService) BillDetailPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	render(w, r, templates.BillDetailPage(h.page(r, "Projeto de Lei"), id), "bill detail page")
}

func (h *HandlerService) BillDetail(w http.ResponseWriter, r *http.Request) {
	res := h.Queries.Bill(r.Context(), chi.URLParam(r, "id"), queryOptions(r)...)
	logResult(r, res.Key, res.Status)

	render(w, r, templates.BillDetail(res, h.debug()), "bill detail")
}
