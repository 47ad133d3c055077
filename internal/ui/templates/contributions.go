package templates

import (
	"github.com/a-h/templ"

	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/types"
)

type ContributionFilterForm struct {
	ContributorName string
	PoliticianID    string
}

func ContributionsPage(page Page, form ContributionFilterForm) templ.Component {
	return Layout(page, component(func(h *html) {
		pageHeader(h, "Contribuições", "Explore as contribuições financeiras para campanhas políticas")

		fragment(h, page, "top-contributors", "/ui-api/contributions/top", Skeleton(1))

		h.open("form", "filters",
			"id", "filters",
			"hx-get", "/ui-api/contributions",
			"hx-target", "#contribution-list",
			"hx-trigger", "input changed delay:300ms, submit",
		)
		if form.PoliticianID != "" {
			h.open("input", "", "type", "hidden", "name", "politician_id", "value", form.PoliticianID)
		}
		h.open("input", "input",
			"type", "search",
			"name", "contributor_name",
			"placeholder", "Pesquisar por contribuinte...",
			"value", form.ContributorName,
		)
		h.close("form")

		fragment(h, page, "contribution-list", "/ui-api/contributions", Skeleton(6), "hx-include", "#filters")
	}))
}

func ContributionList(res query.Result[*types.Page[types.Contribution]], debug bool) templ.Component {
	msgs := messages{
		errorTitle: "Erro ao carregar contribuições",
		emptyTitle: "Nenhuma contribuição encontrada",
		emptyHint:  "Tente ajustar seus filtros",
	}
	return pageView(msgs, debug, func(h *html, page *types.Page[types.Contribution]) {
		h.open("div", "list")
		for _, c := range page.Items {
			h.open("div", "list-item")
			h.element("span", "list-title", c.ContributorName)
			h.element("span", "amount", types.FormatCurrency(c.Amount))
			h.element("span", "muted", types.FormatDate(c.ContributionDate.Time))
			h.element("span", "badge", types.OrUnknown(c.ContributorType))
			h.open("a", "muted", "href", "/politicians/"+c.PoliticianID)
			h.text("Ver político")
			h.close("a")
			h.close("div")
		}
		h.close("div")
		pagination(h, page, "contribuições", "/ui-api/contributions", "contribution-list")
	}).component(res)
}

func TopContributors(res query.Result[[]types.TopContributor], debug bool) templ.Component {
	v := view[[]types.TopContributor]{
		messages: messages{
			errorTitle: "Erro ao carregar maiores contribuintes",
			emptyTitle: "Nenhum contribuinte encontrado",
		},
		debug:   debug,
		isEmpty: func(top []types.TopContributor) bool { return len(top) == 0 },
		success: func(h *html, top []types.TopContributor) {
			h.open("table", "table")
			h.raw("<thead><tr><th>Contribuinte</th><th>Tipo</th><th>Total</th><th>Contribuições</th><th>Políticos</th><th>Média</th></tr></thead>")
			h.raw("<tbody>")
			for _, c := range top {
				h.raw("<tr>")
				h.element("td", "", c.ContributorName)
				h.element("td", "", types.OrUnknown(c.ContributorType))
				h.element("td", "amount", types.FormatCurrency(c.TotalAmount))
				h.element("td", "", types.FormatNumber(c.ContributionCount))
				h.element("td", "", types.FormatNumber(c.PoliticiansSupported))
				h.element("td", "", types.FormatCurrency(c.AverageContribution))
				h.raw("</tr>")
			}
			h.raw("</tbody>")
			h.close("table")
		},
	}
	return v.component(res)
}
