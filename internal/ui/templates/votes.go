package templates

import (
	"fmt"

	"github.com/a-h/templ"

	povodb "github.com/povodb/povodb-ui"
	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/types"
)

// VotePositions are the positions offered in the vote filter
var VotePositions = []string{"sim", "não", "abstenção"}

type VoteFilterForm struct {
	VotePosition string
	PoliticianID string
}

func VotesPage(page Page, form VoteFilterForm) templ.Component {
	return Layout(page, component(func(h *html) {
		pageHeader(h, "Votações", "Veja como os políticos votam em legislações importantes")

		fragment(h, page, "vote-statistics", "/ui-api/votes/statistics", Skeleton(1))

		h.open("form", "filters",
			"id", "filters",
			"hx-get", "/ui-api/votes",
			"hx-target", "#vote-list",
			"hx-trigger", "change, submit",
		)
		if form.PoliticianID != "" {
			h.open("input", "", "type", "hidden", "name", "politician_id", "value", form.PoliticianID)
		}
		h.open("select", "select", "name", "vote_position", "aria-label", "Selecionar voto")
		option(h, povodb.FilterAll, "Todos os votos", form.VotePosition)
		for _, position := range VotePositions {
			option(h, position, position, form.VotePosition)
		}
		h.close("select")
		h.close("form")

		fragment(h, page, "vote-list", "/ui-api/votes", Skeleton(6), "hx-include", "#filters")
	}))
}

func VoteList(res query.Result[*types.Page[types.Vote]], debug bool) templ.Component {
	msgs := messages{
		errorTitle: "Erro ao carregar votações",
		emptyTitle: "Nenhuma votação encontrada",
		emptyHint:  "Tente ajustar seus filtros",
	}
	return pageView(msgs, debug, func(h *html, page *types.Page[types.Vote]) {
		h.open("div", "list")
		for _, v := range page.Items {
			h.open("div", "list-item")
			h.open("a", "list-title", "href", "/bills/"+v.BillID)
			h.text(v.BillTitle)
			h.close("a")
			h.open("a", "muted", "href", "/politicians/"+v.PoliticianID)
			h.text("Ver político")
			h.close("a")
			h.element("span", "muted", types.FormatDate(v.VoteDate.Time))
			h.element("span", classes("badge", types.VotePositionClass(v.VotePosition)), v.VotePosition)
			labelValue(h, "Resultado", v.VoteResult)
			h.close("div")
		}
		h.close("div")
		pagination(h, page, "votações", "/ui-api/votes", "vote-list")
	}).component(res)
}

// VoteStatistics renders the per politician vote totals
func VoteStatistics(res query.Result[[]types.VoteStatistics], debug bool) templ.Component {
	v := view[[]types.VoteStatistics]{
		messages: messages{
			errorTitle: "Erro ao carregar estatísticas de votação",
			emptyTitle: "Nenhuma estatística disponível",
		},
		debug:   debug,
		isEmpty: func(stats []types.VoteStatistics) bool { return len(stats) == 0 },
		success: func(h *html, stats []types.VoteStatistics) {
			h.open("table", "table")
			h.raw("<thead><tr><th>Político</th><th>Partido</th><th>Votos</th><th>Sim</th><th>Não</th><th>% Sim</th></tr></thead>")
			h.raw("<tbody>")
			for _, s := range stats {
				h.raw("<tr><td>")
				h.open("a", "", "href", "/politicians/"+s.PoliticianID)
				h.text(s.PoliticianName)
				h.close("a")
				h.raw("</td>")
				h.element("td", "", types.OrDefault(s.Party, types.NoParty))
				h.element("td", "", types.FormatNumber(s.TotalVotes))
				h.element("td", "vote-yea", types.FormatNumber(s.YeaVotes))
				h.element("td", "vote-nay", types.FormatNumber(s.NayVotes))
				h.element("td", "", fmt.Sprintf("%.1f%%", s.YeaPercentage))
				h.raw("</tr>")
			}
			h.raw("</tbody>")
			h.close("table")
		},
	}
	return v.component(res)
}
