package templates

import (
	"fmt"

	"github.com/a-h/templ"

	povodb "github.com/povodb/povodb-ui"
	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/types"
)

// PoliticianFilterForm holds the filter values to show in the politician search form
type PoliticianFilterForm struct {
	Name    string
	Party   string // povodb.FilterAll or a party code
	Country string // povodb.FilterAll or a country name
}

func PoliticiansPage(page Page, form PoliticianFilterForm) templ.Component {
	return Layout(page, component(func(h *html) {
		pageHeader(h, "Políticos", "Navegue e pesquise políticos, seus registros de votação e contribuições")

		h.open("form", "filters",
			"id", "filters",
			"hx-get", "/ui-api/politicians",
			"hx-target", "#politician-list",
			"hx-trigger", "change, input changed delay:300ms from:#name, submit",
		)
		h.open("input", "input",
			"id", "name",
			"type", "search",
			"name", "name",
			"placeholder", "Pesquisar por nome...",
			"value", form.Name,
		)

		h.open("select", "select", "name", "party", "aria-label", "Selecionar partido")
		option(h, povodb.FilterAll, "Todos os partidos", form.Party)
		for _, party := range povodb.Parties {
			option(h, party, party, form.Party)
		}
		h.close("select")

		h.open("select", "select", "name", "country", "aria-label", "Selecionar país")
		option(h, povodb.DefaultCountry, povodb.DefaultCountry, form.Country)
		option(h, povodb.FilterAll, "Todos os países", form.Country)
		h.close("select")
		h.close("form")

		fragment(h, page, "politician-list", "/ui-api/politicians", Skeleton(6), "hx-include", "#filters")
	}))
}

func option(h *html, value, label, selected string) {
	if value == selected {
		h.open("option", "", "value", value, "selected", "selected")
	} else {
		h.open("option", "", "value", value)
	}
	h.text(label)
	h.close("option")
}

func pageHeader(h *html, title, description string) {
	h.open("div", "page-header")
	h.element("h1", "page-title", title)
	if description != "" {
		h.element("p", "muted", description)
	}
	h.close("div")
}

// PoliticianList is the politician search results fragment
func PoliticianList(res query.Result[*types.Page[types.Politician]], debug bool) templ.Component {
	msgs := messages{
		errorTitle: "Erro ao carregar políticos",
		emptyTitle: "Nenhum político encontrado",
		emptyHint:  "Tente ajustar seus filtros",
	}
	return pageView(msgs, debug, func(h *html, page *types.Page[types.Politician]) {
		h.open("div", "card-grid")
		for _, p := range page.Items {
			politicianCard(h, p)
		}
		h.close("div")
		pagination(h, page, "políticos", "/ui-api/politicians", "politician-list")
	}).component(res)
}

func politicianCard(h *html, p types.Politician) {
	h.open("div", "card politician-card")
	h.element("h2", "card-title", p.Name)
	h.element("p", "card-description", p.PartyLabel()+" • "+p.PositionLabel())

	h.open("div", "card-body")
	avatar(h, p, "avatar")
	h.element("p", "", p.Location())
	h.close("div")
	h.element("p", "card-text line-clamp-2", types.OrDefault(p.Bio, "Nenhuma biografia disponível."))

	h.open("a", "button button-ghost", "href", "/politicians/"+p.ID)
	h.text("Ver detalhes")
	h.close("a")
	h.close("div")
}

func avatar(h *html, p types.Politician, class string) {
	if p.PhotoURL != nil && *p.PhotoURL != "" {
		h.open("img", class, "src", string(templ.URL(*p.PhotoURL)), "alt", p.Name)
		return
	}
	h.open("div", classes(class, "avatar-placeholder"), "aria-hidden", "true")
	h.close("div")
}

// PoliticianDetailPage is the shell of /politicians/{id}; the record is loaded by the detail fragment
func PoliticianDetailPage(page Page, id string) templ.Component {
	return Layout(page, component(func(h *html) {
		h.open("a", "button button-ghost", "href", "/politicians")
		h.text("Voltar")
		h.close("a")
		fragment(h, page, "politician-detail", "/ui-api/politicians/"+id, Skeleton(1))
		fragment(h, page, "politician-contributions", "/ui-api/politicians/"+id+"/contributions", Skeleton(1))
	}))
}

// PoliticianContributionStats is the fragment summarising the contributions received by a politician
func PoliticianContributionStats(res query.Result[*types.PoliticianContributions], debug bool) templ.Component {
	v := view[*types.PoliticianContributions]{
		messages: messages{
			errorTitle: "Erro ao carregar estatísticas de contribuições",
			emptyTitle: "Nenhuma estatística de contribuição disponível",
		},
		debug:   debug,
		hasData: notNil[types.PoliticianContributions],
		success: func(h *html, c *types.PoliticianContributions) {
			stats := c.ContributionStats
			h.open("div", "stats")
			for _, stat := range []struct{ label, value string }{
				{"Total recebido", types.FormatCurrency(stats.TotalAmount)},
				{"Contribuições", types.FormatNumber(stats.TotalContributions)},
				{"Média por contribuição", types.FormatCurrency(stats.AverageContribution)},
			} {
				h.open("div", "stat")
				h.element("span", "stat-label", stat.label)
				h.element("span", "stat-value", stat.value)
				h.close("div")
			}
			h.close("div")
		},
	}
	return v.component(res)
}

// PoliticianDetail is the politician profile fragment with votes, sponsored bills and contributions tabs
func PoliticianDetail(res query.Result[*types.PoliticianDetail], debug bool) templ.Component {
	v := view[*types.PoliticianDetail]{
		messages: messages{
			errorTitle: "Erro ao carregar detalhes do político",
			emptyTitle: "Não foi possível encontrar o político solicitado",
		},
		debug:   debug,
		hasData: notNil[types.PoliticianDetail],
		success: politicianDetail,
	}
	return v.component(res)
}

func politicianDetail(h *html, p *types.PoliticianDetail) {
	h.open("div", "profile")
	avatar(h, p.Politician, "avatar-large")
	h.open("div", "profile-info")
	h.element("h1", "page-title", p.Name)
	h.element("p", "card-description", p.PartyLabel()+" • "+p.PositionLabel())
	labelValue(h, "Localização", p.Location())
	if p.Website != nil && *p.Website != "" {
		h.open("p", "label-value")
		h.element("span", "label", "Website:")
		h.raw(" ")
		h.open("a", "", "href", string(templ.URL(*p.Website)), "target", "_blank", "rel", "noopener noreferrer")
		h.text("Visitar")
		h.close("a")
		h.close("p")
	}
	labelValue(h, "Adicionado", types.FormatDate(p.CreatedAt.Time))
	h.element("p", "card-text", types.OrDefault(p.Bio, "Nenhuma biografia disponível para este político."))
	h.close("div")
	h.close("div")

	h.open("nav", "tabs")
	tabLink(h, "votes", fmt.Sprintf("Votações (%d)", len(p.Votes)))
	tabLink(h, "bills", fmt.Sprintf("Projetos (%d)", len(p.SponsoredBills)))
	tabLink(h, "contributions", fmt.Sprintf("Contribuições (%d)", len(p.Contributions)))
	h.close("nav")

	h.open("section", "tab-panel", "id", "votes")
	if len(p.Votes) == 0 {
		h.component(EmptyState("Nenhum registro de votação disponível para este político.", ""))
	}
	for _, v := range p.Votes {
		h.open("div", "list-item")
		h.open("a", "list-title", "href", "/bills/"+v.BillID)
		h.text(v.BillTitle)
		h.close("a")
		h.element("span", "muted", types.FormatDate(v.VoteDate.Time))
		h.element("span", classes("badge", types.VotePositionClass(v.VotePosition)), v.VotePosition)
		labelValue(h, "Resultado", v.VoteResult)
		h.close("div")
	}
	h.close("section")

	h.open("section", "tab-panel", "id", "bills")
	if len(p.SponsoredBills) == 0 {
		h.component(EmptyState("Nenhum projeto patrocinado disponível para este político.", ""))
	}
	for _, b := range p.SponsoredBills {
		h.open("div", "list-item")
		h.open("a", "list-title", "href", "/bills/"+b.ID)
		h.text(b.BillNumber + " " + b.Title)
		h.close("a")
		labelValue(h, "Apresentado", formatOptionalDate(b.IntroducedDate))
		h.element("span", "badge", types.OrDefault(b.Status, "Status desconhecido"))
		if b.Description != nil {
			h.element("p", "card-text", *b.Description)
		}
		h.close("div")
	}
	h.close("section")

	h.open("section", "tab-panel", "id", "contributions")
	if len(p.Contributions) == 0 {
		h.component(EmptyState("Nenhum registro de contribuição disponível para este político.", ""))
	}
	for _, c := range p.Contributions {
		h.open("div", "list-item")
		h.element("span", "list-title", c.ContributorName)
		h.element("span", "amount", types.FormatCurrency(c.Amount))
		h.element("span", "muted", types.FormatDate(c.ContributionDate.Time))
		h.element("span", "badge", types.OrUnknown(c.ContributorType))
		h.close("div")
	}
	h.close("section")
}

func tabLink(h *html, id, label string) {
	h.open("a", "tab", "href", "#"+id)
	h.text(label)
	h.close("a")
}

func formatOptionalDate(d *types.Date) string {
	if d == nil {
		return types.Unknown
	}
	return types.FormatDate(d.Time)
}
