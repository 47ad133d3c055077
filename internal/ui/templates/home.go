package templates

import (
	"github.com/a-h/templ"

	"github.com/povodb/povodb-ui/internal/ui/types"
)

type homeCard struct {
	href        string
	title       string
	description string
	highlight   string
	link        string
}

var homeCards = []homeCard{
	{
		href:        "/politicians",
		title:       "Políticos",
		description: "Informações detalhadas sobre políticos, seus cargos e afiliações partidárias.",
		highlight:   "Dados de perfil para centenas de políticos brasileiros",
		link:        "Ver Políticos",
	},
	{
		href:        "/bills",
		title:       "Projetos de Lei",
		description: "Acompanhe a legislação, incluindo autores, status e histórico de votações.",
		highlight:   "Acompanhamento e análise abrangente de projetos de lei",
		link:        "Ver Projetos",
	},
	{
		href:        "/votes",
		title:       "Votações",
		description: "Veja como os políticos votam em legislações importantes.",
		highlight:   "Transparência nos registros de votação",
		link:        "Ver Votações",
	},
	{
		href:        "/contributions",
		title:       "Contribuições",
		description: "Explore as contribuições financeiras para campanhas políticas.",
		highlight:   "Siga o dinheiro na política brasileira",
		link:        "Ver Contribuições",
	},
}

func HomePage(page Page) templ.Component {
	return Layout(page, component(func(h *html) {
		h.open("section", "hero")
		h.element("h1", "hero-title", "PovoDB: Plataforma de Transparência Política")
		h.element("p", "hero-text", "Acompanhe políticos, projetos de lei, votações e contribuições financeiras para trazer transparência à política brasileira.")
		h.open("div", "hero-actions")
		h.open("a", "button", "href", "/politicians")
		h.text("Ver Políticos")
		h.close("a")
		h.open("a", "button button-outline", "href", "/bills")
		h.text("Explorar Projetos")
		h.close("a")
		h.close("div")
		h.close("section")

		h.open("section", "card-grid")
		for _, card := range homeCards {
			h.open("div", "card")
			h.element("h2", "card-title", card.title)
			h.element("p", "card-description", card.description)
			h.element("p", "card-highlight", card.highlight)
			h.open("a", "card-link", "href", card.href)
			h.text(card.link)
			h.close("a")
			h.close("div")
		}
		h.close("section")

		fragment(h, page, "home-stats", "/ui-api/home/stats", Skeleton(1))
	}))
}

// EntityCount is the total number of records of one resource, or the error that prevented counting them
type EntityCount struct {
	Label string
	Href  string
	Total int
	Err   string
}

// HomeStats renders the record counts shown on the home page. Each count fails independently.
func HomeStats(counts []EntityCount) templ.Component {
	return component(func(h *html) {
		h.open("div", "stats")
		for _, c := range counts {
			h.open("a", "stat", "href", c.Href)
			h.element("span", "stat-label", c.Label)
			if c.Err != "" {
				h.element("span", "stat-error", c.Err)
			} else {
				h.element("span", "stat-value", types.FormatNumber(c.Total))
			}
			h.close("a")
		}
		h.close("div")
	})
}
