package templates

import (
	"github.com/a-h/templ"

	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/types"
)

type BillFilterForm struct {
	Status string
}

func BillsPage(page Page, form BillFilterForm) templ.Component {
	return Layout(page, component(func(h *html) {
		pageHeader(h, "Projetos de Lei", "Acompanhe a legislação, incluindo autores, status e histórico de votações")

		h.open("form", "filters",
			"id", "filters",
			"hx-get", "/ui-api/bills",
			"hx-target", "#bill-list",
			"hx-trigger", "input changed delay:300ms, submit",
		)
		h.open("input", "input",
			"type", "search",
			"name", "status",
			"placeholder", "Filtrar por status...",
			"value", form.Status,
		)
		h.close("form")

		fragment(h, page, "bill-list", "/ui-api/bills", Skeleton(6), "hx-include", "#filters")
	}))
}

func BillList(res query.Result[*types.Page[types.Bill]], debug bool) templ.Component {
	msgs := messages{
		errorTitle: "Erro ao carregar projetos",
		emptyTitle: "Nenhum projeto encontrado",
		emptyHint:  "Tente ajustar seus filtros",
	}
	return pageView(msgs, debug, func(h *html, page *types.Page[types.Bill]) {
		h.open("div", "list")
		for _, b := range page.Items {
			h.open("div", "list-item")
			h.open("a", "list-title", "href", "/bills/"+b.ID)
			h.text(b.BillNumber + " " + b.Title)
			h.close("a")
			labelValue(h, "Apresentado", formatOptionalDate(b.IntroducedDate))
			h.element("span", "badge", types.OrDefault(b.Status, "Status desconhecido"))
			h.close("div")
		}
		h.close("div")
		pagination(h, page, "projetos", "/ui-api/bills", "bill-list")
	}).component(res)
}

func BillDetailPage(page Page, id string) templ.Component {
	return Layout(page, component(func(h *html) {
		h.open("a", "button button-ghost", "href", "/bills")
		h.text("Voltar")
		h.close("a")
		fragment(h, page, "bill-detail", "/ui-api/bills/"+id, Skeleton(1))
	}))
}

func BillDetail(res query.Result[*types.BillWithSponsor], debug bool) templ.Component {
	v := view[*types.BillWithSponsor]{
		messages: messages{
			errorTitle: "Erro ao carregar detalhes do projeto",
			emptyTitle: "Não foi possível encontrar o projeto solicitado",
		},
		debug:   debug,
		hasData: notNil[types.BillWithSponsor],
		success: billDetail,
	}
	return v.component(res)
}

func billDetail(h *html, b *types.BillWithSponsor) {
	h.open("div", "profile-info")
	h.element("p", "muted", b.BillNumber)
	h.element("h1", "page-title", b.Title)
	h.element("span", "badge", types.OrDefault(b.Status, "Status desconhecido"))
	labelValue(h, "Apresentado", formatOptionalDate(b.IntroducedDate))

	h.open("p", "label-value")
	h.element("span", "label", "Autor:")
	h.raw(" ")
	if b.Sponsor != nil {
		h.open("a", "", "href", "/politicians/"+b.Sponsor.ID)
		h.text(b.Sponsor.Name)
		h.close("a")
	} else {
		h.text(types.Unknown)
	}
	h.close("p")

	if b.FullTextURL != nil && *b.FullTextURL != "" {
		h.open("a", "button button-outline", "href", string(templ.URL(*b.FullTextURL)), "target", "_blank", "rel", "noopener noreferrer")
		h.text("Texto completo")
		h.close("a")
	}
	h.element("p", "card-text", types.OrDefault(b.Description, "Nenhuma descrição disponível."))
	h.close("div")
}
