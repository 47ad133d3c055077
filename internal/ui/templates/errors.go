package templates

import "github.com/a-h/templ"

func NotFoundPage(page Page) templ.Component {
	return Layout(page, component(func(h *html) {
		h.open("div", "centered")
		h.element("p", "not-found-code", "404")
		h.element("h1", "page-title", "Oops! Página não encontrada")
		h.element("p", "muted", "A página que você está procurando não existe ou foi movida.")
		h.open("a", "button", "href", "/")
		h.text("Voltar para Início")
		h.close("a")
		h.close("div")
	}))
}

// PlaceholderPage is shown for sections that are not built yet
func PlaceholderPage(page Page) templ.Component {
	return Layout(page, component(func(h *html) {
		h.open("div", "centered")
		h.element("h1", "page-title", "Página em Construção")
		h.element("p", "muted", "Este recurso está sendo desenvolvido e estará disponível em breve.")
		h.open("a", "button", "href", "/")
		h.text("Voltar para Início")
		h.close("a")
		h.close("div")
	}))
}

// FragmentError is returned by fragment requests that fail before a query is run, e.g. a bad filter value
func FragmentError(message string) templ.Component {
	return ErrorAlert("Erro", message)
}
