package templates

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/types"
)

// NoDataMessage is shown when a query succeeds without returning a record
const NoDataMessage = "Nenhum dado retornado pela API"

// Skeleton renders n placeholder cards while a fragment is loading
func Skeleton(n int) templ.Component {
	return component(func(h *html) {
		h.open("div", "card-grid", "aria-busy", "true")
		for range n {
			h.open("div", "card skeleton")
			h.raw(`<div class="skeleton-line w-3/4"></div>`)
			h.raw(`<div class="skeleton-line w-1/2"></div>`)
			h.raw(`<div class="skeleton-line w-full"></div>`)
			h.raw(`<div class="skeleton-line w-1/3"></div>`)
			h.close("div")
		}
		h.close("div")
	})
}

// ErrorAlert is the error panel shown when a query fails
func ErrorAlert(title, message string) templ.Component {
	return component(func(h *html) {
		h.open("div", "panel panel-error", "role", "alert")
		h.element("p", "panel-title", title)
		h.element("p", "muted", "Por favor, tente novamente mais tarde")
		h.element("p", "error-message", message)
		h.close("div")
	})
}

// EmptyState is shown when a query succeeds with no items
func EmptyState(title, hint string) templ.Component {
	return component(func(h *html) {
		h.open("div", "panel panel-empty")
		h.element("p", "panel-title", title)
		if hint != "" {
			h.element("p", "muted", hint)
		}
		h.close("div")
	})
}

// messages are the texts of the non-success branches of a fragment
type messages struct {
	errorTitle string
	emptyTitle string
	emptyHint  string
}

// view describes how a fragment renders a query result
type view[T any] struct {
	messages
	debug   bool
	hasData func(T) bool
	isEmpty func(T) bool
	success func(h *html, data T)
}

// render writes exactly one of: error panel, empty message or data. A success without data is an error.
func (v view[T]) render(h *html, res query.Result[T]) {
	switch {
	case res.IsError():
		h.component(ErrorAlert(v.errorTitle, res.Message()))
	case res.IsIdle():
		h.component(EmptyState(v.emptyTitle, v.emptyHint))
	case v.hasData != nil && !v.hasData(res.Data):
		h.component(ErrorAlert(v.errorTitle, NoDataMessage))
	case v.isEmpty != nil && v.isEmpty(res.Data):
		h.component(EmptyState(v.emptyTitle, v.emptyHint))
	default:
		v.success(h, res.Data)
	}

	if v.debug {
		h.component(DebugPanel(DebugInfoFor(res)))
	}
}

func (v view[T]) component(res query.Result[T]) templ.Component {
	return component(func(h *html) {
		v.render(h, res)
	})
}

// pageView returns the view of a list fragment. Pages are present when non nil and empty without items.
func pageView[T any](msgs messages, debug bool, success func(h *html, page *types.Page[T])) view[*types.Page[T]] {
	return view[*types.Page[T]]{
		messages: msgs,
		debug:    debug,
		hasData:  func(p *types.Page[T]) bool { return p != nil },
		isEmpty:  func(p *types.Page[T]) bool { return p.Empty() },
		success:  success,
	}
}

func notNil[T any](v *T) bool {
	return v != nil
}

// pagination renders "showing n of total" with previous and next links to baseURL with a page parameter.
// The links target the fragment and carry its filter form.
func pagination[T any](h *html, page *types.Page[T], noun, baseURL, target string) {
	if page.Total == 0 {
		return
	}
	h.open("div", "pagination")
	h.element("p", "muted", fmt.Sprintf("Mostrando %d de %s %s", len(page.Items), types.FormatNumber(page.Total), noun))
	h.open("div", "pagination-buttons")
	pageButton(h, "Anterior", baseURL, target, page.Page-1, page.HasPrevious())
	pageButton(h, "Próximo", baseURL, target, page.Page+1, page.HasNext())
	h.close("div")
	h.close("div")
}

func pageButton(h *html, label, baseURL, target string, number int, enabled bool) {
	if !enabled {
		h.open("button", "button button-outline", "disabled", "disabled")
		h.text(label)
		h.close("button")
		return
	}
	h.open("button", "button button-outline",
		"hx-get", fmt.Sprintf("%s?page=%d", baseURL, number),
		"hx-target", "#"+target,
		"hx-include", "#filters",
	)
	h.text(label)
	h.close("button")
}

// labelValue renders a "label: value" line used in detail views
func labelValue(h *html, label, value string) {
	h.open("p", "label-value")
	h.element("span", "label", label+":")
	h.raw(" ")
	h.text(value)
	h.close("p")
}
