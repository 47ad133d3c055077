package templates

import (
	"fmt"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// RefreshEvent is sent in the HX-Trigger header after a focus refresh. Fragments listen for it on the body.
const RefreshEvent = "povodb:refresh"

// RefetchParam is sent by the periodic reload of a fragment: the handler then fetches past the staleness window
const RefetchParam = "refetch"

// FocusParam carries the comma separated resources a page shows when it posts a focus refresh
const FocusParam = "resource"

// fragmentTrigger loads a fragment when its placeholder is inserted and when the page regains focus
const fragmentTrigger = "load, " + RefreshEvent + " from:body"

// pollTrigger reloads a fragment every refetch interval while the page stays open
func pollTrigger(refetchInterval time.Duration) string {
	return fmt.Sprintf("every %ds", max(1, int(refetchInterval.Seconds())))
}

// Page holds the values every page needs to render the layout
type Page struct {
	Title       string
	Path        string // current path, used to highlight the navigation
	Environment string

	// RefetchInterval is how often open pages reload their fragments, 0 disables it
	RefetchInterval time.Duration
}

// focusResources returns the query resources the fragments of the page at path read, nil when it has none
func focusResources(path string) []string {
	if path == "/" {
		return []string{"politicians", "bills", "votes", "contributions"}
	}
	for _, item := range navItems[1:] {
		if path == item.href || strings.HasPrefix(path, item.href+"/") {
			return []string{strings.TrimPrefix(item.href, "/")}
		}
	}
	return nil
}

func (p Page) devMode() bool {
	return p.Environment == "dev"
}

type navItem struct {
	href  string
	label string
}

var navItems = []navItem{
	{"/", "Início"},
	{"/politicians", "Políticos"},
	{"/bills", "Projetos"},
	{"/votes", "Votações"},
	{"/contributions", "Contribuições"},
}

func (p Page) active(href string) bool {
	if href == "/" {
		return p.Path == "/"
	}
	return p.Path == href || strings.HasPrefix(p.Path, href+"/")
}

// Layout wraps body with the document head, navigation bar, sidebar and footer
func Layout(page Page, body templ.Component) templ.Component {
	return component(func(h *html) {
		h.raw("<!DOCTYPE html>")
		h.open("html", "", "lang", "pt-BR")
		h.raw("<head>")
		h.raw(`<meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.open("title", "")
		if page.Title != "" {
			h.text(page.Title + " | PovoDB")
		} else {
			h.text("PovoDB")
		}
		h.close("title")
		h.raw(`<link rel="stylesheet" href="/static/css/app.css">`)
		h.raw(`<script src="/static/js/htmx.min.js" defer></script>`)
		h.raw("</head>")

		h.open("body", "min-h-screen")
		navbar(h, page)
		h.open("div", "layout")
		sidebar(h, page)
		h.open("main", "content", "id", "main")
		h.component(body)
		h.close("main")
		h.close("div")
		footer(h)

		// window focus marks the queries of this page stale and asks the fragments to reload
		if resources := focusResources(page.Path); resources != nil {
			h.open("div", "", "hidden", "hidden", "hx-post", "/ui-api/focus", "hx-trigger", "focus from:window", "hx-swap", "none",
				"hx-vals", `{"`+FocusParam+`":"`+strings.Join(resources, ",")+`"}`)
			h.close("div")
		}
		h.close("body")
		h.close("html")
	})
}

func navbar(h *html, page Page) {
	h.open("header", "navbar")
	h.open("a", "brand", "href", "/")
	h.text("PovoDB")
	h.close("a")
	h.open("nav", "navbar-links")
	for _, item := range navItems[1:] {
		navLink(h, page, item)
	}
	h.close("nav")
	h.close("header")
}

func sidebar(h *html, page Page) {
	h.open("aside", "sidebar")
	h.open("nav", "")
	for _, item := range navItems {
		navLink(h, page, item)
	}
	h.close("nav")
	h.close("aside")
}

func navLink(h *html, page Page, item navItem) {
	class := "nav-link"
	if page.active(item.href) {
		class = classes(class, "active")
	}
	h.open("a", class, "href", item.href)
	h.text(item.label)
	h.close("a")
}

func footer(h *html) {
	h.open("footer", "footer")
	h.open("p", "")
	h.raw("&copy; ")
	h.text(fmt.Sprintf("%d PovoDB. Todos os direitos reservados.", time.Now().Year()))
	h.close("p")
	h.open("div", "footer-links")
	for _, link := range []navItem{{"/about", "Sobre"}, {"/privacy", "Privacidade"}, {"/terms", "Termos"}} {
		h.open("a", "footer-link", "href", link.href)
		h.text(link.label)
		h.close("a")
	}
	h.close("div")
	h.close("footer")
}

// fragment renders the placeholder that loads url, showing skeleton until the response arrives.
// attrs are extra attribute name/value pairs, e.g. hx-include for filter forms.
//
// When the page has a refetch interval a hidden poller reloads the fragment with RefetchParam set,
// so the data is refreshed even when the cached result is still fresh.
func fragment(h *html, page Page, id, url string, skeleton templ.Component, attrs ...string) {
	h.open("div", "fragment", append([]string{
		"id", id,
		"hx-get", url,
		"hx-trigger", fragmentTrigger,
		"hx-swap", "innerHTML",
	}, attrs...)...)
	h.component(skeleton)
	h.close("div")

	if page.RefetchInterval > 0 {
		h.open("div", "", append([]string{
			"hidden", "hidden",
			"hx-get", url,
			"hx-trigger", pollTrigger(page.RefetchInterval),
			"hx-target", "#" + id,
			"hx-swap", "innerHTML",
			"hx-vals", `{"` + RefetchParam + `":"1"}`,
		}, attrs...)...)
		h.close("div")
	}
}
