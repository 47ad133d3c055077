// the templates package renders the ui pages and the HTMX fragments they load.
//
// Pages are shells: each one renders the navigation chrome and loading skeletons, and the data is
// loaded by fragment requests (/ui-api/...) triggered on load. Fragments render exactly one of the
// query states: error panel, empty result message or the data.
package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// html accumulates the first write error so that components can be written as a flat sequence of calls
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTML(ctx context.Context, w io.Writer) *html {
	return &html{ctx: ctx, w: w}
}

// raw writes trusted markup
func (h *html) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

// text writes escaped text
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes name="value" with the value escaped, preceded by a space
func (h *html) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// href writes a sanitized href attribute
func (h *html) href(url string) {
	h.attr("href", string(templ.URL(url)))
}

func (h *html) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

func (h *html) open(tag string, class string, attrs ...string) {
	h.raw("<", tag)
	if class != "" {
		h.attr("class", class)
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		h.attr(attrs[i], attrs[i+1])
	}
	h.raw(">")
}

func (h *html) close(tag string) {
	h.raw("</", tag, ">")
}

// element writes <tag class="...">text</tag>
func (h *html) element(tag, class, text string) {
	h.open(tag, class)
	h.text(text)
	h.close(tag)
}

// component is a shorthand for templ.ComponentFunc taking the html writer
func component(render func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		render(h)
		return h.err
	})
}

// classes joins the non empty class names
func classes(names ...string) string {
	var b strings.Builder
	for _, n := range names {
		if n == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n)
	}
	return b.String()
}
