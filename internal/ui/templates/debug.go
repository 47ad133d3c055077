package templates

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/a-h/templ"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/types"
)

// DebugInfo is the state of one query as shown in the development debug panel
type DebugInfo struct {
	Key       string
	Status    string
	Error     string
	UpdatedAt time.Time
	Data      any
}

func DebugInfoFor[T any](res query.Result[T]) DebugInfo {
	return DebugInfo{
		Key:       res.Key.String(),
		Status:    res.Status.String(),
		Error:     res.Message(),
		UpdatedAt: res.UpdatedAt,
		Data:      res.Data,
	}
}

var (
	jsonLexer     = chroma.Coalesce(lexers.Get("json"))
	debugStyle    = styles.Get("monokai")
	jsonFormatter = chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(2))
)

// HighlightJSON renders v as indented JSON with inline syntax highlighting
func HighlightJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}

	iterator, err := jsonLexer.Tokenise(nil, string(data))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := jsonFormatter.Format(&buf, debugStyle, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DebugPanel shows the query key, status, error and response payload. It is only rendered in dev.
func DebugPanel(info DebugInfo) templ.Component {
	return component(func(h *html) {
		h.open("details", "debug-panel")
		h.element("summary", "debug-title", "Debug Panel")

		h.element("p", "debug-label", "Query:")
		h.element("code", "", info.Key)

		h.element("p", "debug-label", "Status:")
		h.element("code", "", info.Status)
		if !info.UpdatedAt.IsZero() {
			h.text(" (" + types.FormatDateTime(info.UpdatedAt.Format(time.RFC3339)) + ")")
		}

		if info.Error != "" {
			h.element("p", "debug-label", "Error:")
			h.element("pre", "debug-error", info.Error)
		}

		h.element("p", "debug-label", "Response Data:")
		highlighted, err := HighlightJSON(info.Data)
		if err != nil {
			h.element("pre", "debug-error", err.Error())
		} else {
			// chroma escapes the tokens it writes
			h.raw(highlighted)
		}
		h.close("details")
	})
}
