// Package html renders a view.Page as an HTML document for the web UI.
//
// The page uses plain forms, so every control works without client script:
// the add form posts to /quotes, the filter form to /filter, the random
// button to /random, and each delete button to /quotes/{id}/delete.
package html

import (
	"embed"
	"html/template"
	"io"

	"github.com/jsamuelsen/quote-keeper/internal/app"
	"github.com/jsamuelsen/quote-keeper/internal/view"
)

// PageTemplate is the template name to pass to gin's Context.HTML.
const PageTemplate = "page.tmpl"

// DefaultTitle is the page heading.
const DefaultTitle = "Quotes"

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template parses the embedded page templates.
// Panics if they do not parse, which can only happen on a broken build.
func Template() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

// Entry is one rendered quote.
type Entry struct {
	ID       int64
	Text     string
	Tags     string
	Label    string
	Disabled bool
}

// PageData is the template input.
type PageData struct {
	Title   string
	Page    view.Page
	Alerts  []string
	Entries []Entry
	Failure bool
}

// NewPageData flattens the page's quote list into entries.
func NewPageData(title string, page view.Page, alerts []string) PageData {
	data := PageData{
		Title:   title,
		Page:    page,
		Alerts:  alerts,
		Failure: app.IsFailureStatus(page.StatusText()),
	}

	if page.Quotes == nil {
		return data
	}

	data.Entries = make([]Entry, 0, len(page.Quotes.Children))

	for _, item := range page.Quotes.Children {
		var entry Entry

		for _, child := range item.Children {
			switch child.Tag {
			case view.TagSpan:
				entry.Text = child.Text
			case view.TagSmall:
				entry.Tags = child.Text
			case view.TagButton:
				entry.ID = child.QuoteID
				entry.Label = child.Text
				entry.Disabled = child.Disabled
			}
		}

		data.Entries = append(data.Entries, entry)
	}

	return data
}

// Write renders the page to w without gin, for tests and tools.
func Write(w io.Writer, data PageData) error {
	return Template().ExecuteTemplate(w, PageTemplate, data)
}
