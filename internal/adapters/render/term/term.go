// Package term prints a view.Page to a terminal.
package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jsamuelsen/quote-keeper/internal/app"
	"github.com/jsamuelsen/quote-keeper/internal/view"
)

var (
	colorRed   = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff5f5f"}
	colorGreen = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#5fff5f"}
	colorGray  = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan  = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Renderer writes pages with styles resolved for its output.
// Colors are dropped when the output is not a terminal.
type Renderer struct {
	out io.Writer

	id      lipgloss.Style
	tags    lipgloss.Style
	status  lipgloss.Style
	failure lipgloss.Style
	alert   lipgloss.Style
	empty   lipgloss.Style
}

// New creates a renderer writing to out.
func New(out io.Writer) *Renderer {
	r := lipgloss.NewRenderer(out)

	return &Renderer{
		out:     out,
		id:      r.NewStyle().Foreground(colorCyan).Width(6),
		tags:    r.NewStyle().Foreground(colorGray),
		status:  r.NewStyle().Foreground(colorGreen),
		failure: r.NewStyle().Foreground(colorRed).Bold(true),
		alert:   r.NewStyle().Foreground(colorRed).Border(lipgloss.NormalBorder()).Padding(0, 1),
		empty:   r.NewStyle().Foreground(colorGray).Italic(true),
	}
}

// Render returns the page as text: one line per quote entry, then the status
// text, then each alert.
func (r *Renderer) Render(page view.Page, alerts []string) string {
	var blocks []string

	if page.Quotes != nil {
		blocks = append(blocks, r.renderList(page.Quotes))
	}

	if status := page.StatusText(); status != "" {
		style := r.status
		if app.IsFailureStatus(status) {
			style = r.failure
		}

		blocks = append(blocks, style.Render(status))
	}

	for _, a := range alerts {
		blocks = append(blocks, r.alert.Render(a))
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (r *Renderer) renderList(list *view.Node) string {
	if len(list.Children) == 0 {
		return r.empty.Render("(no quotes)")
	}

	lines := make([]string, 0, len(list.Children))

	for _, item := range list.Children {
		var sb strings.Builder

		for _, b := range item.FindAll(view.TagButton) {
			if b.QuoteID != 0 {
				sb.WriteString(r.id.Render(fmt.Sprintf("#%d", b.QuoteID)))
			}
		}

		for _, span := range item.FindAll(view.TagSpan) {
			sb.WriteString(span.Text)
		}

		for _, small := range item.FindAll(view.TagSmall) {
			sb.WriteString(r.tags.Render(small.Text))
		}

		lines = append(lines, sb.String())
	}

	return strings.Join(lines, "\n")
}

// Print writes the rendered page followed by a newline.
func (r *Renderer) Print(page view.Page, alerts []string) error {
	if _, err := fmt.Fprintln(r.out, r.Render(page, alerts)); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}
