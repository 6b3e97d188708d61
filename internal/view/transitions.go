package view

import "github.com/jsamuelsen/quote-keeper/internal/domain"

// SetStatus replaces the status text.
func SetStatus(text string) Transition {
	return func(p *Page) {
		if p.Status != nil {
			p.Status.Text = text
		}
	}
}

// ShowQuotes renders quotes into the list.
func ShowQuotes(quotes []*domain.Quote) Transition {
	return func(p *Page) {
		RenderQuotes(quotes, p.Quotes)
	}
}

// SetSubmitDisabled toggles the add form's submit button.
func SetSubmitDisabled(disabled bool) Transition {
	return func(p *Page) {
		if p.Form != nil {
			p.Form.Submit.Disabled = disabled
		}
	}
}

// FillForm stores the submitted field values in the add form.
func FillForm(text, author, tags string) Transition {
	return func(p *Page) {
		if p.Form == nil {
			return
		}

		p.Form.Text.Value = text
		p.Form.Author.Value = author
		p.Form.Tags.Value = tags
	}
}

// ResetForm clears the add form's fields.
func ResetForm() Transition {
	return FillForm("", "", "")
}

// SetFilter stores the filter input values.
func SetFilter(author, tag string) Transition {
	return func(p *Page) {
		if p.FilterAuthor != nil {
			p.FilterAuthor.Value = author
		}

		if p.FilterTag != nil {
			p.FilterTag.Value = tag
		}
	}
}

// SetDeleteDisabled toggles the delete button of quote id, if it is rendered.
func SetDeleteDisabled(id int64, disabled bool) Transition {
	return func(p *Page) {
		if p.Quotes == nil {
			return
		}

		if b := p.Quotes.DeleteButton(id); b != nil {
			b.Disabled = disabled
		}
	}
}

// Alert queues a modal message.
func Alert(message string) Transition {
	return func(p *Page) {
		p.Alerts = append(p.Alerts, message)
	}
}

// DeleteAllowed is a guard that fails while the delete button of quote id is
// disabled.
func DeleteAllowed(id int64) func(p *Page) bool {
	return func(p *Page) bool {
		if p.Quotes == nil {
			return true
		}

		b := p.Quotes.DeleteButton(id)

		return b == nil || !b.Disabled
	}
}
