package view

import "github.com/jsamuelsen/quote-keeper/internal/domain"

// RenderQuotes replaces the children of container with one entry per quote,
// in input order, and returns container. Each entry holds the display text,
// a tag annotation when the quote has tags, and a delete button bound to the
// quote id. A nil container is left alone.
func RenderQuotes(quotes []*domain.Quote, container *Node) *Node {
	if container == nil {
		return nil
	}

	container.Clear()

	for _, q := range quotes {
		container.Append(renderEntry(q))
	}

	return container
}

func renderEntry(q *domain.Quote) *Node {
	item := NewNode(TagItem, "")
	item.Append(NewNode(TagSpan, q.DisplayText()))

	if annotation := q.TagAnnotation(); annotation != "" {
		item.Append(NewNode(TagSmall, annotation))
	}

	del := NewNode(TagButton, DeleteLabel)
	del.QuoteID = q.ID
	item.Append(del)

	return item
}
