package domain

import "strings"

// UnknownAuthor is shown in place of a missing author.
const UnknownAuthor = "unknown"

// Quote represents a quotation as stored by the quotes API.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is the server-assigned identifier.
	ID int64

	// Text is the body of the quote.
	Text string

	// Author is who said or wrote the quote. Empty when the API has none.
	Author string

	// Tags are optional labels in server order.
	Tags []string
}

// DisplayText returns "{text} — {author}", substituting UnknownAuthor for
// an empty author.
func (q *Quote) DisplayText() string {
	author := q.Author
	if author == "" {
		author = UnknownAuthor
	}

	return q.Text + " — " + author
}

// TagAnnotation returns " [a, b]" for a quote with tags and "" otherwise.
func (q *Quote) TagAnnotation() string {
	if len(q.Tags) == 0 {
		return ""
	}

	return " [" + strings.Join(q.Tags, ", ") + "]"
}

// Draft is the payload of a quote that has not been created yet.
type Draft struct {
	Text   string
	Author string
	Tags   []string
}

// Filter narrows the list endpoint by author and tag.
// Empty fields are still sent; the API treats them as "no filter".
type Filter struct {
	Author string
	Tag    string
}

// ParseTags converts the free-text tags field into a tag list.
// Entries are comma-separated, trimmed, and dropped when empty.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}

	return tags
}
