package app

import "github.com/jsamuelsen/quote-keeper/internal/domain"

// Event is a discrete UI action handled by Controller.Dispatch.
type Event interface {
	// Name identifies the event kind in logs and metrics.
	Name() string
}

// LoadEvent reloads the quote list. A nil Filter sends no query.
type LoadEvent struct {
	Filter *domain.Filter
}

// SubmitEvent carries the add form fields. Tags is the raw comma-separated
// text.
type SubmitEvent struct {
	Text   string `form:"text"`
	Author string `form:"author"`
	Tags   string `form:"tags"`
}

// FilterEvent carries the filter inputs.
type FilterEvent struct {
	Author string `form:"author"`
	Tag    string `form:"tag"`
}

// RandomEvent asks for a random quote.
type RandomEvent struct{}

// ShowEvent asks for a single quote by id.
type ShowEvent struct {
	ID int64
}

// DeleteEvent is a click on the delete button of quote ID.
type DeleteEvent struct {
	ID int64
}

// Name implements Event.
func (LoadEvent) Name() string { return "load" }

// Name implements Event.
func (SubmitEvent) Name() string { return "submit" }

// Name implements Event.
func (FilterEvent) Name() string { return "filter" }

// Name implements Event.
func (RandomEvent) Name() string { return "random" }

// Name implements Event.
func (ShowEvent) Name() string { return "show" }

// Name implements Event.
func (DeleteEvent) Name() string { return "delete" }
