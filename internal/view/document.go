package view

import (
	"slices"
	"sync"
)

// Element ids of the page.
const (
	ElementQuotes       = "quotes"
	ElementAddForm      = "addForm"
	ElementStatus       = "status"
	ElementFilterAuthor = "filter-author"
	ElementFilterTag    = "filter-tag"
	ElementFilterButton = "filter-btn"
	ElementRandomButton = "random-btn"
)

// AllElements lists every element id of a full page.
var AllElements = []string{
	ElementQuotes,
	ElementAddForm,
	ElementStatus,
	ElementFilterAuthor,
	ElementFilterTag,
	ElementFilterButton,
	ElementRandomButton,
}

// Input is a single-line text field.
type Input struct {
	Value string
}

// Button is a clickable control.
type Button struct {
	Label    string
	Disabled bool
}

// Form is the add-quote form.
type Form struct {
	Text   Input
	Author Input
	Tags   Input
	Submit Button
}

// Page is the state of a document. A nil element is absent from the page and
// the feature it drives is silently disabled.
type Page struct {
	Quotes       *Node
	Form         *Form
	Status       *Node
	FilterAuthor *Input
	FilterTag    *Input
	FilterButton *Button
	RandomButton *Button

	// Alerts are modal messages not yet shown to the user.
	Alerts []string
}

// StatusText returns the status area text, or "" without a status area.
func (p Page) StatusText() string {
	if p.Status == nil {
		return ""
	}

	return p.Status.Text
}

func (p *Page) clone() Page {
	c := Page{
		Quotes: p.Quotes.Clone(),
		Status: p.Status.Clone(),
		Alerts: slices.Clone(p.Alerts),
	}

	if p.Form != nil {
		f := *p.Form
		c.Form = &f
	}

	c.FilterAuthor = cloneInput(p.FilterAuthor)
	c.FilterTag = cloneInput(p.FilterTag)
	c.FilterButton = cloneButton(p.FilterButton)
	c.RandomButton = cloneButton(p.RandomButton)

	return c
}

func cloneInput(in *Input) *Input {
	if in == nil {
		return nil
	}

	c := *in

	return &c
}

func cloneButton(b *Button) *Button {
	if b == nil {
		return nil
	}

	c := *b

	return &c
}

// Transition is a state change of a page. Transitions perform no I/O.
type Transition func(p *Page)

// Document is a page guarded by a mutex. It is safe for concurrent use.
type Document struct {
	mu   sync.Mutex
	page Page
}

// New creates a document holding only the named elements. Unknown ids are
// ignored.
func New(elements ...string) *Document {
	d := &Document{}

	for _, id := range elements {
		switch id {
		case ElementQuotes:
			d.page.Quotes = &Node{Tag: TagList, ID: ElementQuotes}
		case ElementAddForm:
			d.page.Form = &Form{Submit: Button{Label: "Add"}}
		case ElementStatus:
			d.page.Status = &Node{Tag: "div", ID: ElementStatus}
		case ElementFilterAuthor:
			d.page.FilterAuthor = &Input{}
		case ElementFilterTag:
			d.page.FilterTag = &Input{}
		case ElementFilterButton:
			d.page.FilterButton = &Button{Label: "Filter"}
		case ElementRandomButton:
			d.page.RandomButton = &Button{Label: "Random"}
		}
	}

	return d
}

// NewPage creates a document with every element.
func NewPage() *Document {
	return New(AllElements...)
}

// Apply runs the transitions in order under the document lock.
func (d *Document) Apply(transitions ...Transition) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, t := range transitions {
		t(&d.page)
	}
}

// ApplyIf runs the transitions only when guard holds, checking and applying
// under one lock acquisition. It reports whether they ran.
func (d *Document) ApplyIf(guard func(p *Page) bool, transitions ...Transition) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !guard(&d.page) {
		return false
	}

	for _, t := range transitions {
		t(&d.page)
	}

	return true
}

// Has reports whether the element is present.
func (d *Document) Has(element string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch element {
	case ElementQuotes:
		return d.page.Quotes != nil
	case ElementAddForm:
		return d.page.Form != nil
	case ElementStatus:
		return d.page.Status != nil
	case ElementFilterAuthor:
		return d.page.FilterAuthor != nil
	case ElementFilterTag:
		return d.page.FilterTag != nil
	case ElementFilterButton:
		return d.page.FilterButton != nil
	case ElementRandomButton:
		return d.page.RandomButton != nil
	default:
		return false
	}
}

// Snapshot returns a deep copy of the page.
func (d *Document) Snapshot() Page {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.page.clone()
}

// TakeAlerts returns the pending alerts and clears them.
func (d *Document) TakeAlerts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	alerts := d.page.Alerts
	d.page.Alerts = nil

	return alerts
}
