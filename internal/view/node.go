// Package view models the quote-keeper page as plain values.
//
// A Document holds the optional page elements (quote list, add form, status
// area, filter inputs, buttons) and pending alerts. Components never touch a
// Document's fields directly: they describe changes as Transitions and hand
// them to Document.Apply, which runs them under the document lock. Output
// adapters read a consistent copy through Document.Snapshot.
package view

import "strings"

// Element tags used by the renderer.
const (
	TagList   = "ul"
	TagItem   = "li"
	TagSpan   = "span"
	TagSmall  = "small"
	TagButton = "button"
)

// DeleteLabel is the label of every entry's delete button.
const DeleteLabel = "Delete"

// Node is a minimal element tree. Text is the node's own text; descendants
// contribute theirs through TextContent.
type Node struct {
	Tag  string
	ID   string
	Text string

	// QuoteID addresses the quote a delete button acts on. Zero elsewhere.
	QuoteID int64

	Disabled bool
	Children []*Node
}

// NewNode creates an element with the given tag and text.
func NewNode(tag, text string) *Node {
	return &Node{Tag: tag, Text: text}
}

// Append adds children in order.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Clear removes all children.
func (n *Node) Clear() {
	n.Children = nil
}

// TextContent concatenates the node's text with that of all descendants in
// document order.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.writeText(&sb)

	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	sb.WriteString(n.Text)

	for _, child := range n.Children {
		child.writeText(sb)
	}
}

// FindAll returns every descendant (not n itself) with the given tag, in
// document order.
func (n *Node) FindAll(tag string) []*Node {
	var found []*Node

	for _, child := range n.Children {
		if child.Tag == tag {
			found = append(found, child)
		}

		found = append(found, child.FindAll(tag)...)
	}

	return found
}

// DeleteButton returns the delete button bound to id, or nil.
func (n *Node) DeleteButton(id int64) *Node {
	for _, b := range n.FindAll(TagButton) {
		if b.QuoteID == id {
			return b
		}
	}

	return nil
}

// Clone returns a deep copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	c := *n
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}

	return &c
}
