package render

import "forcemap/internal/domain"

// Prompt asks the user for text; ok is false when the user cancelled
type Prompt func(message, initial string) (answer string, ok bool)

// Event is delivered to element handlers
type Event struct {
	Node *domain.Node
	X, Y float64 // pointer position in canvas coordinates
	// Prompt supplies user text input for handlers that need it
	Prompt Prompt
	// Reply receives the outcome of handlers that mutate the graph
	Reply func(created domain.NodeID, err error)
}

// Handlers is the set of input callbacks attached to a node element
type Handlers struct {
	DragStart func(Event)
	Drag      func(Event)
	DragEnd   func(Event)
	Click     func(Event)
	MouseOver func(Event)
	MouseOut  func(Event)
}

// NodeElement is the visual for one node: a circle plus a hover label
type NodeElement interface {
	SetTransform(x, y float64)
	SetLabelVisible(visible bool)
	LabelVisible() bool
}

// LinkElement is the visual for one link
type LinkElement interface {
	SetEndpoints(x1, y1, x2, y2 float64)
}

// Interactive elements hold input handlers bound at creation
type Interactive interface {
	Bind(h Handlers)
	Handlers() Handlers
}

// EventKind names a pointer interaction
type EventKind string

const (
	EventDragStart EventKind = "dragstart"
	EventDrag      EventKind = "drag"
	EventDragEnd   EventKind = "dragend"
	EventClick     EventKind = "click"
	EventMouseOver EventKind = "mouseover"
	EventMouseOut  EventKind = "mouseout"
)

// ParseEventKind validates a kind received from a client
func ParseEventKind(s string) (EventKind, bool) {
	switch k := EventKind(s); k {
	case EventDragStart, EventDrag, EventDragEnd, EventClick, EventMouseOver, EventMouseOut:
		return k, true
	}
	return "", false
}

func (h Handlers) get(kind EventKind) func(Event) {
	switch kind {
	case EventDragStart:
		return h.DragStart
	case EventDrag:
		return h.Drag
	case EventDragEnd:
		return h.DragEnd
	case EventClick:
		return h.Click
	case EventMouseOver:
		return h.MouseOver
	case EventMouseOut:
		return h.MouseOut
	}
	return nil
}

// Surface creates and removes visual elements
type Surface interface {
	CreateNode(n *domain.Node) NodeElement
	RemoveNode(id domain.NodeID)
	CreateLink(key string, l domain.Link) LinkElement
	RemoveLink(key string)
	SetBackground(color string)
}
