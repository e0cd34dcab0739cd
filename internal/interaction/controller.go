package interaction

import (
	"fmt"
	"log"

	"forcemap/internal/domain"
	"forcemap/internal/render"
)

// DefaultDragAlphaTarget keeps the layout warm while a node is dragged
const DefaultDragAlphaTarget = 0.3

// Graph is the slice of the store the handlers mutate
type Graph interface {
	AddNode(rec domain.Node) (domain.NodeID, error)
	AddLink(source, target domain.NodeID) error
	Node(id domain.NodeID) (*domain.Node, bool)
}

// Engine is the slice of the simulation the drag lifecycle drives
type Engine interface {
	SetAlphaTarget(target float64)
	Restart()
}

// Elements resolves a node to its visual element
type Elements interface {
	Element(id domain.NodeID) (render.NodeElement, bool)
}

// Options tunes interaction behaviour
type Options struct {
	DragAlphaTarget float64       // zero means DefaultDragAlphaTarget
	SpawnOffset     float64       // child placement offset from its parent
	HubID           domain.NodeID // node important tasks link to
}

// Controller implements the pointer and prompt interactions
type Controller struct {
	graph    Graph
	engine   Engine
	elements Elements
	commit   func() error
	opts     Options

	dragging map[domain.NodeID]bool
}

// New creates a controller. commit runs after every structural mutation and
// must reseed the engine and reconcile the surface.
func New(graph Graph, engine Engine, elements Elements, commit func() error, opts Options) *Controller {
	if opts.DragAlphaTarget <= 0 {
		opts.DragAlphaTarget = DefaultDragAlphaTarget
	}
	return &Controller{
		graph:    graph,
		engine:   engine,
		elements: elements,
		commit:   commit,
		opts:     opts,
		dragging: make(map[domain.NodeID]bool),
	}
}

// SetOptions replaces the options; active drags are unaffected
func (c *Controller) SetOptions(opts Options) {
	if opts.DragAlphaTarget <= 0 {
		opts.DragAlphaTarget = DefaultDragAlphaTarget
	}
	c.opts = opts
}

// Handlers builds the input handlers attached to a newly created element
func (c *Controller) Handlers(*domain.Node) render.Handlers {
	return render.Handlers{
		DragStart: c.DragStart,
		Drag:      c.DragMove,
		DragEnd:   c.DragEnd,
		Click: func(ev render.Event) {
			id, err := c.SpawnChild(ev)
			if ev.Reply != nil {
				ev.Reply(id, err)
			}
		},
		MouseOver: func(ev render.Event) { c.Hover(ev.Node, true) },
		MouseOut:  func(ev render.Event) { c.Hover(ev.Node, false) },
	}
}

// ActiveDrags returns the number of drags in progress
func (c *Controller) ActiveDrags() int {
	return len(c.dragging)
}

// Reset forgets every drag in progress. Used when the graph is replaced.
func (c *Controller) Reset() {
	if len(c.dragging) > 0 {
		c.engine.SetAlphaTarget(0)
	}
	c.dragging = make(map[domain.NodeID]bool)
}

// DragStart pins the node to the pointer. The first concurrent drag reheats
// the layout.
func (c *Controller) DragStart(ev render.Event) {
	n := ev.Node
	if n == nil {
		return
	}
	if !c.dragging[n.ID] {
		if len(c.dragging) == 0 {
			c.engine.SetAlphaTarget(c.opts.DragAlphaTarget)
			c.engine.Restart()
		}
		c.dragging[n.ID] = true
	}
	n.Pin(ev.X, ev.Y)
}

// DragMove moves the pin to the pointer
func (c *Controller) DragMove(ev render.Event) {
	n := ev.Node
	if n == nil || !c.dragging[n.ID] {
		return
	}
	n.Pin(ev.X, ev.Y)
}

// DragEnd releases the pin. When the last drag ends alpha is left to decay.
func (c *Controller) DragEnd(ev render.Event) {
	n := ev.Node
	if n == nil || !c.dragging[n.ID] {
		return
	}
	delete(c.dragging, n.ID)
	if len(c.dragging) == 0 {
		c.engine.SetAlphaTarget(0)
	}
	n.Unpin()
}

// SpawnChild asks for a label and adds a child linked from the clicked node
func (c *Controller) SpawnChild(ev render.Event) (domain.NodeID, error) {
	parent := ev.Node
	if parent == nil {
		return domain.NodeID{}, fmt.Errorf("spawn child: no node")
	}
	text, err := ask(ev.Prompt)
	if err != nil {
		return domain.NodeID{}, err
	}

	child := domain.NewNode(domain.NodeID{}, domain.ChildSize, domain.ChildColor, text)
	if parent.Placed() {
		child.X = parent.X + c.opts.SpawnOffset
		child.Y = parent.Y + c.opts.SpawnOffset
	}

	id, err := c.graph.AddNode(*child)
	if err != nil {
		return domain.NodeID{}, fmt.Errorf("spawn child: %w", err)
	}
	if err := c.graph.AddLink(parent.ID, id); err != nil {
		return id, fmt.Errorf("spawn child: %w", err)
	}
	return id, c.commit()
}

// AddImportant asks for a label and adds a large red node linked to the hub.
// Without a hub node the new node is left unlinked.
func (c *Controller) AddImportant(prompt render.Prompt) (domain.NodeID, error) {
	text, err := ask(prompt)
	if err != nil {
		return domain.NodeID{}, err
	}

	rec := domain.NewNode(domain.NodeID{}, domain.ImportantSize, domain.ImportantColor, text)
	hub, hasHub := c.graph.Node(c.opts.HubID)
	if hasHub && hub.Placed() {
		rec.X = hub.X + c.opts.SpawnOffset
		rec.Y = hub.Y + c.opts.SpawnOffset
	}

	id, err := c.graph.AddNode(*rec)
	if err != nil {
		return domain.NodeID{}, fmt.Errorf("add important: %w", err)
	}
	if hasHub {
		if err := c.graph.AddLink(id, hub.ID); err != nil {
			return id, fmt.Errorf("add important: %w", err)
		}
	} else {
		log.Printf("Hub node %s not found, important task %s left unlinked", c.opts.HubID, id)
	}
	return id, c.commit()
}

// Hover shows or hides a node's label
func (c *Controller) Hover(n *domain.Node, visible bool) {
	if n == nil || c.elements == nil {
		return
	}
	if el, ok := c.elements.Element(n.ID); ok {
		el.SetLabelVisible(visible)
	}
}
