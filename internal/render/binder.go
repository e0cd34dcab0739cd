package render

import (
	"errors"
	"fmt"

	"forcemap/internal/domain"
)

// ErrNoElement is returned when dispatching to a node that has no element
var ErrNoElement = errors.New("no element for node")

// ReconcileResult counts the element changes made by one Reconcile
type ReconcileResult struct {
	NodesCreated int `json:"nodes_created"`
	NodesRemoved int `json:"nodes_removed"`
	LinksCreated int `json:"links_created"`
	LinksRemoved int `json:"links_removed"`
}

// Changed reports whether any element was created or removed
func (r ReconcileResult) Changed() bool {
	return r.NodesCreated+r.NodesRemoved+r.LinksCreated+r.LinksRemoved > 0
}

type nodeBinding struct {
	el   NodeElement
	node *domain.Node
}

type linkBinding struct {
	el     LinkElement
	source *domain.Node
	target *domain.Node
}

// Binder keeps a Surface in step with the store. Elements are keyed by node
// identifier and link key, never by position in a slice.
type Binder struct {
	surface  Surface
	viewport Viewport
	clamp    bool

	nodes     map[domain.NodeID]*nodeBinding
	nodeOrder []domain.NodeID
	links     map[string]*linkBinding
	linkOrder []string

	onCreate func(n *domain.Node) Handlers
}

// NewBinder creates a binder that clamps drawn positions to viewport
func NewBinder(surface Surface, viewport Viewport) *Binder {
	return &Binder{
		surface:  surface,
		viewport: viewport,
		clamp:    true,
		nodes:    make(map[domain.NodeID]*nodeBinding),
		links:    make(map[string]*linkBinding),
	}
}

// SetClamp enables or disables render-time boundary clamping
func (b *Binder) SetClamp(enabled bool) {
	b.clamp = enabled
}

// OnCreate registers the factory for handlers attached to new node elements.
// Handlers are bound exactly once, when the element is created.
func (b *Binder) OnCreate(fn func(n *domain.Node) Handlers) {
	b.onCreate = fn
}

// LinkKeys assigns stable keys to links: source->target#ordinal, where
// ordinal counts earlier links with the same endpoints
func LinkKeys(links []domain.Link) []string {
	seen := make(map[string]int, len(links))
	keys := make([]string, len(links))
	for i, l := range links {
		base := l.Key()
		keys[i] = fmt.Sprintf("%s#%d", base, seen[base])
		seen[base]++
	}
	return keys
}

// Reconcile creates elements for new nodes and links and removes elements
// whose data is gone. Existing elements are kept and rebound to the current
// records. Links with a missing endpoint are not drawn.
func (b *Binder) Reconcile(nodes []*domain.Node, links []domain.Link) ReconcileResult {
	var res ReconcileResult

	live := make(map[domain.NodeID]*domain.Node, len(nodes))
	order := make([]domain.NodeID, 0, len(nodes))
	for _, n := range nodes {
		if _, dup := live[n.ID]; dup {
			continue
		}
		live[n.ID] = n
		order = append(order, n.ID)
	}

	for _, id := range b.nodeOrder {
		if _, ok := live[id]; !ok {
			b.surface.RemoveNode(id)
			delete(b.nodes, id)
			res.NodesRemoved++
		}
	}
	for _, id := range order {
		n := live[id]
		if binding, ok := b.nodes[id]; ok {
			binding.node = n
			continue
		}
		el := b.surface.CreateNode(n)
		if in, ok := el.(Interactive); ok && b.onCreate != nil {
			in.Bind(b.onCreate(n))
		}
		b.nodes[id] = &nodeBinding{el: el, node: n}
		res.NodesCreated++
	}
	b.nodeOrder = order

	keys := LinkKeys(links)
	wanted := make(map[string]int, len(links))
	linkOrder := make([]string, 0, len(links))
	for i, l := range links {
		_, okS := live[l.Source]
		_, okT := live[l.Target]
		if !okS || !okT {
			continue
		}
		wanted[keys[i]] = i
		linkOrder = append(linkOrder, keys[i])
	}

	for _, key := range b.linkOrder {
		if _, ok := wanted[key]; !ok {
			b.surface.RemoveLink(key)
			delete(b.links, key)
			res.LinksRemoved++
		}
	}
	for _, key := range linkOrder {
		l := links[wanted[key]]
		binding, ok := b.links[key]
		if !ok {
			binding = &linkBinding{el: b.surface.CreateLink(key, l)}
			b.links[key] = binding
			res.LinksCreated++
		}
		binding.source = live[l.Source]
		binding.target = live[l.Target]
	}
	b.linkOrder = linkOrder

	return res
}

// Drawn returns the on-screen centre of n: its position clamped to the
// current viewport. The stored position is never modified.
func (b *Binder) Drawn(n *domain.Node) (x, y float64) {
	if !b.clamp || b.viewport == nil {
		return n.X, n.Y
	}
	w, h := b.viewport.Size()
	return Clamp(n.X, n.Size, w), Clamp(n.Y, n.Size, h)
}

// Paint moves every element to its drawn position
func (b *Binder) Paint() {
	for _, id := range b.nodeOrder {
		binding := b.nodes[id]
		if !binding.node.Placed() {
			continue
		}
		binding.el.SetTransform(b.Drawn(binding.node))
	}
	for _, key := range b.linkOrder {
		binding := b.links[key]
		x1, y1 := b.Drawn(binding.source)
		x2, y2 := b.Drawn(binding.target)
		binding.el.SetEndpoints(x1, y1, x2, y2)
	}
}

// Element returns the element bound to id
func (b *Binder) Element(id domain.NodeID) (NodeElement, bool) {
	binding, ok := b.nodes[id]
	if !ok {
		return nil, false
	}
	return binding.el, true
}

// NodeCount returns the number of node elements
func (b *Binder) NodeCount() int {
	return len(b.nodes)
}

// LinkCount returns the number of link elements
func (b *Binder) LinkCount() int {
	return len(b.links)
}

// Dispatch delivers an input event to the handlers bound on id's element.
// The event carries the node record the element is currently bound to.
// Kinds without a bound handler are ignored.
func (b *Binder) Dispatch(id domain.NodeID, kind EventKind, ev Event) error {
	binding, ok := b.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoElement, id)
	}
	in, ok := binding.el.(Interactive)
	if !ok {
		return nil
	}
	ev.Node = binding.node
	if fn := in.Handlers().get(kind); fn != nil {
		fn(ev)
	}
	return nil
}
