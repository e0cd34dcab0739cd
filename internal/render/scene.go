package render

import (
	"forcemap/internal/domain"
)

// DefaultBackground is the canvas colour applied at startup
const DefaultBackground = "lightgrey"

// Label offset from the node centre
const (
	LabelDX = 15.0
	LabelDY = -15.0
)

// SceneNode is an in-memory node element: a circle and a hover label
type SceneNode struct {
	ID    domain.NodeID
	Size  float64
	Color string
	Text  string
	X, Y  float64

	labelVisible bool
	handlers     Handlers
	binds        int
}

func (n *SceneNode) SetTransform(x, y float64) {
	n.X, n.Y = x, y
}

func (n *SceneNode) SetLabelVisible(visible bool) {
	n.labelVisible = visible
}

func (n *SceneNode) LabelVisible() bool {
	return n.labelVisible
}

func (n *SceneNode) Bind(h Handlers) {
	n.handlers = h
	n.binds++
}

func (n *SceneNode) Handlers() Handlers {
	return n.handlers
}

// Binds returns how many times handlers were attached
func (n *SceneNode) Binds() int {
	return n.binds
}

// SceneLink is an in-memory line element
type SceneLink struct {
	Key            string
	Source, Target domain.NodeID
	X1, Y1, X2, Y2 float64
}

func (l *SceneLink) SetEndpoints(x1, y1, x2, y2 float64) {
	l.X1, l.Y1, l.X2, l.Y2 = x1, y1, x2, y2
}

// Scene is a Surface held in memory. It can be snapshotted as a Frame or
// drawn as SVG.
type Scene struct {
	viewport   Viewport
	background string

	nodes     map[domain.NodeID]*SceneNode
	nodeOrder []domain.NodeID
	links     map[string]*SceneLink
	linkOrder []string
}

// NewScene creates an empty scene sized by viewport
func NewScene(viewport Viewport) *Scene {
	return &Scene{
		viewport:   viewport,
		background: DefaultBackground,
		nodes:      make(map[domain.NodeID]*SceneNode),
		links:      make(map[string]*SceneLink),
	}
}

func (s *Scene) CreateNode(n *domain.Node) NodeElement {
	el := &SceneNode{
		ID:    n.ID,
		Size:  n.Size,
		Color: n.Color,
		Text:  n.Text,
		X:     n.X,
		Y:     n.Y,
	}
	s.nodes[n.ID] = el
	s.nodeOrder = append(s.nodeOrder, n.ID)
	return el
}

func (s *Scene) RemoveNode(id domain.NodeID) {
	if _, ok := s.nodes[id]; !ok {
		return
	}
	delete(s.nodes, id)
	for i, other := range s.nodeOrder {
		if other == id {
			s.nodeOrder = append(s.nodeOrder[:i], s.nodeOrder[i+1:]...)
			break
		}
	}
}

func (s *Scene) CreateLink(key string, l domain.Link) LinkElement {
	el := &SceneLink{Key: key, Source: l.Source, Target: l.Target}
	s.links[key] = el
	s.linkOrder = append(s.linkOrder, key)
	return el
}

func (s *Scene) RemoveLink(key string) {
	if _, ok := s.links[key]; !ok {
		return
	}
	delete(s.links, key)
	for i, other := range s.linkOrder {
		if other == key {
			s.linkOrder = append(s.linkOrder[:i], s.linkOrder[i+1:]...)
			break
		}
	}
}

func (s *Scene) SetBackground(color string) {
	s.background = color
}

// Background returns the canvas colour
func (s *Scene) Background() string {
	return s.background
}

// Node returns the element for id
func (s *Scene) Node(id domain.NodeID) (*SceneNode, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Link returns the element for key
func (s *Scene) Link(key string) (*SceneLink, bool) {
	l, ok := s.links[key]
	return l, ok
}

// Len returns the number of node and link elements
func (s *Scene) Len() (nodes, links int) {
	return len(s.nodes), len(s.links)
}

// Frame captures the drawn state of every element
func (s *Scene) Frame() Frame {
	f := Frame{
		Background: s.background,
		Nodes:      make([]FrameNode, 0, len(s.nodeOrder)),
		Links:      make([]FrameLink, 0, len(s.linkOrder)),
	}
	if s.viewport != nil {
		f.Width, f.Height = s.viewport.Size()
	}
	for _, id := range s.nodeOrder {
		n := s.nodes[id]
		f.Nodes = append(f.Nodes, FrameNode{
			ID:           n.ID,
			X:            n.X,
			Y:            n.Y,
			Size:         n.Size,
			Color:        n.Color,
			Text:         n.Text,
			LabelVisible: n.labelVisible,
		})
	}
	for _, key := range s.linkOrder {
		l := s.links[key]
		f.Links = append(f.Links, FrameLink{
			Key:    l.Key,
			Source: l.Source,
			Target: l.Target,
			X1:     l.X1,
			Y1:     l.Y1,
			X2:     l.X2,
			Y2:     l.Y2,
		})
	}
	return f
}
