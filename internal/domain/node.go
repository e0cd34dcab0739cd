package domain

import "math"

// Visual defaults for the kinds of node the editor creates
const (
	RootSize  = 30.0
	RootColor = "blue"

	ChildSize  = 20.0
	ChildColor = "black"

	ImportantSize  = 30.0
	ImportantColor = "red"
)

// Node is one graph entity: identity, fixed visual attributes and the
// position/velocity state owned by the simulation.
type Node struct {
	ID    NodeID  `json:"id"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx,omitempty"`
	VY    float64 `json:"vy,omitempty"`

	// FX and FY override the simulated position while non-nil (drag pin)
	FX *float64 `json:"-"`
	FY *float64 `json:"-"`
}

// NewNode creates an unplaced node; the simulation assigns its first position
func NewNode(id NodeID, size float64, color, text string) *Node {
	return &Node{
		ID:    id,
		Size:  size,
		Color: color,
		Text:  text,
		X:     math.NaN(),
		Y:     math.NaN(),
	}
}

// Placed reports whether the node has a position
func (n *Node) Placed() bool {
	return !math.IsNaN(n.X) && !math.IsNaN(n.Y)
}

// Pin fixes the node at (x, y) until Unpin
func (n *Node) Pin(x, y float64) {
	n.FX = &x
	n.FY = &y
}

// Unpin releases the fixed position
func (n *Node) Unpin() {
	n.FX = nil
	n.FY = nil
}

// Pinned reports whether the node has a fixed position
func (n *Node) Pinned() bool {
	return n.FX != nil || n.FY != nil
}

// Record returns a detached copy without the drag pin, as stored in snapshots
func (n *Node) Record() Node {
	rec := *n
	rec.FX = nil
	rec.FY = nil
	return rec
}
