package simulation

import (
	"math/rand/v2"

	"forcemap/internal/domain"
)

// DefaultAnchorStrength is the gentle pull applied to the anchored node
const DefaultAnchorStrength = 0.0001

// Anchor pulls a single node toward a fixed point. A missing node makes it a
// no-op.
type Anchor struct {
	ID       domain.NodeID
	X, Y     float64
	Strength float64

	node *domain.Node
}

// NewAnchor creates an anchor for id at (x, y) with the default strength
func NewAnchor(id domain.NodeID, x, y float64) *Anchor {
	return &Anchor{ID: id, X: x, Y: y, Strength: DefaultAnchorStrength}
}

func (f *Anchor) Initialize(nodes []*domain.Node, _ *rand.Rand) {
	f.node = nil
	for _, n := range nodes {
		if n.ID == f.ID {
			f.node = n
			return
		}
	}
}

func (f *Anchor) Apply(alpha float64) {
	if f.node == nil {
		return
	}
	f.node.VX -= (f.node.X - f.X) * f.Strength * alpha
	f.node.VY -= (f.node.Y - f.Y) * f.Strength * alpha
}
