package simulation

import (
	"math/rand/v2"

	"forcemap/internal/domain"
)

// Center translates all nodes so their mean position moves toward (X, Y).
// It adjusts positions directly and ignores alpha.
type Center struct {
	X, Y     float64
	Strength float64 // zero means 1

	nodes []*domain.Node
}

// NewCenter creates a centring force toward (x, y)
func NewCenter(x, y float64) *Center {
	return &Center{X: x, Y: y, Strength: 1}
}

func (f *Center) Initialize(nodes []*domain.Node, _ *rand.Rand) {
	f.nodes = nodes
}

func (f *Center) Apply(float64) {
	if len(f.nodes) == 0 {
		return
	}
	strength := f.Strength
	if strength == 0 {
		strength = 1
	}

	var sx, sy float64
	for _, n := range f.nodes {
		sx += n.X
		sy += n.Y
	}
	count := float64(len(f.nodes))
	sx = (sx/count - f.X) * strength
	sy = (sy/count - f.Y) * strength

	for _, n := range f.nodes {
		n.X -= sx
		n.Y -= sy
	}
}
