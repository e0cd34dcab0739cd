package simulation

import (
	"math/rand/v2"

	"forcemap/internal/domain"
)

// Force contributes velocity (or position) changes on every tick
type Force interface {
	// Initialize binds the force to the current node set
	Initialize(nodes []*domain.Node, rnd *rand.Rand)
	// Apply runs the force once at temperature alpha
	Apply(alpha float64)
}

// LinkSetter is implemented by forces that act along links
type LinkSetter interface {
	SetLinks(links []domain.Link) error
}

// jiggle returns a tiny random offset used to separate coincident points
func jiggle(rnd *rand.Rand) float64 {
	return (rnd.Float64() - 0.5) * 1e-6
}
