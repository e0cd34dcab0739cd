package simulation

import (
	"math"
	"math/rand/v2"

	"forcemap/internal/domain"
)

// Collide keeps nodes from overlapping by treating each as a circle of
// Radius(node) and separating predicted positions.
type Collide struct {
	Strength   float64 // zero means 1
	Iterations int     // zero means 1
	Padding    float64
	// Radius returns the collision radius; nil means the node's Size
	Radius func(n *domain.Node) float64

	nodes []*domain.Node
	radii []float64
	rnd   *rand.Rand
}

// NewCollide creates a collision force sized by node Size plus padding
func NewCollide(padding float64) *Collide {
	return &Collide{Padding: padding}
}

func (f *Collide) Initialize(nodes []*domain.Node, rnd *rand.Rand) {
	f.nodes = nodes
	f.rnd = rnd
	f.radii = make([]float64, len(nodes))
	for i, n := range nodes {
		r := n.Size
		if f.Radius != nil {
			r = f.Radius(n)
		}
		f.radii[i] = r + f.Padding
	}
}

func (f *Collide) Apply(float64) {
	if len(f.nodes) < 2 {
		return
	}
	strength := f.Strength
	if strength == 0 {
		strength = 1
	}
	iterations := f.Iterations
	if iterations < 1 {
		iterations = 1
	}

	maxR := 0.0
	for _, r := range f.radii {
		maxR = math.Max(maxR, r)
	}

	xs := make([]float64, len(f.nodes))
	ys := make([]float64, len(f.nodes))
	for range iterations {
		for i, n := range f.nodes {
			xs[i] = n.X + n.VX
			ys[i] = n.Y + n.VY
		}
		tree := newQuadtree(xs, ys)

		for i, ni := range f.nodes {
			ri := f.radii[i]
			xi, yi := xs[i], ys[i]
			reach := ri + maxR
			tree.search(xi-reach, yi-reach, xi+reach, yi+reach, func(j int) {
				if j <= i {
					return
				}
				nj := f.nodes[j]
				rj := f.radii[j]
				r := ri + rj
				x := xi - nj.X - nj.VX
				y := yi - nj.Y - nj.VY
				l := x*x + y*y
				if l >= r*r {
					return
				}
				if x == 0 {
					x = jiggle(f.rnd)
					l += x * x
				}
				if y == 0 {
					y = jiggle(f.rnd)
					l += y * y
				}
				l = math.Sqrt(l)
				l = (r - l) / l * strength
				x *= l
				y *= l
				rr := rj * rj / (ri*ri + rj*rj)
				ni.VX += x * rr
				ni.VY += y * rr
				nj.VX -= x * (1 - rr)
				nj.VY -= y * (1 - rr)
			})
		}
	}
}
