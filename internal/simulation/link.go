package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"forcemap/internal/domain"
)

// DefaultLinkDistance is the rest length used when none is configured
const DefaultLinkDistance = 30.0

// LinkForce pulls the endpoints of every link toward a rest distance.
// Links are resolved against the node set on each Initialize and never
// modified in place.
type LinkForce struct {
	// Distance is the rest length; zero means DefaultLinkDistance
	Distance float64
	// Strength overrides the per-link stiffness; zero means 1/min(degree)
	Strength float64
	// Iterations per tick; zero means 1
	Iterations int

	links     []domain.Link
	bound     []domain.BoundLink
	strengths []float64
	bias      []float64

	index map[domain.NodeID]*domain.Node
	rnd   *rand.Rand
}

// NewLinkForce creates a link force with default distance and strength
func NewLinkForce() *LinkForce {
	return &LinkForce{}
}

// Initialize rebinds the stored links against nodes
func (f *LinkForce) Initialize(nodes []*domain.Node, rnd *rand.Rand) {
	f.rnd = rnd
	f.index = make(map[domain.NodeID]*domain.Node, len(nodes))
	for _, n := range nodes {
		f.index[n.ID] = n
	}
	_ = f.bind()
}

// SetLinks replaces the links; dangling links are skipped and reported
func (f *LinkForce) SetLinks(links []domain.Link) error {
	f.links = make([]domain.Link, len(links))
	copy(f.links, links)
	return f.bind()
}

// Links returns the resolved links currently acting
func (f *LinkForce) Links() []domain.BoundLink {
	return f.bound
}

func (f *LinkForce) lookup(id domain.NodeID) (*domain.Node, bool) {
	n, ok := f.index[id]
	return n, ok
}

func (f *LinkForce) bind() error {
	f.bound = f.bound[:0]
	var errs []error
	for _, l := range f.links {
		b, err := domain.Bind(l, f.lookup)
		if err != nil {
			errs = append(errs, fmt.Errorf("link %s: %w", l.Key(), err))
			continue
		}
		f.bound = append(f.bound, b)
	}

	degree := make(map[*domain.Node]int, len(f.index))
	for _, b := range f.bound {
		degree[b.Source.Node()]++
		degree[b.Target.Node()]++
	}

	f.strengths = make([]float64, len(f.bound))
	f.bias = make([]float64, len(f.bound))
	for i, b := range f.bound {
		ds, dt := float64(degree[b.Source.Node()]), float64(degree[b.Target.Node()])
		f.bias[i] = ds / (ds + dt)
		if f.Strength != 0 {
			f.strengths[i] = f.Strength
		} else {
			f.strengths[i] = 1 / math.Min(ds, dt)
		}
	}
	return errors.Join(errs...)
}

func (f *LinkForce) distance() float64 {
	if f.Distance > 0 {
		return f.Distance
	}
	return DefaultLinkDistance
}

// Apply moves each link's endpoints toward the rest distance
func (f *LinkForce) Apply(alpha float64) {
	iterations := f.Iterations
	if iterations < 1 {
		iterations = 1
	}
	dist := f.distance()

	for range iterations {
		for i, b := range f.bound {
			source, target := b.Source.Node(), b.Target.Node()

			x := target.X + target.VX - source.X - source.VX
			if x == 0 {
				x = jiggle(f.rnd)
			}
			y := target.Y + target.VY - source.Y - source.VY
			if y == 0 {
				y = jiggle(f.rnd)
			}

			l := math.Sqrt(x*x + y*y)
			l = (l - dist) / l * alpha * f.strengths[i]
			x *= l
			y *= l

			bias := f.bias[i]
			target.VX -= x * bias
			target.VY -= y * bias
			source.VX += x * (1 - bias)
			source.VY += y * (1 - bias)
		}
	}
}
