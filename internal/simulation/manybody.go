package simulation

import (
	"math"
	"math/rand/v2"

	"forcemap/internal/domain"
)

// DefaultChargeStrength is the per-node charge when none is configured
const DefaultChargeStrength = -30.0

// ManyBody applies a charge between every pair of nodes, approximated with a
// Barnes–Hut quadtree. Negative strength repels.
type ManyBody struct {
	Strength    float64 // zero means DefaultChargeStrength
	Theta       float64 // approximation criterion; zero means 0.9
	DistanceMin float64 // zero means 1
	DistanceMax float64 // zero means unbounded

	nodes []*domain.Node
	rnd   *rand.Rand

	theta2       float64
	distanceMin2 float64
	distanceMax2 float64
	xs, ys       []float64
	tree         *quadtree
}

// NewManyBody creates a charge force with the given per-node strength
func NewManyBody(strength float64) *ManyBody {
	return &ManyBody{Strength: strength}
}

func (f *ManyBody) Initialize(nodes []*domain.Node, rnd *rand.Rand) {
	f.nodes = nodes
	f.rnd = rnd
}

func (f *ManyBody) strength() float64 {
	if f.Strength == 0 {
		return DefaultChargeStrength
	}
	return f.Strength
}

func (f *ManyBody) prepare() {
	theta := f.Theta
	if theta <= 0 {
		theta = 0.9
	}
	f.theta2 = theta * theta

	dmin := f.DistanceMin
	if dmin <= 0 {
		dmin = 1
	}
	f.distanceMin2 = dmin * dmin

	f.distanceMax2 = math.Inf(1)
	if f.DistanceMax > 0 {
		f.distanceMax2 = f.DistanceMax * f.DistanceMax
	}

	f.xs = f.xs[:0]
	f.ys = f.ys[:0]
	for _, n := range f.nodes {
		f.xs = append(f.xs, n.X)
		f.ys = append(f.ys, n.Y)
	}
	s := f.strength()
	f.tree = newQuadtree(f.xs, f.ys)
	f.tree.accumulate(func(int) float64 { return s })
}

// Apply adds the aggregated charge to every node's velocity
func (f *ManyBody) Apply(alpha float64) {
	if len(f.nodes) < 2 {
		return
	}
	f.prepare()
	for i := range f.nodes {
		f.visit(f.tree.root, i, alpha)
	}
}

func (f *ManyBody) visit(q *quad, i int, alpha float64) {
	if q == nil || q.count == 0 || q.strength == 0 {
		return
	}
	px, py := f.xs[i], f.ys[i]

	if q.internal {
		x, y := q.cx-px, q.cy-py
		w := q.x1 - q.x0
		l := x*x + y*y
		if !q.contains(px, py) && w*w/f.theta2 < l {
			if l < f.distanceMax2 {
				f.push(i, x, y, l, q.strength, alpha)
			}
			return
		}
		for _, c := range q.children {
			f.visit(c, i, alpha)
		}
		return
	}

	s := f.strength()
	for _, p := range q.points {
		if p == i {
			continue
		}
		x, y := f.xs[p]-px, f.ys[p]-py
		l := x*x + y*y
		if l >= f.distanceMax2 {
			continue
		}
		f.push(i, x, y, l, s, alpha)
	}
}

func (f *ManyBody) push(i int, x, y, l, strength, alpha float64) {
	if x == 0 {
		x = jiggle(f.rnd)
		l += x * x
	}
	if y == 0 {
		y = jiggle(f.rnd)
		l += y * y
	}
	if l < f.distanceMin2 {
		l = math.Sqrt(f.distanceMin2 * l)
	}
	n := f.nodes[i]
	n.VX += x * strength * alpha / l
	n.VY += y * strength * alpha / l
}

// Exact computes the unapproximated pairwise charge velocity deltas at
// alpha without applying them. It is used to check the approximation.
func (f *ManyBody) Exact(alpha float64) (dvx, dvy []float64) {
	f.prepare()
	s := f.strength()
	dvx = make([]float64, len(f.nodes))
	dvy = make([]float64, len(f.nodes))
	for i := range f.nodes {
		for j := range f.nodes {
			if i == j {
				continue
			}
			x, y := f.xs[j]-f.xs[i], f.ys[j]-f.ys[i]
			l := x*x + y*y
			if l == 0 || l >= f.distanceMax2 {
				continue
			}
			if l < f.distanceMin2 {
				l = math.Sqrt(f.distanceMin2 * l)
			}
			dvx[i] += x * s * alpha / l
			dvy[i] += y * s * alpha / l
		}
	}
	return dvx, dvy
}
