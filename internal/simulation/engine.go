package simulation

import (
	"errors"
	"math"
	"math/rand/v2"

	"forcemap/internal/domain"
)

const (
	initialRadius = 10.0
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Options configures the integrator
type Options struct {
	AlphaMin      float64 // stop threshold
	AlphaDecay    float64 // per-step fraction of the distance to AlphaTarget
	AlphaTarget   float64 // resting temperature
	VelocityDecay float64 // fraction of velocity lost per step
	Seed          uint64  // seed for the jiggle random source
}

// DefaultOptions returns the standard schedule: about 300 steps from alpha 1 to rest
func DefaultOptions() Options {
	alphaMin := 0.001
	return Options{
		AlphaMin:      alphaMin,
		AlphaDecay:    1 - math.Pow(alphaMin, 1.0/300),
		AlphaTarget:   0,
		VelocityDecay: 0.4,
		Seed:          1,
	}
}

type namedForce struct {
	name  string
	force Force
}

// Engine is a damped iterative force solver over a set of nodes.
// It is not safe for concurrent use.
type Engine struct {
	nodes []*domain.Node
	index map[domain.NodeID]*domain.Node

	forces []namedForce

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	rnd     *rand.Rand
	running bool
	steps   int

	onTick []func()
	onEnd  []func()
}

// New creates a running engine with no nodes and no forces
func New(opts Options) *Engine {
	def := DefaultOptions()
	if opts.AlphaMin <= 0 {
		opts.AlphaMin = def.AlphaMin
	}
	if opts.AlphaDecay <= 0 {
		opts.AlphaDecay = def.AlphaDecay
	}
	if opts.VelocityDecay <= 0 {
		opts.VelocityDecay = def.VelocityDecay
	}
	return &Engine{
		index:         make(map[domain.NodeID]*domain.Node),
		alpha:         1,
		alphaMin:      opts.AlphaMin,
		alphaDecay:    opts.AlphaDecay,
		alphaTarget:   opts.AlphaTarget,
		velocityDecay: 1 - opts.VelocityDecay,
		rnd:           rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		running:       true,
	}
}

// SetNodes replaces the simulated node set. Unplaced nodes get positions on
// a phyllotaxis spiral; every force is reinitialised.
func (e *Engine) SetNodes(nodes []*domain.Node) {
	e.nodes = make([]*domain.Node, len(nodes))
	copy(e.nodes, nodes)
	e.index = make(map[domain.NodeID]*domain.Node, len(nodes))

	for i, n := range e.nodes {
		e.index[n.ID] = n
		if n.FX != nil {
			n.X = *n.FX
		}
		if n.FY != nil {
			n.Y = *n.FY
		}
		if !n.Placed() {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			n.X = radius * math.Cos(angle)
			n.Y = radius * math.Sin(angle)
		}
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) {
			n.VX, n.VY = 0, 0
		}
	}

	for _, f := range e.forces {
		f.force.Initialize(e.nodes, e.rnd)
	}
}

// Nodes returns the simulated nodes
func (e *Engine) Nodes() []*domain.Node {
	return e.nodes
}

// Lookup resolves an identifier among the simulated nodes
func (e *Engine) Lookup(id domain.NodeID) (*domain.Node, bool) {
	n, ok := e.index[id]
	return n, ok
}

// SetLinks hands links to every link-aware force. Links with an endpoint
// outside the node set are skipped and reported in the returned error.
func (e *Engine) SetLinks(links []domain.Link) error {
	var errs []error
	for _, f := range e.forces {
		if ls, ok := f.force.(LinkSetter); ok {
			if err := ls.SetLinks(links); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// AddForce registers f under name, replacing any force with that name.
// Forces apply in registration order.
func (e *Engine) AddForce(name string, f Force) {
	f.Initialize(e.nodes, e.rnd)
	for i := range e.forces {
		if e.forces[i].name == name {
			e.forces[i].force = f
			return
		}
	}
	e.forces = append(e.forces, namedForce{name: name, force: f})
}

// Force returns the force registered under name
func (e *Engine) Force(name string) (Force, bool) {
	for _, f := range e.forces {
		if f.name == name {
			return f.force, true
		}
	}
	return nil, false
}

// RemoveForce unregisters the force named name
func (e *Engine) RemoveForce(name string) {
	for i := range e.forces {
		if e.forces[i].name == name {
			e.forces = append(e.forces[:i], e.forces[i+1:]...)
			return
		}
	}
}

// Alpha returns the current temperature
func (e *Engine) Alpha() float64 {
	return e.alpha
}

// SetAlpha sets the temperature, clamped to [0, 1]
func (e *Engine) SetAlpha(alpha float64) {
	e.alpha = math.Max(0, math.Min(1, alpha))
}

// AlphaMin returns the stop threshold
func (e *Engine) AlphaMin() float64 {
	return e.alphaMin
}

// AlphaTarget returns the temperature alpha decays toward
func (e *Engine) AlphaTarget() float64 {
	return e.alphaTarget
}

// SetAlphaTarget sets the temperature alpha decays toward
func (e *Engine) SetAlphaTarget(target float64) {
	e.alphaTarget = math.Max(0, math.Min(1, target))
}

// Restart resumes stepping
func (e *Engine) Restart() {
	e.running = true
}

// Stop halts stepping until Restart
func (e *Engine) Stop() {
	e.running = false
}

// Active reports whether Step will advance the simulation
func (e *Engine) Active() bool {
	return e.running
}

// Steps returns how many timer steps have run
func (e *Engine) Steps() int {
	return e.steps
}

// OnTick registers a callback invoked synchronously after every Step
func (e *Engine) OnTick(fn func()) {
	e.onTick = append(e.onTick, fn)
}

// OnEnd registers a callback invoked when the engine comes to rest
func (e *Engine) OnEnd(fn func()) {
	e.onEnd = append(e.onEnd, fn)
}

// Tick advances the integration n times without invoking callbacks
func (e *Engine) Tick(n int) {
	for range n {
		e.alpha += (e.alphaTarget - e.alpha) * e.alphaDecay

		for _, f := range e.forces {
			f.force.Apply(e.alpha)
		}

		for _, node := range e.nodes {
			if node.FX == nil {
				node.VX *= e.velocityDecay
				node.X += node.VX
			} else {
				node.X = *node.FX
				node.VX = 0
			}
			if node.FY == nil {
				node.VY *= e.velocityDecay
				node.Y += node.VY
			} else {
				node.Y = *node.FY
				node.VY = 0
			}
		}
	}
}

// Step runs one timer step: a single tick, the tick callbacks, and the end
// callbacks once alpha falls below AlphaMin. It returns whether the engine
// is still running.
func (e *Engine) Step() bool {
	if !e.running {
		return false
	}

	e.Tick(1)
	e.steps++
	for _, fn := range e.onTick {
		fn()
	}

	if e.alpha < e.alphaMin {
		e.running = false
		for _, fn := range e.onEnd {
			fn()
		}
	}
	return e.running
}

// Find returns the node closest to (x, y) within radius; radius <= 0 means unbounded
func (e *Engine) Find(x, y, radius float64) (*domain.Node, bool) {
	best := math.Inf(1)
	if radius > 0 {
		best = radius * radius
	}

	var found *domain.Node
	for _, n := range e.nodes {
		dx, dy := x-n.X, y-n.Y
		if d2 := dx*dx + dy*dy; d2 < best {
			best = d2
			found = n
		}
	}
	return found, found != nil
}
