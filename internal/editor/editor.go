package editor

import (
	"errors"
	"fmt"
	"io"
	"log"

	"forcemap/internal/codec"
	"forcemap/internal/domain"
	"forcemap/internal/interaction"
	"forcemap/internal/render"
	"forcemap/internal/simulation"
	"forcemap/internal/store"
)

// ErrFixedViewport is returned when resizing a fixed-size canvas
var ErrFixedViewport = errors.New("viewport is fixed")

// Force names registered on the engine
const (
	ForceLink    = "link"
	ForceCharge  = "charge"
	ForceCenter  = "center"
	ForceCollide = "collide"
	ForceAnchor  = "centerNode"
)

// Editor owns one graph, its simulation and its scene. Every structural
// mutation goes through Commit, which reseeds and reheats the engine and
// reconciles the scene in the same call. Editor is not safe for concurrent
// use; service.Session serialises access.
type Editor struct {
	store    *store.Store
	engine   *simulation.Engine
	scene    *render.Scene
	binder   *render.Binder
	ctrl     *interaction.Controller
	viewport render.Viewport
	restore  store.RestoreOptions
	forces   ForceOptions

	seq uint64
}

// New builds an empty editor
func New(opts Options) *Editor {
	if opts.Viewport == nil {
		opts.Viewport = render.FixedViewport{Width: DefaultWidth, Height: DefaultHeight}
	}

	e := &Editor{
		store:    store.New(opts.IDs),
		engine:   simulation.New(opts.Simulation),
		viewport: opts.Viewport,
		restore:  opts.Restore,
	}
	e.scene = render.NewScene(opts.Viewport)
	if opts.Background != "" {
		e.scene.SetBackground(opts.Background)
	}
	e.binder = render.NewBinder(e.scene, opts.Viewport)
	e.binder.SetClamp(opts.Clamp)

	e.ctrl = interaction.New(e.store, e.engine, e.binder, e.Commit, opts.Interaction)
	e.binder.OnCreate(e.ctrl.Handlers)
	e.engine.OnTick(e.binder.Paint)

	e.ApplyForces(opts.Forces)
	return e
}

// ApplyForces replaces the registered forces. Links and nodes carry over.
func (e *Editor) ApplyForces(f ForceOptions) {
	e.forces = f

	link := simulation.NewLinkForce()
	link.Distance = f.LinkDistance
	link.Iterations = f.LinkIterations
	e.engine.AddForce(ForceLink, link)
	if err := link.SetLinks(e.store.Links()); err != nil {
		log.Printf("Link force: %v", err)
	}

	charge := simulation.NewManyBody(f.ChargeStrength)
	charge.Theta = f.ChargeTheta
	charge.DistanceMin = f.ChargeDistanceMin
	charge.DistanceMax = f.ChargeDistanceMax
	e.engine.AddForce(ForceCharge, charge)

	if f.CenterEnabled {
		center := simulation.NewCenter(f.CenterX, f.CenterY)
		if f.CenterStrength > 0 {
			center.Strength = f.CenterStrength
		}
		e.engine.AddForce(ForceCenter, center)
	} else {
		e.engine.RemoveForce(ForceCenter)
	}

	if f.CollideEnabled {
		e.engine.AddForce(ForceCollide, simulation.NewCollide(f.CollidePadding))
	} else {
		e.engine.RemoveForce(ForceCollide)
	}

	if f.AnchorEnabled {
		anchor := simulation.NewAnchor(f.AnchorID, f.AnchorX, f.AnchorY)
		if f.AnchorStrength > 0 {
			anchor.Strength = f.AnchorStrength
		}
		e.engine.AddForce(ForceAnchor, anchor)
	} else {
		e.engine.RemoveForce(ForceAnchor)
	}
}

// Forces returns the force parameters in effect
func (e *Editor) Forces() ForceOptions {
	return e.forces
}

// SetInteraction replaces the interaction options
func (e *Editor) SetInteraction(opts interaction.Options) {
	e.ctrl.SetOptions(opts)
}

// SetRestoreOptions replaces the load policies
func (e *Editor) SetRestoreOptions(opts store.RestoreOptions) {
	e.restore = opts
}

// Seed loads the starter graph: two tasks around a main goal
func (e *Editor) Seed() error {
	seed := []*domain.Node{
		domain.NewNode(domain.IntID(1), domain.ChildSize, domain.ChildColor, "Example Task"),
		domain.NewNode(domain.IntID(2), domain.RootSize, domain.RootColor, "Example Main Goal"),
		domain.NewNode(domain.IntID(3), domain.ChildSize, domain.ChildColor, "Example Task"),
	}
	for _, n := range seed {
		if _, err := e.store.AddNode(*n); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	for _, l := range [][2]int64{{1, 2}, {2, 3}} {
		if err := e.store.AddLink(domain.IntID(l[0]), domain.IntID(l[1])); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return e.Commit()
}

// Commit hands the current store to the engine, reheats it and reconciles
// the scene. It must follow every structural mutation.
func (e *Editor) Commit() error {
	e.engine.SetNodes(e.store.Nodes())
	if err := e.engine.SetLinks(e.store.Links()); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	e.binder.Reconcile(e.store.Nodes(), e.store.Links())
	e.engine.SetAlpha(1)
	e.engine.Restart()
	e.binder.Paint()
	return nil
}

// Step advances the simulation one timer step and repaints
func (e *Editor) Step() bool {
	return e.engine.Step()
}

// Active reports whether the simulation is still moving
func (e *Editor) Active() bool {
	return e.engine.Active()
}

// Settle steps until the simulation rests or maxSteps is reached and
// returns the number of steps taken
func (e *Editor) Settle(maxSteps int) int {
	steps := 0
	for steps < maxSteps && e.engine.Active() {
		e.engine.Step()
		steps++
	}
	return steps
}

// Frame captures the scene with the simulation state
func (e *Editor) Frame() render.Frame {
	e.seq++
	f := e.scene.Frame()
	f.Seq = e.seq
	f.Alpha = e.engine.Alpha()
	f.Active = e.engine.Active()
	return f
}

// WriteSVG draws the current scene
func (e *Editor) WriteSVG(w io.Writer) error {
	return e.scene.WriteSVG(w)
}

// Snapshot returns the graph in serialisable form
func (e *Editor) Snapshot() domain.Snapshot {
	return e.store.Snapshot()
}

// Export writes the graph with the given codec
func (e *Editor) Export(w io.Writer, c codec.Exporter) error {
	if err := c.Export(e.store.Snapshot(), w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// Import parses a document and replaces the graph with it
func (e *Editor) Import(r io.Reader, c codec.Importer) (store.RestoreReport, error) {
	snap, err := c.Parse(r)
	if err != nil {
		return store.RestoreReport{}, fmt.Errorf("import: %w", err)
	}
	return e.Load(snap)
}

// Load replaces the graph with snap under the configured policies. With the
// abort policy a bad snapshot leaves the graph unchanged.
func (e *Editor) Load(snap domain.Snapshot) (store.RestoreReport, error) {
	report, err := e.store.Restore(snap, e.restore)
	if err != nil {
		return report, fmt.Errorf("load: %w", err)
	}
	e.ctrl.Reset()
	if err := e.Commit(); err != nil {
		return report, err
	}
	return report, nil
}

func (e *Editor) requireNode(id domain.NodeID) error {
	if _, ok := e.store.Node(id); !ok {
		return fmt.Errorf("%w: %s", store.ErrUnknownNode, id)
	}
	return nil
}

// ResolveID reads text the way a URL path segment is read. Integer text
// names the numeric node; when only a string node of that name exists it
// names the string node instead.
func (e *Editor) ResolveID(text string) domain.NodeID {
	id := domain.ParseID(text)
	if _, ok := e.store.Node(id); ok || !id.IsNumeric() {
		return id
	}
	if alt := domain.StringID(text); e.requireNode(alt) == nil {
		return alt
	}
	return id
}

// Click spawns a child of id labelled by the prompt answer
func (e *Editor) Click(id domain.NodeID, prompt render.Prompt) (domain.NodeID, error) {
	if err := e.requireNode(id); err != nil {
		return domain.NodeID{}, err
	}
	var created domain.NodeID
	var result error
	ev := render.Event{
		Prompt: prompt,
		Reply:  func(c domain.NodeID, err error) { created, result = c, err },
	}
	if err := e.binder.Dispatch(id, render.EventClick, ev); err != nil {
		return domain.NodeID{}, err
	}
	return created, result
}

// AddImportant adds a task linked to the hub node
func (e *Editor) AddImportant(prompt render.Prompt) (domain.NodeID, error) {
	return e.ctrl.AddImportant(prompt)
}

// Drag forwards one phase of a drag gesture at pointer (x, y)
func (e *Editor) Drag(id domain.NodeID, kind render.EventKind, x, y float64) error {
	switch kind {
	case render.EventDragStart, render.EventDrag, render.EventDragEnd:
	default:
		return fmt.Errorf("not a drag event: %q", kind)
	}
	if err := e.requireNode(id); err != nil {
		return err
	}
	return e.binder.Dispatch(id, kind, render.Event{X: x, Y: y})
}

// Hover shows or hides the label of id
func (e *Editor) Hover(id domain.NodeID, visible bool) error {
	if err := e.requireNode(id); err != nil {
		return err
	}
	kind := render.EventMouseOut
	if visible {
		kind = render.EventMouseOver
	}
	return e.binder.Dispatch(id, kind, render.Event{})
}

// Resize updates a live canvas and repaints
func (e *Editor) Resize(width, height float64) error {
	live, ok := e.viewport.(*render.LiveViewport)
	if !ok {
		return ErrFixedViewport
	}
	live.Resize(width, height)
	e.binder.Paint()
	return nil
}

// SetBackground sets the canvas colour
func (e *Editor) SetBackground(color string) {
	e.scene.SetBackground(color)
}

// Store exposes the graph store
func (e *Editor) Store() *store.Store {
	return e.store
}

// Engine exposes the simulation
func (e *Editor) Engine() *simulation.Engine {
	return e.engine
}

// Scene exposes the rendered scene
func (e *Editor) Scene() *render.Scene {
	return e.scene
}

// ActiveDrags returns the number of drags in progress
func (e *Editor) ActiveDrags() int {
	return e.ctrl.ActiveDrags()
}
