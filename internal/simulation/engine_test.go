package simulation

import (
	"math"
	"testing"

	"forcemap/internal/domain"
)

func node(id int64, x, y float64) *domain.Node {
	n := domain.NewNode(domain.IntID(id), domain.ChildSize, domain.ChildColor, "")
	n.X, n.Y = x, y
	return n
}

func distance(a, b *domain.Node) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestEngineCoolsAndStops(t *testing.T) {
	e := New(DefaultOptions())
	e.SetNodes([]*domain.Node{node(1, 0, 0)})

	ticks, ends := 0, 0
	e.OnTick(func() { ticks++ })
	e.OnEnd(func() { ends++ })

	for e.Step() {
		if ticks > 1000 {
			t.Fatal("engine never came to rest")
		}
	}

	if ticks < 290 || ticks > 310 {
		t.Errorf("expected about 300 steps, got %d", ticks)
	}
	if ends != 1 {
		t.Errorf("expected one end callback, got %d", ends)
	}
	if e.Alpha() >= e.AlphaMin() {
		t.Errorf("alpha %f not below alphaMin", e.Alpha())
	}
	if e.Step() {
		t.Error("stopped engine must not step")
	}
}

func TestEngineAlphaTargetKeepsRunning(t *testing.T) {
	e := New(DefaultOptions())
	e.SetNodes([]*domain.Node{node(1, 0, 0)})
	e.SetAlphaTarget(0.3)

	for range 1000 {
		if !e.Step() {
			t.Fatal("engine stopped while alpha target is above alphaMin")
		}
	}
	if math.Abs(e.Alpha()-0.3) > 1e-3 {
		t.Errorf("expected alpha near 0.3, got %f", e.Alpha())
	}

	e.SetAlphaTarget(0)
	for range 1000 {
		e.Step()
	}
	if e.Active() {
		t.Error("expected engine to stop after target reset")
	}
}

func TestEnginePlacesUnplacedNodes(t *testing.T) {
	nodes := []*domain.Node{
		domain.NewNode(domain.IntID(1), 20, "black", ""),
		domain.NewNode(domain.IntID(2), 20, "black", ""),
		node(3, 500, 500),
	}
	e := New(DefaultOptions())
	e.SetNodes(nodes)

	want := initialRadius * math.Sqrt(0.5)
	if got := math.Hypot(nodes[0].X, nodes[0].Y); math.Abs(got-want) > 1e-9 {
		t.Errorf("first node radius = %f, want %f", got, want)
	}
	if !nodes[1].Placed() || (nodes[0].X == nodes[1].X && nodes[0].Y == nodes[1].Y) {
		t.Errorf("expected distinct placements, got (%f,%f) and (%f,%f)", nodes[0].X, nodes[0].Y, nodes[1].X, nodes[1].Y)
	}
	if nodes[2].X != 500 || nodes[2].Y != 500 {
		t.Errorf("placed node moved to (%f,%f)", nodes[2].X, nodes[2].Y)
	}
}

func TestEngineHoldsPinnedNodes(t *testing.T) {
	a, b := node(1, 0, 0), node(2, 5, 0)
	a.Pin(100, 100)

	e := New(DefaultOptions())
	e.AddForce("charge", NewManyBody(-1000))
	e.SetNodes([]*domain.Node{a, b})
	e.Tick(50)

	if a.X != 100 || a.Y != 100 {
		t.Errorf("pinned node at (%f,%f)", a.X, a.Y)
	}
	if a.VX != 0 || a.VY != 0 {
		t.Errorf("pinned node velocity (%f,%f)", a.VX, a.VY)
	}

	a.Unpin()
	e.Tick(1)
	if a.VX == 0 && a.VY == 0 {
		t.Error("released node should pick up velocity")
	}
}

func TestEngineForceRegistry(t *testing.T) {
	e := New(DefaultOptions())
	e.AddForce("center", NewCenter(0, 0))
	e.AddForce("charge", NewManyBody(-30))

	replacement := NewCenter(10, 10)
	e.AddForce("center", replacement)
	f, ok := e.Force("center")
	if !ok || f != Force(replacement) {
		t.Error("expected replacement force under same name")
	}
	if len(e.forces) != 2 || e.forces[0].name != "center" {
		t.Errorf("replacement must keep position, got %+v", e.forces)
	}

	e.RemoveForce("charge")
	if _, ok := e.Force("charge"); ok {
		t.Error("expected charge force removed")
	}
}

func TestEngineFind(t *testing.T) {
	e := New(DefaultOptions())
	e.SetNodes([]*domain.Node{node(1, 0, 0), node(2, 10, 0), node(3, 100, 100)})

	n, ok := e.Find(8, 1, 0)
	if !ok || n.ID != domain.IntID(2) {
		t.Errorf("expected node 2, got %v", n)
	}
	if _, ok := e.Find(50, 50, 5); ok {
		t.Error("expected no node within radius")
	}
}
