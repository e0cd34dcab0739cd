package editor

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"forcemap/internal/codec"
	"forcemap/internal/domain"
	"forcemap/internal/interaction"
	"forcemap/internal/render"
	"forcemap/internal/store"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var snapshotOpts = cmp.Options{
	cmp.Comparer(func(a, b domain.NodeID) bool { return a == b }),
	cmpopts.IgnoreFields(domain.Node{}, "VX", "VY"),
}

func seeded(t *testing.T) *Editor {
	t.Helper()
	e := New(DefaultOptions())
	if err := e.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return e
}

func TestSeed(t *testing.T) {
	e := seeded(t)
	if e.Store().Len() != 3 || len(e.Store().Links()) != 2 {
		t.Fatalf("expected 3 nodes 2 links, got %d %d", e.Store().Len(), len(e.Store().Links()))
	}
	if nodes, links := e.Scene().Len(); nodes != 3 || links != 2 {
		t.Errorf("expected 3 node and 2 link elements, got %d %d", nodes, links)
	}
	hub, _ := e.Store().Node(DefaultHubID)
	if hub.Color != domain.RootColor || hub.Size != domain.RootSize {
		t.Errorf("unexpected hub %+v", hub)
	}
	for _, n := range e.Store().Nodes() {
		if !n.Placed() {
			t.Errorf("node %s not placed after commit", n.ID)
		}
	}
}

func TestSpawnChildFromSingleNode(t *testing.T) {
	e := New(DefaultOptions())
	snap := domain.NewSnapshot()
	snap.AddNode(*domain.NewNode(domain.IntID(1), 30, "blue", "Main"))
	if _, err := e.Load(*snap); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if nodes, links := e.Scene().Len(); nodes != 1 || links != 0 {
		t.Fatalf("expected 1 node and no links drawn, got %d %d", nodes, links)
	}

	id, err := e.Click(domain.IntID(1), interaction.Answer("Child"))
	if err != nil {
		t.Fatalf("Click: %v", err)
	}

	nodes := e.Store().Nodes()
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	main, child := nodes[0], nodes[1]
	if main.ID != domain.IntID(1) || main.Size != 30 || main.Color != "blue" || main.Text != "Main" {
		t.Errorf("main node changed: %+v", main)
	}
	if child.ID != id || child.Size != 20 || child.Color != "black" || child.Text != "Child" {
		t.Errorf("unexpected child %+v", child)
	}

	want := []domain.Link{domain.NewLink(domain.IntID(1), id)}
	if diff := cmp.Diff(want, e.Store().Links(), snapshotOpts); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	if nodes, links := e.Scene().Len(); nodes != 2 || links != 1 {
		t.Errorf("expected 2 node groups and 1 line, got %d %d", nodes, links)
	}
}

func TestResolveID(t *testing.T) {
	e := New(DefaultOptions())
	snap := domain.NewSnapshot()
	snap.AddNode(*domain.NewNode(domain.IntID(1), 30, "blue", "int one"))
	snap.AddNode(*domain.NewNode(domain.StringID("1"), 20, "black", "string one"))
	snap.AddNode(*domain.NewNode(domain.StringID("2"), 20, "black", "string two"))
	snap.AddNode(*domain.NewNode(domain.StringID("goal"), 20, "black", "goal"))
	if _, err := e.Load(*snap); err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		input string
		want  domain.NodeID
	}{
		{"1", domain.IntID(1)},
		{"2", domain.StringID("2")},
		{"goal", domain.StringID("goal")},
		{"9", domain.IntID(9)},
	}
	for _, tt := range tests {
		if got := e.ResolveID(tt.input); got != tt.want {
			t.Errorf("ResolveID(%q) = %#v, want %#v", tt.input, got, tt.want)
		}
	}
}

func TestSpawnChildScenario(t *testing.T) {
	e := seeded(t)
	e.Settle(1000)
	if e.Active() {
		t.Fatal("expected layout at rest before click")
	}

	id, err := e.Click(domain.IntID(1), interaction.Answer("Write docs"))
	if err != nil {
		t.Fatalf("Click: %v", err)
	}
	if id != domain.IntID(4) {
		t.Errorf("expected new id 4, got %s", id)
	}
	if e.Store().Len() != 4 || len(e.Store().Links()) != 3 {
		t.Fatalf("expected 4 nodes 3 links, got %d %d", e.Store().Len(), len(e.Store().Links()))
	}
	if nodes, links := e.Scene().Len(); nodes != 4 || links != 3 {
		t.Errorf("expected exactly one new element per record, got %d %d", nodes, links)
	}
	if !e.Active() || e.Engine().Alpha() != 1 {
		t.Errorf("expected reheated engine, active=%v alpha=%f", e.Active(), e.Engine().Alpha())
	}

	el, _ := e.Scene().Node(id)
	if el.Binds() != 1 {
		t.Errorf("handlers must be attached once at creation, got %d", el.Binds())
	}

	t.Run("cancelled click is a no-op", func(t *testing.T) {
		_, err := e.Click(domain.IntID(1), interaction.Cancelled())
		if !errors.Is(err, interaction.ErrCancelled) {
			t.Errorf("expected ErrCancelled, got %v", err)
		}
		if e.Store().Len() != 4 {
			t.Errorf("store changed on cancel")
		}
	})

	t.Run("unknown node", func(t *testing.T) {
		_, err := e.Click(domain.IntID(99), interaction.Answer("x"))
		if !errors.Is(err, store.ErrUnknownNode) {
			t.Errorf("expected ErrUnknownNode, got %v", err)
		}
	})
}

func TestDragScenario(t *testing.T) {
	e := seeded(t)
	e.Settle(1000)

	n, _ := e.Store().Node(domain.IntID(1))
	if n.X == 100 && n.Y == 100 {
		t.Fatal("node already rests at the drag point")
	}

	if err := e.Drag(domain.IntID(1), render.EventDragStart, 100, 100); err != nil {
		t.Fatalf("drag start: %v", err)
	}
	if n.FX == nil || n.FY == nil || *n.FX != 100 || *n.FY != 100 {
		t.Fatalf("expected pin at pointer (100,100), got %v %v", n.FX, n.FY)
	}
	if !e.Active() || e.Engine().AlphaTarget() != interaction.DefaultDragAlphaTarget {
		t.Fatal("drag start must reheat toward the drag target")
	}

	if err := e.Drag(domain.IntID(1), render.EventDrag, 150, 120); err != nil {
		t.Fatalf("drag: %v", err)
	}
	if *n.FX != 150 || *n.FY != 120 {
		t.Errorf("pin at (%f,%f), want (150,120)", *n.FX, *n.FY)
	}
	for range 20 {
		e.Step()
	}
	if n.X != 150 || n.Y != 120 {
		t.Errorf("dragged node at (%f,%f), want (150,120)", n.X, n.Y)
	}
	el, _ := e.Scene().Node(domain.IntID(1))
	if el.X != 150 || el.Y != 120 {
		t.Errorf("drawn at (%f,%f), want (150,120)", el.X, el.Y)
	}

	if err := e.Drag(domain.IntID(1), render.EventDragEnd, 150, 120); err != nil {
		t.Fatalf("drag end: %v", err)
	}
	if n.Pinned() || e.Engine().AlphaTarget() != 0 {
		t.Error("drag end must release pin and reset alpha target")
	}
	if !e.Active() {
		t.Error("drag end must not force the engine to rest")
	}
	e.Settle(1000)
	if e.Active() {
		t.Error("expected engine to cool down after drag")
	}

	if err := e.Drag(domain.IntID(1), render.EventClick, 0, 0); err == nil {
		t.Error("expected error for non-drag event kind")
	}
}

func TestRenderClampingBounds(t *testing.T) {
	e := seeded(t)
	for i := range 12 {
		if _, err := e.Click(domain.IntID(int64(1+i%3)), interaction.Answer("n")); err != nil {
			t.Fatalf("Click: %v", err)
		}
	}
	for range 50 {
		e.Step()
	}

	f := e.Frame()
	for _, n := range f.Nodes {
		if n.X < n.Size || n.X > f.Width-n.Size || n.Y < n.Size || n.Y > f.Height-n.Size {
			t.Errorf("node %s drawn at (%f,%f) outside bounds", n.ID, n.X, n.Y)
		}
	}
}

func TestRenderClampingIsNotWrittenBack(t *testing.T) {
	e := seeded(t)
	n, _ := e.Store().Node(domain.IntID(1))
	e.Drag(domain.IntID(1), render.EventDragStart, 0, 0)
	e.Drag(domain.IntID(1), render.EventDrag, -500, -500)
	e.Step()

	if n.X != -500 || n.Y != -500 {
		t.Errorf("stored position must stay raw, got (%f,%f)", n.X, n.Y)
	}
	el, _ := e.Scene().Node(domain.IntID(1))
	if el.X != n.Size || el.Y != n.Size {
		t.Errorf("drawn position must be clamped, got (%f,%f)", el.X, el.Y)
	}
}

func TestExportImportIdempotent(t *testing.T) {
	for _, c := range []codec.Codec{codec.NewJSONCodec(), codec.NewYAMLCodec()} {
		t.Run(c.Format(), func(t *testing.T) {
			e := seeded(t)
			if _, err := e.AddImportant(interaction.Answer("Launch")); err != nil {
				t.Fatalf("AddImportant: %v", err)
			}
			e.Settle(1000)
			before := e.Snapshot()

			var buf bytes.Buffer
			if err := e.Export(&buf, c); err != nil {
				t.Fatalf("Export: %v", err)
			}

			other := New(DefaultOptions())
			report, err := other.Import(&buf, c)
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if report.NodesRestored != 4 || report.LinksRestored != 3 {
				t.Errorf("unexpected report %+v", report)
			}
			if diff := cmp.Diff(before, other.Snapshot(), snapshotOpts); diff != "" {
				t.Errorf("import(export()) mismatch (-want +got):\n%s", diff)
			}
			if nodes, links := other.Scene().Len(); nodes != 4 || links != 3 {
				t.Errorf("expected reconciled scene, got %d %d", nodes, links)
			}
			if !other.Active() {
				t.Error("import must restart the engine")
			}
		})
	}
}

func TestImportReplacesGraph(t *testing.T) {
	e := seeded(t)
	doc := `{"nodes":[{"id":"a","size":20,"color":"black","text":"A","x":10,"y":10}],"links":[{"source":"a","target":"missing"}]}`

	report, err := e.Import(strings.NewReader(doc), codec.NewJSONCodec())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(report.SkippedLinks) != 1 {
		t.Errorf("expected dangling link skipped, got %+v", report)
	}
	if nodes, links := e.Scene().Len(); nodes != 1 || links != 0 {
		t.Errorf("old elements must be removed, got %d %d", nodes, links)
	}
}

func TestImportAbortPolicy(t *testing.T) {
	opts := DefaultOptions()
	opts.Restore.Links = store.LinkPolicyAbort
	e := New(opts)
	if err := e.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	doc := `{"nodes":[{"id":1,"size":20,"color":"black","text":"A"}],"links":[{"source":1,"target":5}]}`
	if _, err := e.Import(strings.NewReader(doc), codec.NewJSONCodec()); err == nil {
		t.Fatal("expected abort on dangling link")
	}
	if e.Store().Len() != 3 {
		t.Errorf("abort must leave the graph untouched, got %d nodes", e.Store().Len())
	}
}

func TestEmptyImportClearsScene(t *testing.T) {
	e := seeded(t)
	if _, err := e.Load(domain.Snapshot{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if nodes, links := e.Scene().Len(); nodes != 0 || links != 0 {
		t.Errorf("expected empty scene, got %d %d", nodes, links)
	}
}

func TestUniqueIDsAcrossAdds(t *testing.T) {
	e := seeded(t)
	for i := range 20 {
		var err error
		if i%2 == 0 {
			_, err = e.Click(domain.IntID(2), interaction.Answer("child"))
		} else {
			_, err = e.AddImportant(interaction.Answer("important"))
		}
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	seen := make(map[domain.NodeID]bool)
	for _, n := range e.Store().Nodes() {
		if seen[n.ID] {
			t.Fatalf("duplicate id %s", n.ID)
		}
		seen[n.ID] = true
	}
	if len(seen) != 23 {
		t.Errorf("expected 23 nodes, got %d", len(seen))
	}
}

func TestHoverAndBackground(t *testing.T) {
	e := seeded(t)
	if err := e.Hover(domain.IntID(2), true); err != nil {
		t.Fatalf("Hover: %v", err)
	}
	e.SetBackground("white")

	f := e.Frame()
	if f.Background != "white" {
		t.Errorf("background = %q", f.Background)
	}
	for _, n := range f.Nodes {
		if n.LabelVisible != (n.ID == domain.IntID(2)) {
			t.Errorf("node %s label visible=%v", n.ID, n.LabelVisible)
		}
	}
	if next := e.Frame(); next.Seq != f.Seq+1 {
		t.Errorf("frame sequence must increase, %d then %d", f.Seq, next.Seq)
	}
}

func TestResize(t *testing.T) {
	e := seeded(t)
	if err := e.Resize(300, 200); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if f := e.Frame(); f.Width != 300 || f.Height != 200 {
		t.Errorf("frame size %gx%g", f.Width, f.Height)
	}

	opts := DefaultOptions()
	opts.Viewport = render.FixedViewport{Width: 100, Height: 100}
	fixed := New(opts)
	if err := fixed.Resize(1, 1); !errors.Is(err, ErrFixedViewport) {
		t.Errorf("expected ErrFixedViewport, got %v", err)
	}
}

func TestApplyForcesKeepsLinks(t *testing.T) {
	e := seeded(t)
	f := e.Forces()
	f.LinkDistance = 120
	f.CollideEnabled = true
	e.ApplyForces(f)

	if _, ok := e.Engine().Force(ForceCollide); !ok {
		t.Error("collide force not registered")
	}
	e.Engine().SetAlpha(1)
	e.Engine().Restart()
	e.Settle(1000)

	a, _ := e.Store().Node(domain.IntID(1))
	b, _ := e.Store().Node(domain.IntID(2))
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx*dx+dy*dy < 60*60 {
		t.Errorf("links must act with the new distance, got separation^2 %f", dx*dx+dy*dy)
	}
}
