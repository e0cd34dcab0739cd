package render

import (
	"errors"
	"strings"
	"testing"

	"forcemap/internal/domain"
)

func placed(id int64, size, x, y float64) *domain.Node {
	n := domain.NewNode(domain.IntID(id), size, "black", "n")
	n.X, n.Y = x, y
	return n
}

func newTestBinder() (*Binder, *Scene) {
	vp := FixedViewport{Width: 960, Height: 500}
	scene := NewScene(vp)
	return NewBinder(scene, vp), scene
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, r, dim float64
		want      float64
	}{
		{"inside", 100, 20, 960, 100},
		{"below", -50, 20, 960, 20},
		{"above", 2000, 20, 960, 940},
		{"at lower bound", 20, 20, 960, 20},
		{"does not fit", 5, 30, 40, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.r, tt.dim); got != tt.want {
				t.Errorf("Clamp(%g, %g, %g) = %g, want %g", tt.v, tt.r, tt.dim, got, tt.want)
			}
		})
	}
}

func TestReconcileKeyedByID(t *testing.T) {
	b, scene := newTestBinder()
	a, c := placed(1, 20, 10, 10), placed(2, 20, 50, 50)
	links := []domain.Link{domain.NewLink(a.ID, c.ID)}

	res := b.Reconcile([]*domain.Node{a, c}, links)
	if res.NodesCreated != 2 || res.LinksCreated != 1 {
		t.Fatalf("unexpected first reconcile %+v", res)
	}

	t.Run("repeat reconcile creates nothing", func(t *testing.T) {
		res := b.Reconcile([]*domain.Node{c, a}, links)
		if res.Changed() {
			t.Errorf("expected no changes, got %+v", res)
		}
		if nodes, links := scene.Len(); nodes != 2 || links != 1 {
			t.Errorf("expected 2 nodes 1 link, got %d %d", nodes, links)
		}
	})

	t.Run("orphans are removed", func(t *testing.T) {
		res := b.Reconcile([]*domain.Node{a}, nil)
		if res.NodesRemoved != 1 || res.LinksRemoved != 1 {
			t.Errorf("unexpected result %+v", res)
		}
		if _, ok := scene.Node(c.ID); ok {
			t.Error("removed node still in scene")
		}
	})

	t.Run("empty reconcile clears", func(t *testing.T) {
		b.Reconcile(nil, nil)
		if b.NodeCount() != 0 || b.LinkCount() != 0 {
			t.Errorf("expected zero elements, got %d %d", b.NodeCount(), b.LinkCount())
		}
	})
}

func TestReconcileParallelLinks(t *testing.T) {
	b, _ := newTestBinder()
	a, c := placed(1, 20, 10, 10), placed(2, 20, 50, 50)
	links := []domain.Link{domain.NewLink(a.ID, c.ID), domain.NewLink(a.ID, c.ID)}

	res := b.Reconcile([]*domain.Node{a, c}, links)
	if res.LinksCreated != 2 {
		t.Errorf("expected 2 parallel link elements, got %d", res.LinksCreated)
	}
	keys := LinkKeys(links)
	if keys[0] != "1->2#0" || keys[1] != "1->2#1" {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestReconcileSkipsDanglingLinks(t *testing.T) {
	b, _ := newTestBinder()
	a := placed(1, 20, 10, 10)
	res := b.Reconcile([]*domain.Node{a}, []domain.Link{domain.NewLink(a.ID, domain.IntID(7))})
	if res.LinksCreated != 0 {
		t.Errorf("dangling link must not be drawn, got %+v", res)
	}
}

func TestHandlersBoundOnce(t *testing.T) {
	b, scene := newTestBinder()
	calls := 0
	b.OnCreate(func(n *domain.Node) Handlers {
		calls++
		return Handlers{}
	})

	a := placed(1, 20, 10, 10)
	for range 3 {
		b.Reconcile([]*domain.Node{a}, nil)
	}
	el, _ := scene.Node(a.ID)
	if calls != 1 || el.Binds() != 1 {
		t.Errorf("expected handlers bound once, factory %d binds %d", calls, el.Binds())
	}
}

func TestPaintClampsWithoutWriteBack(t *testing.T) {
	b, scene := newTestBinder()
	a := placed(1, 20, -100, 1000)
	c := placed(2, 30, 400, 200)
	b.Reconcile([]*domain.Node{a, c}, []domain.Link{domain.NewLink(a.ID, c.ID)})
	b.Paint()

	el, _ := scene.Node(a.ID)
	if el.X != 20 || el.Y != 480 {
		t.Errorf("drawn at (%g,%g), want (20,480)", el.X, el.Y)
	}
	if a.X != -100 || a.Y != 1000 {
		t.Errorf("stored position modified to (%g,%g)", a.X, a.Y)
	}

	line, _ := scene.Link("1->2#0")
	if line.X1 != 20 || line.Y1 != 480 || line.X2 != 400 || line.Y2 != 200 {
		t.Errorf("line endpoints must follow drawn centres, got %+v", line)
	}

	b.SetClamp(false)
	b.Paint()
	if el.X != -100 {
		t.Errorf("unclamped paint at %g", el.X)
	}
}

func TestPaintReadsLiveViewport(t *testing.T) {
	vp := NewLiveViewport(960, 500)
	scene := NewScene(vp)
	b := NewBinder(scene, vp)
	a := placed(1, 20, 900, 100)
	b.Reconcile([]*domain.Node{a}, nil)

	b.Paint()
	el, _ := scene.Node(a.ID)
	if el.X != 900 {
		t.Fatalf("expected x 900, got %g", el.X)
	}

	vp.Resize(500, 0)
	b.Paint()
	if el.X != 480 {
		t.Errorf("expected clamp to resized width, got %g", el.X)
	}
	if w, h := vp.Size(); w != 500 || h != 500 {
		t.Errorf("zero height must be ignored, got %gx%g", w, h)
	}
}

func TestDispatch(t *testing.T) {
	b, _ := newTestBinder()
	var got *domain.Node
	b.OnCreate(func(*domain.Node) Handlers {
		return Handlers{Click: func(ev Event) { got = ev.Node }}
	})

	a := placed(1, 20, 10, 10)
	b.Reconcile([]*domain.Node{a}, nil)

	replacement := placed(1, 20, 30, 30)
	b.Reconcile([]*domain.Node{replacement}, nil)

	if err := b.Dispatch(a.ID, EventClick, Event{}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got != replacement {
		t.Error("handler must receive the currently bound record")
	}
	if err := b.Dispatch(a.ID, EventDrag, Event{}); err != nil {
		t.Errorf("unbound kinds are ignored, got %v", err)
	}
	if err := b.Dispatch(domain.IntID(9), EventClick, Event{}); !errors.Is(err, ErrNoElement) {
		t.Errorf("expected ErrNoElement, got %v", err)
	}
}

func TestWriteSVG(t *testing.T) {
	b, scene := newTestBinder()
	a := placed(1, 20, 100, 100)
	a.Text = "Fish & <Chips>"
	c := placed(2, 30, 200, 200)
	b.Reconcile([]*domain.Node{a, c}, []domain.Link{domain.NewLink(a.ID, c.ID)})
	b.Paint()
	el, _ := scene.Node(a.ID)
	el.SetLabelVisible(true)

	var buf strings.Builder
	if err := scene.WriteSVG(&buf); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`style="background-color: lightgrey"`,
		`<line class="link" x1="100.00" y1="100.00" x2="200.00" y2="200.00" stroke="grey"/>`,
		`<circle class="node" r="30" fill="black"/>`,
		`visibility="visible">Fish &amp; &lt;Chips&gt;</text>`,
		`visibility="hidden">n</text>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "<line") > strings.Index(out, "<circle") {
		t.Error("lines must be drawn beneath nodes")
	}
}
