package domain

import "testing"

func TestNewNode(t *testing.T) {
	t.Run("creates unplaced node", func(t *testing.T) {
		n := NewNode(IntID(1), RootSize, RootColor, "Main")

		if n.Placed() {
			t.Error("expected new node to be unplaced")
		}
		if n.Size != 30 {
			t.Errorf("expected size 30, got %f", n.Size)
		}
		if n.Color != "blue" {
			t.Errorf("expected color blue, got %s", n.Color)
		}
		if n.Pinned() {
			t.Error("expected new node not to be pinned")
		}
	})
}

func TestNodePin(t *testing.T) {
	n := NewNode(IntID(1), ChildSize, ChildColor, "Task")

	t.Run("pin sets fixed position", func(t *testing.T) {
		n.Pin(100, 120)
		if !n.Pinned() {
			t.Fatal("expected node to be pinned")
		}
		if *n.FX != 100 || *n.FY != 120 {
			t.Errorf("expected (100,120), got (%f,%f)", *n.FX, *n.FY)
		}
	})

	t.Run("unpin clears fixed position", func(t *testing.T) {
		n.Unpin()
		if n.FX != nil || n.FY != nil {
			t.Error("expected fixed position to be cleared")
		}
	})

	t.Run("record drops the pin", func(t *testing.T) {
		n.X, n.Y = 3, 4
		n.Pin(5, 6)
		rec := n.Record()
		if rec.Pinned() {
			t.Error("expected record to be unpinned")
		}
		if rec.X != 3 || rec.Y != 4 {
			t.Errorf("expected (3,4), got (%f,%f)", rec.X, rec.Y)
		}
		if !n.Pinned() {
			t.Error("record must not unpin the live node")
		}
	})
}

func TestSnapshot(t *testing.T) {
	s := NewSnapshot()
	s.AddNode(*NewNode(IntID(1), RootSize, RootColor, "Main"))
	s.AddLink(NewLink(IntID(1), IntID(1)))

	if len(s.Nodes) != 1 || len(s.Links) != 1 {
		t.Errorf("expected 1 node and 1 link, got %d and %d", len(s.Nodes), len(s.Links))
	}
}
