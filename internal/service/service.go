package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"forcemap/internal/codec"
	"forcemap/internal/domain"
	"forcemap/internal/editor"
	"forcemap/internal/interaction"
	"forcemap/internal/render"
	"forcemap/internal/store"
)

// ErrInvalidDocument wraps parse failures of imported documents
var ErrInvalidDocument = errors.New("invalid graph document")

// ErrInvalidColor is returned for an empty background colour
var ErrInvalidColor = errors.New("background color is required")

// GraphService exposes editor operations to the HTTP layer. Every call runs
// on the session goroutine.
type GraphService struct {
	session  *Session
	eventBus *EventBus
}

// NewGraphService creates a new graph service
func NewGraphService(session *Session, eventBus *EventBus) *GraphService {
	return &GraphService{
		session:  session,
		eventBus: eventBus,
	}
}

func (s *GraphService) publish(event Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(event)
	}
}

// GetGraph returns the current graph in snapshot form
func (s *GraphService) GetGraph(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := s.session.View(ctx, func(ed *editor.Editor) error {
		snap = ed.Snapshot()
		return nil
	})
	return snap, err
}

// ResolveNode maps a path segment to the identifier of an existing node
// when one matches either reading
func (s *GraphService) ResolveNode(ctx context.Context, text string) (domain.NodeID, error) {
	var id domain.NodeID
	err := s.session.View(ctx, func(ed *editor.Editor) error {
		id = ed.ResolveID(text)
		return nil
	})
	return id, err
}

// GetScene returns the current drawn frame
func (s *GraphService) GetScene(ctx context.Context) (render.Frame, error) {
	var frame render.Frame
	err := s.session.View(ctx, func(ed *editor.Editor) error {
		frame = ed.Frame()
		return nil
	})
	return frame, err
}

// RenderSVG draws the current scene
func (s *GraphService) RenderSVG(ctx context.Context, w io.Writer) error {
	var buf bytes.Buffer
	if err := s.session.View(ctx, func(ed *editor.Editor) error {
		return ed.WriteSVG(&buf)
	}); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// AddImportant adds a task linked to the hub. An empty answer is
// interaction.ErrCancelled.
func (s *GraphService) AddImportant(ctx context.Context, answer string) (domain.NodeID, error) {
	var id domain.NodeID
	err := s.session.Do(ctx, func(ed *editor.Editor) error {
		var err error
		id, err = ed.AddImportant(interaction.Answer(answer))
		return err
	})
	if err != nil {
		return id, err
	}
	s.publish(Event{Type: EventNodeCreated, Payload: map[string]any{"node_id": id, "kind": "important"}})
	return id, nil
}

// Click spawns a child of parent labelled answer
func (s *GraphService) Click(ctx context.Context, parent domain.NodeID, answer string) (domain.NodeID, error) {
	var id domain.NodeID
	err := s.session.Do(ctx, func(ed *editor.Editor) error {
		var err error
		id, err = ed.Click(parent, interaction.Answer(answer))
		return err
	})
	if err != nil {
		return id, err
	}
	s.publish(Event{Type: EventNodeCreated, Payload: map[string]any{"node_id": id, "parent": parent, "kind": "child"}})
	return id, nil
}

// Drag forwards one drag phase
func (s *GraphService) Drag(ctx context.Context, id domain.NodeID, kind render.EventKind, x, y float64) error {
	return s.session.Do(ctx, func(ed *editor.Editor) error {
		return ed.Drag(id, kind, x, y)
	})
}

// Hover toggles a node label
func (s *GraphService) Hover(ctx context.Context, id domain.NodeID, visible bool) error {
	return s.session.Do(ctx, func(ed *editor.Editor) error {
		return ed.Hover(id, visible)
	})
}

// Resize updates the live canvas size
func (s *GraphService) Resize(ctx context.Context, width, height float64) error {
	err := s.session.Do(ctx, func(ed *editor.Editor) error {
		return ed.Resize(width, height)
	})
	if err != nil {
		return err
	}
	s.publish(Event{Type: EventViewportChanged, Payload: map[string]float64{"width": width, "height": height}})
	return nil
}

// SetBackground sets the canvas colour
func (s *GraphService) SetBackground(ctx context.Context, color string) error {
	if color == "" {
		return ErrInvalidColor
	}
	return s.session.Do(ctx, func(ed *editor.Editor) error {
		ed.SetBackground(color)
		return nil
	})
}

// Export writes the graph in the given format
func (s *GraphService) Export(ctx context.Context, format string, w io.Writer) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := s.session.View(ctx, func(ed *editor.Editor) error {
		return ed.Export(&buf, c)
	}); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// Import replaces the graph with a document in the given format
func (s *GraphService) Import(ctx context.Context, format string, r io.Reader) (store.RestoreReport, error) {
	c, err := codec.ForFormat(format)
	if err != nil {
		return store.RestoreReport{}, err
	}
	snap, err := c.Parse(r)
	if err != nil {
		return store.RestoreReport{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return s.Load(ctx, snap)
}

// Load replaces the graph with snap
func (s *GraphService) Load(ctx context.Context, snap domain.Snapshot) (store.RestoreReport, error) {
	var report store.RestoreReport
	err := s.session.Do(ctx, func(ed *editor.Editor) error {
		var err error
		report, err = ed.Load(snap)
		return err
	})
	if err != nil {
		return report, err
	}
	log.Printf("Loaded graph: %d nodes, %d links (skipped %d nodes, %d links)",
		report.NodesRestored, report.LinksRestored, len(report.SkippedNodes), len(report.SkippedLinks))
	s.publish(Event{Type: EventGraphLoaded, Payload: report})
	return report, nil
}

// Reconfigure applies new force and interaction parameters and reheats the
// layout so the change is visible
func (s *GraphService) Reconfigure(ctx context.Context, forces editor.ForceOptions, inter interaction.Options, restore store.RestoreOptions) error {
	err := s.session.Do(ctx, func(ed *editor.Editor) error {
		ed.ApplyForces(forces)
		ed.SetInteraction(inter)
		ed.SetRestoreOptions(restore)
		ed.Engine().SetAlpha(1)
		ed.Engine().Restart()
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(Event{Type: EventConfigReloaded})
	return nil
}
