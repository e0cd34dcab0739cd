package service

import (
	"context"
	"fmt"

	"forcemap/internal/domain"
	"forcemap/internal/editor"
	"forcemap/internal/repository"
	"forcemap/internal/store"
)

// LibraryService saves the session graph under a name and loads it back
type LibraryService struct {
	repo     repository.SnapshotRepository
	graph    *GraphService
	session  *Session
	eventBus *EventBus
}

// NewLibraryService creates a new snapshot library service
func NewLibraryService(repo repository.SnapshotRepository, graph *GraphService, session *Session, eventBus *EventBus) *LibraryService {
	return &LibraryService{
		repo:     repo,
		graph:    graph,
		session:  session,
		eventBus: eventBus,
	}
}

// List describes every stored snapshot
func (s *LibraryService) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	return s.repo.ListSnapshots(ctx)
}

// Get returns a stored snapshot without loading it
func (s *LibraryService) Get(ctx context.Context, name string) (domain.Snapshot, error) {
	return s.repo.GetSnapshot(ctx, name)
}

// Save stores the current graph under name
func (s *LibraryService) Save(ctx context.Context, name string) (domain.SnapshotInfo, error) {
	if err := repository.ValidateName(name); err != nil {
		return domain.SnapshotInfo{}, err
	}

	var snap domain.Snapshot
	if err := s.session.View(ctx, func(ed *editor.Editor) error {
		snap = ed.Snapshot()
		return nil
	}); err != nil {
		return domain.SnapshotInfo{}, err
	}

	info, err := s.repo.SaveSnapshot(ctx, name, snap)
	if err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("save snapshot %s: %w", name, err)
	}

	s.eventBus.Publish(Event{Type: EventSnapshotSaved, Payload: info})
	return info, nil
}

// Load replaces the session graph with the stored snapshot
func (s *LibraryService) Load(ctx context.Context, name string) (store.RestoreReport, error) {
	snap, err := s.repo.GetSnapshot(ctx, name)
	if err != nil {
		return store.RestoreReport{}, err
	}
	return s.graph.Load(ctx, snap)
}

// Delete removes a stored snapshot
func (s *LibraryService) Delete(ctx context.Context, name string) error {
	if err := s.repo.DeleteSnapshot(ctx, name); err != nil {
		return err
	}
	s.eventBus.Publish(Event{Type: EventSnapshotDeleted, Payload: map[string]string{"name": name}})
	return nil
}
