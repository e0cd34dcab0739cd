package store

import (
	"errors"
	"fmt"

	"forcemap/internal/domain"
)

var (
	// ErrDuplicateNode is returned when a node identifier is already in use
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrUnknownNode is returned when an identifier names no node
	ErrUnknownNode = errors.New("unknown node id")
	// ErrInvalidNode is returned for node records that cannot be drawn
	ErrInvalidNode = errors.New("invalid node")
)

// LinkPolicy decides what Restore does with malformed snapshot entries
type LinkPolicy string

const (
	// LinkPolicySkip drops dangling links and duplicate nodes and keeps the rest
	LinkPolicySkip LinkPolicy = "skip"
	// LinkPolicyAbort rejects the whole snapshot and leaves the store untouched
	LinkPolicyAbort LinkPolicy = "abort"
)

// VelocityPolicy decides what happens to serialised velocities on restore
type VelocityPolicy string

const (
	// VelocityPreserve keeps velocities present in the snapshot
	VelocityPreserve VelocityPolicy = "preserve"
	// VelocityReset zeroes every velocity
	VelocityReset VelocityPolicy = "reset"
)

// RestoreOptions controls Restore
type RestoreOptions struct {
	Links    LinkPolicy
	Velocity VelocityPolicy
}

// DefaultRestoreOptions returns the skip / preserve policy
func DefaultRestoreOptions() RestoreOptions {
	return RestoreOptions{Links: LinkPolicySkip, Velocity: VelocityPreserve}
}

// RestoreReport summarises a Restore
type RestoreReport struct {
	NodesRestored  int             `json:"nodes_restored"`
	LinksRestored  int             `json:"links_restored"`
	SkippedNodes   []domain.NodeID `json:"skipped_nodes,omitempty"`
	SkippedLinks   []domain.Link   `json:"skipped_links,omitempty"`
	LinkPolicy     LinkPolicy      `json:"link_policy"`
	VelocityPolicy VelocityPolicy  `json:"velocity_policy"`
}

// Store holds the node and link records of one graph in insertion order.
// It is not safe for concurrent use.
type Store struct {
	nodes []*domain.Node
	index map[domain.NodeID]*domain.Node
	links []domain.Link
	ids   IDGenerator
}

// New creates an empty store; a nil generator means CounterIDs
func New(ids IDGenerator) *Store {
	if ids == nil {
		ids = NewCounterIDs()
	}
	return &Store{
		nodes: make([]*domain.Node, 0),
		index: make(map[domain.NodeID]*domain.Node),
		links: make([]domain.Link, 0),
		ids:   ids,
	}
}

// AddNode inserts a copy of node and returns its identifier. A zero
// identifier is replaced by a generated one.
func (s *Store) AddNode(node domain.Node) (domain.NodeID, error) {
	if node.Size <= 0 {
		return domain.NodeID{}, fmt.Errorf("%w: size must be positive, got %g", ErrInvalidNode, node.Size)
	}

	if node.ID.IsZero() {
		node.ID = s.nextFreeID()
	} else if _, exists := s.index[node.ID]; exists {
		return domain.NodeID{}, fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
	}

	rec := node
	s.nodes = append(s.nodes, &rec)
	s.index[rec.ID] = &rec
	s.ids.Observe(rec.ID)
	return rec.ID, nil
}

func (s *Store) nextFreeID() domain.NodeID {
	for {
		id := s.ids.Next()
		if _, exists := s.index[id]; !exists {
			return id
		}
	}
}

// AddLink connects two existing nodes
func (s *Store) AddLink(source, target domain.NodeID) error {
	if _, ok := s.index[source]; !ok {
		return fmt.Errorf("link source: %w: %s", ErrUnknownNode, source)
	}
	if _, ok := s.index[target]; !ok {
		return fmt.Errorf("link target: %w: %s", ErrUnknownNode, target)
	}
	s.links = append(s.links, domain.NewLink(source, target))
	return nil
}

// Node returns the live record for id
func (s *Store) Node(id domain.NodeID) (*domain.Node, bool) {
	n, ok := s.index[id]
	return n, ok
}

// Nodes returns the live records in insertion order
func (s *Store) Nodes() []*domain.Node {
	out := make([]*domain.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Links returns a copy of the links in insertion order
func (s *Store) Links() []domain.Link {
	out := make([]domain.Link, len(s.links))
	copy(out, s.links)
	return out
}

// Len returns the number of nodes
func (s *Store) Len() int {
	return len(s.nodes)
}

// Clear removes every node and link
func (s *Store) Clear() {
	s.nodes = make([]*domain.Node, 0)
	s.index = make(map[domain.NodeID]*domain.Node)
	s.links = make([]domain.Link, 0)
}

// Snapshot returns detached copies of every record
func (s *Store) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		Nodes: make([]domain.Node, 0, len(s.nodes)),
		Links: s.Links(),
	}
	for _, n := range s.nodes {
		snap.Nodes = append(snap.Nodes, n.Record())
	}
	return snap
}

// Restore replaces the store contents with snap. Nodes keep their
// identifiers and positions; links are inserted after all nodes.
func (s *Store) Restore(snap domain.Snapshot, opts RestoreOptions) (RestoreReport, error) {
	if opts.Links == "" {
		opts.Links = LinkPolicySkip
	}
	if opts.Velocity == "" {
		opts.Velocity = VelocityPreserve
	}
	report := RestoreReport{LinkPolicy: opts.Links, VelocityPolicy: opts.Velocity}

	if opts.Links == LinkPolicyAbort {
		if err := validate(snap); err != nil {
			return report, err
		}
	}

	s.Clear()

	for _, n := range snap.Nodes {
		n.FX, n.FY = nil, nil
		if opts.Velocity == VelocityReset {
			n.VX, n.VY = 0, 0
		}
		if _, err := s.AddNode(n); err != nil {
			report.SkippedNodes = append(report.SkippedNodes, n.ID)
			continue
		}
		report.NodesRestored++
	}

	for _, l := range snap.Links {
		if err := s.AddLink(l.Source, l.Target); err != nil {
			report.SkippedLinks = append(report.SkippedLinks, l)
			continue
		}
		report.LinksRestored++
	}

	return report, nil
}

// validate checks a snapshot without touching the store
func validate(snap domain.Snapshot) error {
	seen := make(map[domain.NodeID]struct{}, len(snap.Nodes))
	for _, n := range snap.Nodes {
		if n.Size <= 0 {
			return fmt.Errorf("node %s: %w: size must be positive", n.ID, ErrInvalidNode)
		}
		if n.ID.IsZero() {
			continue
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	for i, l := range snap.Links {
		if _, ok := seen[l.Source]; !ok {
			return fmt.Errorf("link %d source: %w: %s", i, ErrUnknownNode, l.Source)
		}
		if _, ok := seen[l.Target]; !ok {
			return fmt.Errorf("link %d target: %w: %s", i, ErrUnknownNode, l.Target)
		}
	}
	return nil
}
