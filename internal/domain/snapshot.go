package domain

import "time"

// Snapshot is the complete graph in serialisable form
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Nodes: make([]Node, 0),
		Links: make([]Link, 0),
	}
}

// AddNode appends a node record
func (s *Snapshot) AddNode(node Node) {
	s.Nodes = append(s.Nodes, node)
}

// AddLink appends a link record
func (s *Snapshot) AddLink(link Link) {
	s.Links = append(s.Links, link)
}

// SnapshotInfo describes a named snapshot in the library
type SnapshotInfo struct {
	Name      string    `json:"name"`
	NodeCount int       `json:"node_count"`
	LinkCount int       `json:"link_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
