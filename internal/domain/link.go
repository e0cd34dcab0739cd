package domain

import (
	"errors"
	"fmt"
)

// ErrDanglingEndpoint is returned when a link endpoint names no known node
var ErrDanglingEndpoint = errors.New("link endpoint not found")

// Link is an edge between two nodes in its flat, serialisable form
type Link struct {
	Source NodeID `json:"source"`
	Target NodeID `json:"target"`
}

// NewLink creates a link from source to target
func NewLink(source, target NodeID) Link {
	return Link{Source: source, Target: target}
}

// Key identifies the endpoint pair; parallel links share a key
func (l Link) Key() string {
	return l.Source.String() + "->" + l.Target.String()
}

// Lookup resolves an identifier to a live node record
type Lookup func(id NodeID) (*Node, bool)

// Endpoint is one end of a link: a bare identifier or a resolved node reference
type Endpoint struct {
	id   NodeID
	node *Node
}

// Bare creates an unresolved endpoint
func Bare(id NodeID) Endpoint {
	return Endpoint{id: id}
}

// Ref creates an endpoint resolved to a node record
func Ref(n *Node) Endpoint {
	return Endpoint{id: n.ID, node: n}
}

// ID flattens the endpoint: the node's identifier if resolved, else the raw id
func (e Endpoint) ID() NodeID {
	if e.node != nil {
		return e.node.ID
	}
	return e.id
}

// Node returns the resolved node, or nil for a bare endpoint
func (e Endpoint) Node() *Node {
	return e.node
}

// Resolved reports whether the endpoint references a node record
func (e Endpoint) Resolved() bool {
	return e.node != nil
}

// Resolve looks the flattened identifier up and returns a resolved endpoint
func (e Endpoint) Resolve(lookup Lookup) (Endpoint, error) {
	id := e.ID()
	n, ok := lookup(id)
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %s", ErrDanglingEndpoint, id)
	}
	return Ref(n), nil
}

// BoundLink is a link whose endpoints may be resolved to node references
type BoundLink struct {
	Source Endpoint
	Target Endpoint
}

// Bind resolves both endpoints of a flat link
func Bind(l Link, lookup Lookup) (BoundLink, error) {
	return BoundLink{Source: Bare(l.Source), Target: Bare(l.Target)}.Resolve(lookup)
}

// Resolve resolves both endpoints
func (b BoundLink) Resolve(lookup Lookup) (BoundLink, error) {
	source, err := b.Source.Resolve(lookup)
	if err != nil {
		return BoundLink{}, fmt.Errorf("source: %w", err)
	}
	target, err := b.Target.Resolve(lookup)
	if err != nil {
		return BoundLink{}, fmt.Errorf("target: %w", err)
	}
	return BoundLink{Source: source, Target: target}, nil
}

// Flatten returns the bare-identifier form used for serialisation
func (b BoundLink) Flatten() Link {
	return Link{Source: b.Source.ID(), Target: b.Target.ID()}
}
