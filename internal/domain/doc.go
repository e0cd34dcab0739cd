// Package domain defines the core types of the forcemap diagram editor.
//
// # Core Types
//
// NodeID identifies a node. Identifiers are either integers or opaque strings
// and keep that distinction through JSON and YAML round trips.
//
// Node is a graph entity with fixed visual attributes (size, color, text) and
// the position and velocity state driven by the force simulation. A non-nil
// FX/FY pair pins the node while it is dragged.
//
// Link is an edge in flat form: two bare identifiers.
//
// Endpoint and BoundLink are the resolved form the simulation works with.
// Resolution never mutates a Link; Flatten converts back, and
// Bind(BoundLink.Flatten()) resolves to the same nodes as the bound link.
//
// Snapshot is the serialisable graph used by export, import and the
// snapshot library.
//
// # Design Principles
//
// - No database or external dependencies
// - Identifiers are never renumbered
package domain
