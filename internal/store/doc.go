// Package store is the in-memory graph store: the single source of truth
// for node records, link records and per-node visual attributes.
//
// Nodes are kept in insertion order and indexed by identifier. Identifiers are
// unique at all times; AddNode rejects duplicates and AddLink rejects links
// whose endpoints are absent. Restore replaces the whole graph from a
// snapshot without renumbering so links serialised as bare identifiers
// resolve to the same nodes after a load.
package store
