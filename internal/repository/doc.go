// Package repository defines the data access interface for the snapshot
// library.
//
// A snapshot library stores whole graphs under a name so a session can save
// its current diagram and load it back later. The actual implementation is
// in the sqlite subpackage.
//
// # SQLite Implementation
//
// The sqlite implementation keeps one row per snapshot plus ordered node and
// link rows. Saving a name that already exists replaces its contents in a
// single transaction and keeps the original creation time. Identifiers are
// stored with a numeric flag so integer and string ids survive a round trip.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
