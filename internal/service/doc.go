// Package service implements the application layer of forcemap.
//
// # Session
//
// Session owns one editor.Editor and runs a single goroutine: commands sent
// through Do or View run to completion one at a time, and a ticker steps the
// simulation while it is active. No other goroutine touches editor state.
//
// # Services
//
// GraphService wraps the editor operations (spawn, add important task, drag,
// hover, resize, background, import/export) for the HTTP handlers.
//
// LibraryService stores named snapshots of the graph through a
// repository.SnapshotRepository and loads them back into the session.
//
// # Event System
//
// The session publishes a frame event after every step and every mutating
// command; services publish semantic events (node created, graph loaded,
// snapshot saved). The SSE hub relays them to browsers.
package service
