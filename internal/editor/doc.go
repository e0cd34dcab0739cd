// Package editor assembles the diagram editor core.
//
// An Editor wires a store, a simulation engine, a render binder over an
// in-memory scene and the interaction controller, then exposes the
// operations a client drives: click to spawn, add important task, drag,
// hover, resize, export and import. Each structural change follows the same
// protocol: mutate the store, reseed the engine with nodes and links, reset
// alpha to 1 and restart, reconcile the scene, paint.
package editor
