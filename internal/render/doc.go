// Package render binds graph records to visual elements.
//
// A Binder reconciles the store's nodes and links against a Surface by
// identifier, attaching input handlers to node elements once when they are
// created, and repaints element positions on every simulation tick. Drawn
// positions are clamped to the Viewport at paint time; stored positions are
// left untouched.
//
// Scene is the in-memory Surface used by the server and CLI. Its Frame is
// what the SSE stream carries, and WriteSVG turns a Frame into a document.
package render
