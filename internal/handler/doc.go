// Package handler implements the HTTP API of the forcemap server.
//
// GraphHandler exposes the live editor session: the graph in snapshot wire
// format, the drawn scene as JSON or SVG, node interaction (add important,
// click to spawn a child, drag phases, hover), viewport and background, and
// import/export. LibraryHandler manages named snapshots.
//
// Prompt answers travel in the request body. A missing or empty answer is a
// dismissed prompt and yields 204 No Content.
//
// Errors are returned as JSON with {error, details}. Sentinel errors map to
// 404 (unknown node, missing snapshot), 409 (duplicate node, fixed viewport)
// and 400 (invalid input).
package handler
