package handler

import "net/http"

// Register mounts the API routes on mux
func Register(mux *http.ServeMux, graph *GraphHandler, library *LibraryHandler) {
	// Graph and scene
	mux.HandleFunc("GET /api/graph", graph.GetGraph)
	mux.HandleFunc("GET /api/scene", graph.GetScene)
	mux.HandleFunc("GET /api/scene.svg", graph.GetSceneSVG)

	// Node interaction
	mux.HandleFunc("POST /api/nodes", graph.AddImportant)
	mux.HandleFunc("POST /api/nodes/{id}/click", graph.ClickNode)
	mux.HandleFunc("POST /api/nodes/{id}/drag", graph.DragNode)
	mux.HandleFunc("POST /api/nodes/{id}/hover", graph.HoverNode)

	// Canvas
	mux.HandleFunc("POST /api/viewport", graph.SetViewport)
	mux.HandleFunc("PUT /api/background", graph.SetBackground)

	// Import/export
	mux.HandleFunc("GET /api/export", graph.Export)
	mux.HandleFunc("POST /api/import", graph.Import)

	// Snapshot library
	if library != nil {
		mux.HandleFunc("GET /api/snapshots", library.ListSnapshots)
		mux.HandleFunc("POST /api/snapshots", library.SaveSnapshot)
		mux.HandleFunc("GET /api/snapshots/{name}", library.GetSnapshot)
		mux.HandleFunc("DELETE /api/snapshots/{name}", library.DeleteSnapshot)
		mux.HandleFunc("POST /api/snapshots/{name}/load", library.LoadSnapshot)
	}

	mux.HandleFunc("GET /healthz", Health)
}
