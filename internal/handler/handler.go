package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"forcemap/internal/codec"
	"forcemap/internal/domain"
	"forcemap/internal/editor"
	"forcemap/internal/interaction"
	"forcemap/internal/render"
	"forcemap/internal/repository"
	"forcemap/internal/service"
	"forcemap/internal/store"
)

// maxImportBytes bounds uploaded graph documents
const maxImportBytes = 8 << 20

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TextRequest carries the answer to a text prompt. A missing or empty text
// means the prompt was dismissed.
type TextRequest struct {
	Text string `json:"text"`
}

// CreatedResponse is returned when a node was added
type CreatedResponse struct {
	ID     domain.NodeID  `json:"id"`
	Parent *domain.NodeID `json:"parent,omitempty"`
}

// DragRequest is one phase of a pointer drag
type DragRequest struct {
	Phase string  `json:"phase"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// HoverRequest toggles a node label
type HoverRequest struct {
	Visible bool `json:"visible"`
}

// ViewportRequest reports the browser canvas size
type ViewportRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BackgroundRequest sets the canvas colour
type BackgroundRequest struct {
	Color string `json:"color"`
}

// GraphHandler handles graph API requests
type GraphHandler struct {
	svc *service.GraphService
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(svc *service.GraphService) *GraphHandler {
	return &GraphHandler{svc: svc}
}

// GetGraph returns the graph in snapshot wire format
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), codec.FormatJSON, &buf); err != nil {
		log.Printf("Failed to get graph: %v", err)
		writeError(w, "Failed to get graph", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

// GetScene returns the current drawn frame
func (h *GraphHandler) GetScene(w http.ResponseWriter, r *http.Request) {
	frame, err := h.svc.GetScene(r.Context())
	if err != nil {
		log.Printf("Failed to get scene: %v", err)
		writeError(w, "Failed to get scene", err)
		return
	}

	writeJSON(w, frame, http.StatusOK)
}

// GetSceneSVG draws the current frame as SVG
func (h *GraphHandler) GetSceneSVG(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.RenderSVG(r.Context(), &buf); err != nil {
		log.Printf("Failed to render SVG: %v", err)
		writeError(w, "Failed to render SVG", err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

// AddImportant adds a high-priority task linked to the hub
func (h *GraphHandler) AddImportant(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	h.created(w, r, nil, func(ctx context.Context) (domain.NodeID, error) {
		return h.svc.AddImportant(ctx, req.Text)
	})
}

// ClickNode spawns a child of the clicked node
func (h *GraphHandler) ClickNode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.nodeID(w, r)
	if !ok {
		return
	}
	var req TextRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	h.created(w, r, &id, func(ctx context.Context) (domain.NodeID, error) {
		return h.svc.Click(ctx, id, req.Text)
	})
}

func (h *GraphHandler) created(w http.ResponseWriter, r *http.Request, parent *domain.NodeID, create func(context.Context) (domain.NodeID, error)) {
	id, err := create(r.Context())
	if errors.Is(err, interaction.ErrCancelled) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("Failed to add node: %v", err)
		writeError(w, "Failed to add node", err)
		return
	}

	writeJSON(w, CreatedResponse{ID: id, Parent: parent}, http.StatusCreated)
}

// DragNode forwards one drag phase for a node
func (h *GraphHandler) DragNode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.nodeID(w, r)
	if !ok {
		return
	}
	var req DragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	kind, ok := render.ParseEventKind(req.Phase)
	if !ok || (kind != render.EventDragStart && kind != render.EventDrag && kind != render.EventDragEnd) {
		writeErrorStatus(w, "Invalid drag phase", "phase must be dragstart, drag or dragend", http.StatusBadRequest)
		return
	}

	if err := h.svc.Drag(r.Context(), id, kind, req.X, req.Y); err != nil {
		writeError(w, "Failed to drag node", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HoverNode shows or hides a node label
func (h *GraphHandler) HoverNode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.nodeID(w, r)
	if !ok {
		return
	}
	var req HoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Hover(r.Context(), id, req.Visible); err != nil {
		writeError(w, "Failed to hover node", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetViewport records the live canvas size
func (h *GraphHandler) SetViewport(w http.ResponseWriter, r *http.Request) {
	var req ViewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeErrorStatus(w, "Invalid viewport", "width and height must be positive", http.StatusBadRequest)
		return
	}

	if err := h.svc.Resize(r.Context(), req.Width, req.Height); err != nil {
		writeError(w, "Failed to resize viewport", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetBackground sets the canvas background colour
func (h *GraphHandler) SetBackground(w http.ResponseWriter, r *http.Request) {
	var req BackgroundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetBackground(r.Context(), req.Color); err != nil {
		writeError(w, "Failed to set background", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export downloads the graph; ?format=json|yaml and ?name= pick the file
func (h *GraphHandler) Export(w http.ResponseWriter, r *http.Request) {
	c, err := codec.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, "Failed to export graph", err)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), c.Format(), &buf); err != nil {
		log.Printf("Failed to export graph: %v", err)
		writeError(w, "Failed to export graph", err)
		return
	}

	w.Header().Set("Content-Type", contentType(c.Format()))
	w.Header().Set("Content-Disposition", "attachment; filename="+codec.FileNameFor(r.URL.Query().Get("name"), c.Format()))
	w.Write(buf.Bytes())
}

// Import replaces the graph with an uploaded document
func (h *GraphHandler) Import(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" && r.Header.Get("Content-Type") == "application/x-yaml" {
		format = codec.FormatYAML
	}

	report, err := h.svc.Import(r.Context(), format, http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		log.Printf("Failed to import graph: %v", err)
		writeError(w, "Failed to import graph", err)
		return
	}

	writeJSON(w, report, http.StatusOK)
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Helper methods

func contentType(format string) string {
	if format == codec.FormatYAML {
		return "application/x-yaml"
	}
	return "application/json"
}

func (h *GraphHandler) nodeID(w http.ResponseWriter, r *http.Request) (domain.NodeID, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		writeErrorStatus(w, "Invalid node ID", "Node ID is required", http.StatusBadRequest)
		return domain.NodeID{}, false
	}
	id, err := h.svc.ResolveNode(r.Context(), raw)
	if err != nil {
		writeError(w, "Failed to resolve node", err)
		return domain.NodeID{}, false
	}
	return id, true
}

// decodeOptional decodes a JSON body if one was sent
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeErrorStatus(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// statusFor maps sentinel errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrUnknownNode), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateNode), errors.Is(err, editor.ErrFixedViewport):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidNode),
		errors.Is(err, domain.ErrDanglingEndpoint),
		errors.Is(err, repository.ErrInvalidName),
		errors.Is(err, codec.ErrUnsupportedFormat),
		errors.Is(err, service.ErrInvalidDocument),
		errors.Is(err, service.ErrInvalidColor):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSessionClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, message string, err error) {
	writeErrorStatus(w, message, err.Error(), statusFor(err))
}

func writeErrorStatus(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
