package handler

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"forcemap/internal/codec"
	"forcemap/internal/service"
)

// SaveRequest names the snapshot to store
type SaveRequest struct {
	Name string `json:"name"`
}

// LibraryHandler handles the named snapshot library
type LibraryHandler struct {
	svc *service.LibraryService
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(svc *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{svc: svc}
}

// ListSnapshots describes every stored snapshot
func (h *LibraryHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	infos, err := h.svc.List(r.Context())
	if err != nil {
		log.Printf("Failed to list snapshots: %v", err)
		writeError(w, "Failed to list snapshots", err)
		return
	}

	writeJSON(w, infos, http.StatusOK)
}

// SaveSnapshot stores the current graph under a name
func (h *LibraryHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStatus(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	info, err := h.svc.Save(r.Context(), req.Name)
	if err != nil {
		log.Printf("Failed to save snapshot: %v", err)
		writeError(w, "Failed to save snapshot", err)
		return
	}

	writeJSON(w, info, http.StatusCreated)
}

// GetSnapshot returns a stored snapshot in wire format without loading it
func (h *LibraryHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, "Failed to get snapshot", err)
		return
	}

	var buf bytes.Buffer
	if err := codec.NewJSONCodec().Export(snap, &buf); err != nil {
		log.Printf("Failed to encode snapshot: %v", err)
		writeError(w, "Failed to encode snapshot", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

// LoadSnapshot replaces the session graph with a stored snapshot
func (h *LibraryHandler) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Load(r.Context(), r.PathValue("name"))
	if err != nil {
		log.Printf("Failed to load snapshot: %v", err)
		writeError(w, "Failed to load snapshot", err)
		return
	}

	writeJSON(w, report, http.StatusOK)
}

// DeleteSnapshot removes a stored snapshot
func (h *LibraryHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, "Failed to delete snapshot", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
