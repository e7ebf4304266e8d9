package snapshot

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"ElectroHub/internal/project"
	"ElectroHub/internal/repo"

	"github.com/gorilla/mux"
)

type Handler struct {
	Repo repo.SnapshotRepository
}

type SaveRequest struct {
	Name    string           `json:"name"`
	Project *project.Project `json:"project"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Snapshot not found", http.StatusNotFound)
		return
	}
	log.Printf("[Snapshots] %s: %v", op, err)
	http.Error(w, "Storage error", http.StatusInternalServerError)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Project == nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	s, err := h.Repo.Save(r.Context(), req.Name, *req.Project)
	if err != nil {
		h.fail(w, "save", err)
		return
	}
	writeJSON(w, http.StatusCreated, s.SnapshotInfo)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repo.List(r.Context())
	if err != nil {
		h.fail(w, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Latest(r.Context())
	if err != nil {
		h.fail(w, "latest", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
