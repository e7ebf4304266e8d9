package project

import (
	"encoding/json"
	"io"
	"net/http"
)

type Handler struct {
	Engine *Engine
}

// Response pairs the project as computed with its results.
type Response struct {
	Project Project `json:"project"`
	Results Results `json:"results"`
}

func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Default())
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	input, err := Decode(r.Body)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{Project: input, Results: h.Engine.Compute(input)})
}

// Decode reads a project from r. Omitted sections keep their reference
// values; see Project.UnmarshalJSON.
func Decode(r io.Reader) (Project, error) {
	var p Project
	err := json.NewDecoder(r).Decode(&p)
	return p, err
}
