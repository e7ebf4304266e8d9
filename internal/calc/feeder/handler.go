package feeder

import (
	"encoding/json"
	"net/http"

	"ElectroHub/internal/calc/catalog"
)

type Handler struct {
	Catalog *catalog.Catalog
}

type Request struct {
	Params  Params   `json:"params"`
	Feeders []Feeder `json:"feeders"`
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	for i := range req.Feeders {
		req.Feeders[i].Method = catalog.NormalizeMethod(req.Feeders[i].Method)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CalculateAll(h.Catalog, req.Feeders, req.Params))
}
