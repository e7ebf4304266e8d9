package sizing

import (
	"encoding/json"
	"net/http"

	"ElectroHub/internal/calc/catalog"
)

type Handler struct {
	Catalog *catalog.Catalog
}

type Response struct {
	Found      bool        `json:"found"`
	Suggestion *Suggestion `json:"suggestion"`
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	input.Method = catalog.NormalizeMethod(input.Method)
	s, ok := Search(h.Catalog, input)
	resp := Response{Found: ok}
	if ok {
		resp.Suggestion = &s
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
