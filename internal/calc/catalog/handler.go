package catalog

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	Catalog *Catalog
}

type Tables struct {
	Ampacity  []AmpacityEntry  `json:"ampacity"`
	Impedance []ImpedanceEntry `json:"impedance"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	c := h.Catalog
	if c == nil {
		c = Default()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Tables{Ampacity: c.AmpacityEntries(), Impedance: c.ImpedanceEntries()})
}
