package grounding

import (
	"encoding/json"
	"net/http"
)

type SoilRequest struct {
	Readings []SoilReading `json:"readings"`
}

// RodsRequest takes the Wenner readings alongside the design so the average
// resistivity is derived in the same call.
type RodsRequest struct {
	Design   RodDesign     `json:"design"`
	Readings []SoilReading `json:"readings"`
}

type RodsResponse struct {
	Soil SoilResult `json:"soil"`
	Rods RodResult  `json:"rods"`
}

type Handler struct{}

func (h *Handler) Soil(w http.ResponseWriter, r *http.Request) {
	var input SoilRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Soil(input.Readings))
}

func (h *Handler) Rods(w http.ResponseWriter, r *http.Request) {
	var input RodsRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	soil := Soil(input.Readings)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RodsResponse{Soil: soil, Rods: Rods(input.Design, soil.AverageOhmM)})
}
