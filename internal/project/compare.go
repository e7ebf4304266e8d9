package project

import (
	"encoding/json"
	"net/http"

	"ElectroHub/internal/calc/demand"
)

// ScenarioResult is one pass of the pipeline with the scenario forced.
type ScenarioResult struct {
	Scenario demand.Scenario `json:"scenario"`
	Results  Results         `json:"results"`
}

type Comparison struct {
	Project   Project          `json:"project"`
	Scenarios []ScenarioResult `json:"scenarios"`
	// DeltaKVA is the apparent-power difference B minus A.
	DeltaKVA float64 `json:"delta_kva"`
}

// Compare computes p once per demand scenario so both sets of demand
// factors can be reviewed side by side.
func (e *Engine) Compare(p Project) Comparison {
	out := Comparison{Project: p, Scenarios: make([]ScenarioResult, 0, 2)}
	for _, s := range []demand.Scenario{demand.ScenarioA, demand.ScenarioB} {
		q := p
		q.Scenario = s
		out.Scenarios = append(out.Scenarios, ScenarioResult{Scenario: s, Results: e.Compute(q)})
	}
	out.DeltaKVA = out.Scenarios[1].Results.Demand.TotalKVA - out.Scenarios[0].Results.Demand.TotalKVA
	return out
}

func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	input, err := Decode(r.Body)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Engine.Compare(input))
}
