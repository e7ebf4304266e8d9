package demand

import (
	"fmt"
	"strings"

	"ElectroHub/internal/calc/issue"
	"ElectroHub/internal/calc/num"
)

// Scenario selects which demand factor of every load group is active.
type Scenario string

const (
	ScenarioA Scenario = "A"
	ScenarioB Scenario = "B"
)

func ParseScenario(s string) (Scenario, error) {
	switch Scenario(strings.ToUpper(strings.TrimSpace(s))) {
	case ScenarioA:
		return ScenarioA, nil
	case ScenarioB:
		return ScenarioB, nil
	}
	return "", fmt.Errorf("unknown scenario %q", s)
}

type LoadGroup struct {
	Name string  `json:"name"`
	Qty  float64 `json:"qty"`
	KW   float64 `json:"kw"`
	DFA  float64 `json:"df_a"`
	DFB  float64 `json:"df_b"`
	PF   float64 `json:"pf"`
}

// DemandFactor returns the factor active under s.
func (g LoadGroup) DemandFactor(s Scenario) float64 {
	if s == ScenarioB {
		return g.DFB
	}
	return g.DFA
}

type Input struct {
	Scenario Scenario    `json:"scenario"`
	Loads    []LoadGroup `json:"loads"`
}

type Row struct {
	Name         string  `json:"name"`
	DemandFactor float64 `json:"demand_factor"`
	PowerFactor  float64 `json:"pf"`
	KW           float64 `json:"kw"`
	KVA          float64 `json:"kva"`
	PFUndefined  bool    `json:"pf_undefined,omitempty"`
}

type Result struct {
	Scenario    Scenario      `json:"scenario"`
	Rows        []Row         `json:"rows"`
	TotalKW     float64       `json:"total_kw"`
	TotalKVA    float64       `json:"total_kva"`
	PowerFactor float64       `json:"pf_total"`
	Issues      []issue.Issue `json:"issues,omitempty"`
}

// Calculate scales every load group by its active demand factor and sums the
// groups into total active and apparent power.
//
// A group whose power factor is <= 0 has no defined apparent power; it is
// reported with PFUndefined set and left out of both totals.
func Calculate(in Input) Result {
	var issues issue.List
	scenario := in.Scenario
	if scenario != ScenarioA && scenario != ScenarioB {
		if scenario != "" {
			issues.Invalid("scenario", "unknown scenario %q, using %s", scenario, ScenarioA)
		}
		scenario = ScenarioA
	}

	res := Result{Scenario: scenario, Rows: make([]Row, 0, len(in.Loads))}
	for i, g := range in.Loads {
		df := g.DemandFactor(scenario)
		kw := num.Finite(g.Qty * g.KW * df)
		row := Row{Name: g.Name, DemandFactor: df, KW: kw}

		if g.PF > 1 {
			issues.Invalid(fmt.Sprintf("loads[%d].pf", i), "power factor %.3f clamped to 1", g.PF)
		}
		pf := num.CosPhi(g.PF)
		row.PowerFactor = pf
		if pf <= 0 {
			row.PFUndefined = true
			issues.Invalid(fmt.Sprintf("loads[%d].pf", i), "power factor %.3f is undefined, group %q excluded from totals", g.PF, g.Name)
			res.Rows = append(res.Rows, row)
			continue
		}
		row.KVA = kw / pf
		res.Rows = append(res.Rows, row)
		res.TotalKW += row.KW
		res.TotalKVA += row.KVA
	}

	res.PowerFactor = 1
	if res.TotalKVA > 0 {
		res.PowerFactor = res.TotalKW / res.TotalKVA
	}
	res.Issues = issues
	return res
}
