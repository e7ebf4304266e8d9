package demand

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"ElectroHub/internal/calc/issue"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSingleUnityGroup(t *testing.T) {
	res := Calculate(Input{
		Scenario: ScenarioA,
		Loads:    []LoadGroup{{Name: "one", Qty: 1, KW: 1000, DFA: 1, DFB: 1, PF: 1}},
	})
	assert.Equal(t, res.TotalKW, 1000.0)
	assert.Equal(t, res.TotalKVA, 1000.0)
	assert.Equal(t, res.PowerFactor, 1.0)
	assert.Assert(t, is.Len(res.Issues, 0))
}

func TestScenarioSelectsDemandFactor(t *testing.T) {
	loads := []LoadGroup{{Name: "DCFC", Qty: 4, KW: 150, DFA: 0.65, DFB: 0.25, PF: 0.98}}

	a := Calculate(Input{Scenario: ScenarioA, Loads: loads})
	assert.Assert(t, near(a.Rows[0].KW, 390, 1e-9))
	assert.Assert(t, near(a.Rows[0].KVA, 397.96, 0.01))

	b := Calculate(Input{Scenario: ScenarioB, Loads: loads})
	assert.Assert(t, near(b.Rows[0].KW, 150, 1e-9))
	assert.Equal(t, b.Rows[0].DemandFactor, 0.25)
}

func TestAggregatePowerFactor(t *testing.T) {
	res := Calculate(Input{Scenario: ScenarioA, Loads: []LoadGroup{
		{Name: "a", Qty: 1, KW: 100, DFA: 1, PF: 1},
		{Name: "b", Qty: 1, KW: 100, DFA: 1, PF: 0.5},
	}})
	assert.Assert(t, near(res.TotalKW, 200, 1e-9))
	assert.Assert(t, near(res.TotalKVA, 300, 1e-9))
	assert.Assert(t, near(res.PowerFactor, 200.0/300.0, 1e-12))
}

func TestEmptyLoadsPowerFactorIsOne(t *testing.T) {
	res := Calculate(Input{Scenario: ScenarioB})
	assert.Equal(t, res.PowerFactor, 1.0)
	assert.Equal(t, res.TotalKVA, 0.0)
}

func TestPowerFactorClamping(t *testing.T) {
	res := Calculate(Input{Scenario: ScenarioA, Loads: []LoadGroup{
		{Name: "over", Qty: 1, KW: 50, DFA: 1, PF: 1.2},
		{Name: "zero", Qty: 1, KW: 50, DFA: 1, PF: 0},
		{Name: "neg", Qty: 1, KW: 50, DFA: 1, PF: -0.1},
	}})

	assert.Equal(t, res.Rows[0].PowerFactor, 1.0)
	assert.Equal(t, res.Rows[0].KVA, 50.0)
	assert.Assert(t, res.Rows[1].PFUndefined)
	assert.Assert(t, res.Rows[2].PFUndefined)
	assert.Equal(t, res.Rows[1].KVA, 0.0)

	assert.Equal(t, res.TotalKW, 50.0)
	assert.Equal(t, res.TotalKVA, 50.0)
	assert.Equal(t, res.PowerFactor, 1.0)
	assert.Assert(t, is.Len(res.Issues, 3))
	assert.Assert(t, issue.List(res.Issues).Has(issue.InvalidInput))
}

func TestUnknownScenarioFallsBackToA(t *testing.T) {
	res := Calculate(Input{Scenario: "C", Loads: []LoadGroup{{Name: "x", Qty: 1, KW: 10, DFA: 0.5, DFB: 1, PF: 1}}})
	assert.Equal(t, res.Scenario, ScenarioA)
	assert.Equal(t, res.TotalKW, 5.0)
	assert.Assert(t, is.Len(res.Issues, 1))
}

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario(" b ")
	assert.NilError(t, err)
	assert.Equal(t, s, ScenarioB)

	_, err = ParseScenario("Z")
	assert.ErrorContains(t, err, "unknown scenario")
}

func TestHandlerCalc(t *testing.T) {
	body, err := json.Marshal(Input{Scenario: ScenarioA, Loads: []LoadGroup{{Name: "x", Qty: 2, KW: 10, DFA: 1, PF: 1}}})
	assert.NilError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/tools/demand/calc", bytes.NewReader(body))
	(&Handler{}).Calc(w, r)

	assert.Equal(t, w.Code, http.StatusOK)
	var res Result
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, res.TotalKW, 20.0)

	w = httptest.NewRecorder()
	r = httptest.NewRequest("POST", "/api/tools/demand/calc", bytes.NewBufferString("{"))
	(&Handler{}).Calc(w, r)
	assert.Equal(t, w.Code, http.StatusBadRequest)
}
