package project

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"ElectroHub/internal/calc/demand"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestCompareScenarios(t *testing.T) {
	p := Default()
	p.Scenario = demand.ScenarioB
	cmp := NewEngine(nil).Compare(p)

	assert.Assert(t, is.Len(cmp.Scenarios, 2))
	assert.Equal(t, cmp.Scenarios[0].Scenario, demand.ScenarioA)
	assert.Equal(t, cmp.Scenarios[1].Results.Demand.Scenario, demand.ScenarioB)
	assert.Assert(t, near(cmp.Scenarios[0].Results.Demand.Rows[0].KW, 390, 1e-9))
	assert.Assert(t, near(cmp.Scenarios[1].Results.Demand.Rows[0].KW, 150, 1e-9))
	want := cmp.Scenarios[1].Results.Demand.TotalKVA - cmp.Scenarios[0].Results.Demand.TotalKVA
	assert.Assert(t, near(cmp.DeltaKVA, want, 1e-12))
	assert.Equal(t, cmp.Project.Scenario, demand.ScenarioB)
}

func TestCompareHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/project/compare", strings.NewReader(`{}`))
	(&Handler{Engine: NewEngine(nil)}).Compare(w, r)

	assert.Equal(t, w.Code, 200)
	var out Comparison
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Assert(t, is.Len(out.Scenarios, 2))
}
