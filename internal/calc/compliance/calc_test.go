package compliance

import (
	"testing"

	"gotest.tools/v3/assert"
)

var targets = Targets{PowerFactor: 0.95, THDPct: 5, DropPct: 3, GroundingOhm: 5}

func get(t *testing.T, r Result, rule Rule) Criterion {
	t.Helper()
	c, ok := r.Get(rule)
	assert.Assert(t, ok, "missing %s", rule)
	return c
}

func TestAllPass(t *testing.T) {
	res := Evaluate(Input{MaxDropPct: 2.4, PowerFactor: 0.97, THDPct: 3.1, GroundingOhm: 4.2, Targets: targets})
	assert.Assert(t, res.AllPass)
	assert.Equal(t, len(res.Criteria), 4)
}

func TestBoundaryValuesPass(t *testing.T) {
	res := Evaluate(Input{MaxDropPct: 3, PowerFactor: 0.95, THDPct: 5, GroundingOhm: 5, Targets: targets})
	assert.Assert(t, res.AllPass)
}

func TestZeroTHDPassesAsNoData(t *testing.T) {
	res := Evaluate(Input{THDPct: 0, THDNoData: true, Targets: Targets{THDPct: -1}})
	c := get(t, res, RuleTHD)
	assert.Assert(t, c.Pass)
	assert.Assert(t, c.NoData)

	c = get(t, Evaluate(Input{THDPct: 0, Targets: Targets{THDPct: -1}}), RuleTHD)
	assert.Assert(t, c.Pass)
	assert.Assert(t, !c.NoData)

	c = get(t, Evaluate(Input{THDPct: 6, Targets: targets}), RuleTHD)
	assert.Assert(t, !c.Pass)
	assert.Assert(t, !c.NoData)
}

func TestZeroGroundingFails(t *testing.T) {
	res := Evaluate(Input{GroundingOhm: 0, Targets: Targets{GroundingOhm: 1e9}})
	assert.Assert(t, !get(t, res, RuleGrounding).Pass)
	assert.Assert(t, !res.AllPass)
}

func TestFailures(t *testing.T) {
	res := Evaluate(Input{MaxDropPct: 4.1, PowerFactor: 0.9, THDPct: 1, GroundingOhm: 7, Targets: targets})
	assert.Assert(t, !get(t, res, RuleVoltageDrop).Pass)
	assert.Assert(t, !get(t, res, RulePowerFactor).Pass)
	assert.Assert(t, get(t, res, RuleTHD).Pass)
	assert.Assert(t, !get(t, res, RuleGrounding).Pass)
}

func TestNegativeDropIsZero(t *testing.T) {
	c := get(t, Evaluate(Input{MaxDropPct: -2, Targets: targets}), RuleVoltageDrop)
	assert.Equal(t, c.Value, 0.0)
	assert.Assert(t, c.Pass)
}
