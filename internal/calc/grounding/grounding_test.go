package grounding

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http/httptest"
	"testing"

	"ElectroHub/internal/calc/issue"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestSoilExcludesNonPositiveReadings(t *testing.T) {
	res := Soil([]SoilReading{
		{SpacingM: 1, ResistanceOhm: 10},
		{SpacingM: 2, ResistanceOhm: 0},
		{SpacingM: 4, ResistanceOhm: 5},
		{SpacingM: 8, ResistanceOhm: -3},
	})
	assert.Assert(t, is.Len(res.Rows, 4))
	assert.Equal(t, res.ReadingsUsed, 2)
	assert.Assert(t, !res.Rows[1].Used)
	assert.Equal(t, res.Rows[1].ResistivityOhmM, 0.0)

	want := (2*math.Pi*1*10 + 2*math.Pi*4*5) / 2
	assert.Assert(t, math.Abs(res.AverageOhmM-want) < 1e-9)
}

func TestSoilWithoutReadings(t *testing.T) {
	res := Soil([]SoilReading{{SpacingM: 1}, {SpacingM: 2}})
	assert.Equal(t, res.AverageOhmM, 0.0)
	assert.Assert(t, issue.List(res.Issues).Has(issue.DataQuality))

	assert.Equal(t, Soil(nil).AverageOhmM, 0.0)
}

func TestDwightDecreasesWithLength(t *testing.T) {
	r24 := SingleRod(100, 2.4, 0.016)
	r30 := SingleRod(100, 3.0, 0.016)
	assert.Assert(t, r30 < r24, "R(3.0)=%.3f R(2.4)=%.3f", r30, r24)

	prev := math.Inf(1)
	for l := 1.0; l <= 10; l += 0.5 {
		r := SingleRod(100, l, 0.016)
		assert.Assert(t, r < prev)
		prev = r
	}
}

func TestRodGroup(t *testing.T) {
	d := RodDesign{LengthM: 2.4, DiameterMM: 16, Count: 8, SpacingM: 2.4, TargetOhm: 5}
	res := Rods(d, 30)

	r1 := 30 / (2 * math.Pi * 2.4) * (math.Log(8*2.4/0.016) - 1)
	k := 1 / (1 + 1.6)
	assert.Equal(t, res.Source, ResistivityMeasured)
	assert.Equal(t, res.Count, 8)
	assert.Assert(t, math.Abs(res.SingleRodOhm-r1) < 1e-9)
	assert.Assert(t, math.Abs(res.CouplingK-k) < 1e-12)
	assert.Assert(t, math.Abs(res.TotalOhm-r1/(8*k)) < 1e-9)
	assert.Assert(t, res.MeetsTarget)
}

func TestRodOverrideAndFloors(t *testing.T) {
	d := RodDesign{ResistivityOverride: 250, LengthM: 3, DiameterMM: 1, Count: 0.4, SpacingM: 0.1}
	res := Rods(d, 100)
	assert.Equal(t, res.Source, ResistivityOverride)
	assert.Equal(t, res.ResistivityOhmM, 250.0)
	assert.Equal(t, res.Count, 1)
	assert.Equal(t, res.DiameterM, minDiameterM)
	assert.Equal(t, res.SpacingM, minSpacingM)
	assert.Assert(t, res.CouplingK > 0 && res.CouplingK <= 1)

	d.Count = 3.9
	assert.Equal(t, Rods(d, 100).Count, 3)
}

func TestRodsWithoutResistivity(t *testing.T) {
	res := Rods(RodDesign{LengthM: 2.4, DiameterMM: 16, Count: 8, SpacingM: 2.4, TargetOhm: 5}, 0)
	assert.Equal(t, res.TotalOhm, 0.0)
	assert.Assert(t, !res.MeetsTarget)
	assert.Assert(t, issue.List(res.Issues).Has(issue.DataQuality))
}

func TestRodsNonPositiveLength(t *testing.T) {
	res := Rods(RodDesign{LengthM: 0, DiameterMM: 16, Count: 8, SpacingM: 2.4}, 100)
	assert.Equal(t, res.TotalOhm, 0.0)
	assert.Assert(t, issue.List(res.Issues).Has(issue.InvalidInput))
}

func TestRodsHandler(t *testing.T) {
	body, _ := json.Marshal(RodsRequest{
		Design:   RodDesign{LengthM: 2.4, DiameterMM: 16, Count: 8, SpacingM: 2.4, TargetOhm: 5},
		Readings: []SoilReading{{SpacingM: 2, ResistanceOhm: 8}},
	})
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/tools/grounding/rods", bytes.NewReader(body))
	(&Handler{}).Rods(w, r)

	var out RodsResponse
	assert.NilError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Assert(t, math.Abs(out.Soil.AverageOhmM-2*math.Pi*16) < 1e-9)
	assert.Assert(t, out.Rods.TotalOhm > 0)
}
