package grounding

import (
	"math"

	"ElectroHub/internal/calc/issue"
	"ElectroHub/internal/calc/num"
)

const (
	minDiameterM = 0.004
	minSpacingM  = 0.5
)

// RodDesign describes a group of identical driven rods. Count is kept as a
// float so fractional input can be floored explicitly.
type RodDesign struct {
	ResistivityOverride float64 `json:"rho_override"`
	LengthM             float64 `json:"l_m"`
	DiameterMM          float64 `json:"d_mm"`
	Count               float64 `json:"n"`
	SpacingM            float64 `json:"s_m"`
	TargetOhm           float64 `json:"rg_target"`
}

type ResistivitySource string

const (
	ResistivityOverride ResistivitySource = "override"
	ResistivityMeasured ResistivitySource = "measured"
)

type RodResult struct {
	ResistivityOhmM float64           `json:"rho_ohm_m"`
	Source          ResistivitySource `json:"rho_source"`
	Count           int               `json:"n"`
	DiameterM       float64           `json:"d_m"`
	SpacingM        float64           `json:"s_m"`
	SingleRodOhm    float64           `json:"r1_ohm"`
	CouplingK       float64           `json:"k"`
	TotalOhm        float64           `json:"rg_ohm"`
	MeetsTarget     bool              `json:"meets_target"`
	Issues          []issue.Issue     `json:"issues,omitempty"`
}

// SingleRod is the Dwight approximation for one vertical rod of length l and
// diameter d (both metres) in soil of resistivity rho.
func SingleRod(rho, l, d float64) float64 {
	return rho / (2 * math.Pi * l) * (math.Log(8*l/d) - 1)
}

// Coupling is the mutual-coupling factor k = 1/(1+1.6·L/s), always in (0,1].
func Coupling(l, s float64) float64 {
	return 1 / (1 + 1.6*(l/s))
}

// Rods estimates the resistance of a rod group. The override resistivity is
// used when positive, otherwise avgRho from the soil stage.
func Rods(d RodDesign, avgRho float64) RodResult {
	var issues issue.List
	res := RodResult{
		Count:     int(math.Max(1, math.Floor(num.Finite(d.Count)))),
		DiameterM: math.Max(minDiameterM, num.Finite(d.DiameterMM)/1000),
		SpacingM:  math.Max(minSpacingM, num.Finite(d.SpacingM)),
	}

	switch {
	case d.ResistivityOverride > 0:
		res.ResistivityOhmM = d.ResistivityOverride
		res.Source = ResistivityOverride
	default:
		if d.ResistivityOverride < 0 {
			issues.Invalid("rho_override", "resistivity override %.1f ignored", d.ResistivityOverride)
		}
		res.ResistivityOhmM = num.Finite(avgRho)
		res.Source = ResistivityMeasured
	}

	l := num.Finite(d.LengthM)
	if l <= 0 {
		issues.Invalid("l_m", "rod length %.2f m must be positive", d.LengthM)
		res.Issues = issues
		return res
	}
	if res.ResistivityOhmM <= 0 {
		issues.Quality("rho", "no resistivity available, grounding resistance not computed")
		res.Issues = issues
		return res
	}

	r1 := SingleRod(res.ResistivityOhmM, l, res.DiameterM)
	if r1 <= 0 || math.IsNaN(r1) {
		issues.Invalid("l_m", "rod length %.3f m too short for diameter %.3f m", l, res.DiameterM)
		res.Issues = issues
		return res
	}
	res.SingleRodOhm = r1
	res.CouplingK = Coupling(l, res.SpacingM)
	res.TotalOhm = num.Finite(r1 / (float64(res.Count) * res.CouplingK))
	res.MeetsTarget = res.TotalOhm > 0 && res.TotalOhm <= d.TargetOhm
	res.Issues = issues
	return res
}
