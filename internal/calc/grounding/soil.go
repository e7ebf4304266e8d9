package grounding

import (
	"fmt"
	"math"

	"ElectroHub/internal/calc/issue"
	"ElectroHub/internal/calc/num"

	"gonum.org/v1/gonum/stat"
)

// SoilReading is one Wenner-array measurement.
type SoilReading struct {
	SpacingM      float64 `json:"a_m"`
	ResistanceOhm float64 `json:"r_ohm"`
}

type SoilRow struct {
	SpacingM        float64 `json:"a_m"`
	ResistanceOhm   float64 `json:"r_ohm"`
	ResistivityOhmM float64 `json:"rho_ohm_m"`
	Used            bool    `json:"used"`
}

type SoilResult struct {
	Rows         []SoilRow     `json:"rows"`
	AverageOhmM  float64       `json:"rho_avg_ohm_m"`
	ReadingsUsed int           `json:"readings_used"`
	Issues       []issue.Issue `json:"issues,omitempty"`
}

// Soil converts Wenner readings to apparent resistivity ρ = 2π·a·R and averages
// the positive ones. Readings with R ≤ 0 are left out of the mean.
func Soil(readings []SoilReading) SoilResult {
	var issues issue.List
	res := SoilResult{Rows: make([]SoilRow, 0, len(readings))}

	var used []float64
	for i, r := range readings {
		row := SoilRow{SpacingM: num.Finite(r.SpacingM), ResistanceOhm: num.Finite(r.ResistanceOhm)}
		if row.ResistanceOhm > 0 {
			row.ResistivityOhmM = 2 * math.Pi * row.SpacingM * row.ResistanceOhm
			if row.ResistivityOhmM > 0 {
				row.Used = true
				used = append(used, row.ResistivityOhmM)
			} else {
				issues.Invalid(fmt.Sprintf("soil[%d].a_m", i), "probe spacing %.2f m must be positive", r.SpacingM)
				row.ResistivityOhmM = 0
			}
		}
		res.Rows = append(res.Rows, row)
	}

	res.ReadingsUsed = len(used)
	if res.ReadingsUsed > 0 {
		res.AverageOhmM = stat.Mean(used, nil)
	} else if len(readings) > 0 {
		issues.Quality("soil", "no reading with positive resistance, average resistivity unavailable")
	}
	res.Issues = issues
	return res
}
