package sizing

import (
	"math"

	"ElectroHub/internal/calc/catalog"
	"ElectroHub/internal/calc/num"

	"github.com/shopspring/decimal"
)

// VoltageDropPct is the three-phase voltage drop along a feeder, in percent of
// the line-to-line voltage. rPerKm and xPerKm are per conductor set.
func VoltageDropPct(currentA, rPerKm, xPerKm, pf, lengthKM, voltageLL float64) float64 {
	if voltageLL <= 0 {
		return 0
	}
	cos := num.CosPhi(pf)
	return num.Finite(num.Sqrt3 * currentA * (rPerKm*cos + xPerKm*num.SinPhi(cos)) * lengthKM / voltageLL * 100)
}

type Input struct {
	CurrentA      float64 `json:"current_a"`
	VoltageLL     float64 `json:"vll"`
	PowerFactor   float64 `json:"pf"`
	LengthKM      float64 `json:"length_km"`
	Material      string  `json:"material"`
	Temp          string  `json:"temp"`
	Method        string  `json:"method"`
	Size          string  `json:"size"`
	Parallel      int     `json:"parallel"`
	TargetDropPct float64 `json:"target_dv_pct"`
}

type Suggestion struct {
	Size           string  `json:"size"`
	VoltageDropPct float64 `json:"dv_pct"`
	Amps           float64 `json:"amps"`
	RPerKm         float64 `json:"r_ohm_km"`
	XPerKm         float64 `json:"x_ohm_km"`
	AmpacityOK     bool    `json:"ampacity_ok"`
	WithinTarget   bool    `json:"within_target"`
}

// Search walks the ampacity catalog in order and returns the first conductor
// whose ampacity covers the current and whose voltage drop is within target.
// When none qualifies it returns the candidate with the lowest drop. ok is
// false only when the catalog has no entries for the material.
func Search(cat *catalog.Catalog, in Input) (s Suggestion, ok bool) {
	current := num.Finite(in.CurrentA)
	voltage := in.VoltageLL
	if voltage <= 0 {
		voltage = 1
	}
	pf := in.PowerFactor
	if pf == 0 || math.IsNaN(pf) {
		pf = 1
	}
	pf = num.CosPhi(pf)
	parallel := float64(max(1, in.Parallel))

	list := cat.Ampacity(in.Material, in.Temp, in.Method)
	if len(list) == 0 {
		list = cat.AmpacityByMaterial(in.Material)
	}
	if len(list) == 0 {
		return Suggestion{}, false
	}

	ref, _ := cat.Impedance(in.Material, in.Temp, in.Size, in.Method)

	var best Suggestion
	found := false
	for _, c := range list {
		rx, hit := cat.Impedance(in.Material, in.Temp, c.Size, in.Method)
		if !hit {
			rx = ref
		}
		rkm := rx.RPerKm / parallel
		xkm := rx.XPerKm / parallel

		dv := VoltageDropPct(current, rkm, xkm, pf, in.LengthKM, voltage)
		cand := Suggestion{
			Size:           c.Size,
			VoltageDropPct: round3(dv),
			Amps:           c.Amps,
			RPerKm:         rkm,
			XPerKm:         xkm,
			AmpacityOK:     c.Amps*parallel >= current,
			WithinTarget:   dv <= in.TargetDropPct,
		}

		if cand.WithinTarget && cand.AmpacityOK {
			return cand, true
		}
		if !found || cand.VoltageDropPct < best.VoltageDropPct {
			best = cand
			found = true
		}
	}
	return best, true
}

func round3(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return f
}
