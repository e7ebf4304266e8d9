package feeder

import (
	"encoding/json"
	"fmt"
	"math"

	"ElectroHub/internal/calc/catalog"
	"ElectroHub/internal/calc/issue"
	"ElectroHub/internal/calc/num"
	"ElectroHub/internal/calc/sizing"
)

// zFloor replaces an exactly-zero loop impedance in the end-of-line fault calculation.
const zFloor = 1e-9

type Feeder struct {
	Name       string  `json:"name"`
	Area       string  `json:"area"`
	PowerKW    float64 `json:"p_kw"`
	PF         float64 `json:"pf"`
	VoltageLL  float64 `json:"vll"`
	LengthM    float64 `json:"l_m"`
	Material   string  `json:"material"`
	Temp       string  `json:"temp"`
	Size       string  `json:"size"`
	Method     string  `json:"method"`
	Parallel   int     `json:"parallel"`
	RPerKm     float64 `json:"r_ohm_km"`
	XPerKm     float64 `json:"x_ohm_km"`
	UseCatalog bool    `json:"use_catalog"`
}

// UnmarshalJSON defaults an omitted pf to 1, as the importer does for a
// blank FP cell. An explicit 0 is kept and reported as undefined.
func (f *Feeder) UnmarshalJSON(data []byte) error {
	type plain Feeder
	v := plain{PF: 1}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Feeder(v)
	return nil
}

// Sets is the number of parallel conductor sets, never below one.
func (f Feeder) Sets() int {
	return max(1, f.Parallel)
}

type ImpedanceSource string

const (
	SourceCatalog ImpedanceSource = "catalog"
	SourceManual  ImpedanceSource = "manual"
	SourceMissing ImpedanceSource = "missing"
)

// Impedance is the effective per-km resistance and reactance of a feeder.
type Impedance struct {
	RPerKm float64         `json:"r_ohm_km"`
	XPerKm float64         `json:"x_ohm_km"`
	Source ImpedanceSource `json:"source"`
}

// ResolveImpedance picks the per-km R/X used for every downstream formula of
// a feeder. Catalog values are divided by the parallel set count; manual
// values are taken as entered.
func ResolveImpedance(cat *catalog.Catalog, f Feeder) Impedance {
	if !f.UseCatalog {
		return Impedance{RPerKm: f.RPerKm, XPerKm: f.XPerKm, Source: SourceManual}
	}
	e, ok := cat.Impedance(f.Material, f.Temp, f.Size, f.Method)
	if !ok {
		return Impedance{Source: SourceMissing}
	}
	sets := float64(f.Sets())
	return Impedance{RPerKm: e.RPerKm / sets, XPerKm: e.XPerKm / sets, Source: SourceCatalog}
}

// Params carries the project-wide values a feeder calculation depends on.
type Params struct {
	DefaultVoltage float64 `json:"vll"`
	OriginIscA     float64 `json:"icc_origin_a"`
	TargetDropPct  float64 `json:"target_dv_pct"`
}

type Result struct {
	Name           string             `json:"name"`
	Area           string             `json:"area"`
	PowerKW        float64            `json:"p_kw"`
	PowerFactor    float64            `json:"pf"`
	VoltageLL      float64            `json:"vll"`
	LengthKM       float64            `json:"length_km"`
	Size           string             `json:"size"`
	Parallel       int                `json:"parallel"`
	CurrentA       float64            `json:"i_a"`
	Impedance      Impedance          `json:"impedance"`
	VoltageDropPct float64            `json:"dv_pct"`
	LineOhm        float64            `json:"z_line_ohm"`
	SourceOhm      float64            `json:"z_source_ohm"`
	IscEndA        float64            `json:"icc_end_a"`
	DropExceeded   bool               `json:"warn_dv"`
	Suggestion     *sizing.Suggestion `json:"suggestion"`
	Issues         []issue.Issue      `json:"issues,omitempty"`
}

// Calculate derives current, voltage drop and end-of-line short-circuit
// current for one feeder, and attaches an advisory conductor suggestion.
func Calculate(cat *catalog.Catalog, f Feeder, p Params) Result {
	var issues issue.List
	res := Result{
		Name:     f.Name,
		Area:     f.Area,
		PowerKW:  f.PowerKW,
		Size:     f.Size,
		Parallel: f.Sets(),
		LengthKM: f.LengthM / 1000,
	}

	voltage := num.Or(f.VoltageLL, p.DefaultVoltage)
	if voltage <= 0 {
		issues.Invalid("vll", "no positive line-to-line voltage for feeder %q", f.Name)
		res.Issues = issues
		return res
	}
	res.VoltageLL = voltage

	if f.PF > 1 {
		issues.Invalid("pf", "power factor %.3f clamped to 1", f.PF)
	}
	pf := num.CosPhi(f.PF)
	res.PowerFactor = pf
	if pf > 0 {
		res.CurrentA = num.Finite(f.PowerKW * 1000 / (num.Sqrt3 * voltage * pf))
	} else {
		issues.Invalid("pf", "power factor %.3f is undefined, current not computed", f.PF)
	}

	z := ResolveImpedance(cat, f)
	if z.Source == SourceMissing {
		issues.Quality("impedance", "no catalog R/X for %s %s %s %s, using zero", f.Material, f.Temp, f.Size, f.Method)
	}
	res.Impedance = z

	res.VoltageDropPct = sizing.VoltageDropPct(res.CurrentA, z.RPerKm, z.XPerKm, pf, res.LengthKM, voltage)
	res.DropExceeded = res.VoltageDropPct > p.TargetDropPct
	res.LineOhm = math.Hypot(z.RPerKm*res.LengthKM, z.XPerKm*res.LengthKM)

	if p.OriginIscA > 0 {
		res.SourceOhm = voltage / (num.Sqrt3 * p.OriginIscA)
		total := res.SourceOhm + res.LineOhm
		if total == 0 {
			total = zFloor
		}
		res.IscEndA = num.Finite(voltage / (num.Sqrt3 * total))
	} else {
		issues.Quality("icc_origin_a", "origin short-circuit current unavailable, end-of-line current not computed")
	}

	s, ok := sizing.Search(cat, sizing.Input{
		CurrentA:      res.CurrentA,
		VoltageLL:     voltage,
		PowerFactor:   pf,
		LengthKM:      res.LengthKM,
		Material:      f.Material,
		Temp:          f.Temp,
		Method:        f.Method,
		Size:          f.Size,
		Parallel:      f.Sets(),
		TargetDropPct: p.TargetDropPct,
	})
	if ok {
		res.Suggestion = &s
	} else {
		issues.NoSuggestion("material", "no catalog conductors for material %q", f.Material)
	}

	res.Issues = issues
	return res
}

// CalculateAll evaluates every feeder independently; a bad row never stops
// its siblings.
func CalculateAll(cat *catalog.Catalog, feeders []Feeder, p Params) []Result {
	out := make([]Result, 0, len(feeders))
	for i, f := range feeders {
		r := Calculate(cat, f, p)
		for j := range r.Issues {
			r.Issues[j].Field = fmt.Sprintf("feeders[%d].%s", i, r.Issues[j].Field)
		}
		out = append(out, r)
	}
	return out
}

// MaxDropPct is the worst voltage drop across results, never below zero.
func MaxDropPct(results []Result) float64 {
	worst := 0.0
	for _, r := range results {
		worst = math.Max(worst, r.VoltageDropPct)
	}
	return worst
}
