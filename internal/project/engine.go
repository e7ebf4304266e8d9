package project

import (
	"fmt"

	"ElectroHub/internal/calc/catalog"
	"ElectroHub/internal/calc/compliance"
	"ElectroHub/internal/calc/demand"
	"ElectroHub/internal/calc/feeder"
	"ElectroHub/internal/calc/grounding"
	"ElectroHub/internal/calc/harmonics"
	"ElectroHub/internal/calc/issue"
	"ElectroHub/internal/calc/transformer"
)

type Results struct {
	Demand      demand.Result        `json:"demand"`
	Transformer transformer.Result   `json:"transformer"`
	Feeders     []feeder.Result      `json:"feeders"`
	MaxDropPct  float64              `json:"dv_max_pct"`
	Harmonics   harmonics.Result     `json:"harmonics"`
	Soil        grounding.SoilResult `json:"soil"`
	Rods        grounding.RodResult  `json:"rods"`
	Compliance  compliance.Result    `json:"compliance"`
}

// Issues flattens the annotations of every stage, each prefixed with the
// stage that raised it.
func (r Results) Issues() []issue.Issue {
	var out []issue.Issue
	add := func(stage string, list []issue.Issue) {
		for _, i := range list {
			i.Field = fmt.Sprintf("%s.%s", stage, i.Field)
			out = append(out, i)
		}
	}
	add("demand", r.Demand.Issues)
	add("transformer", r.Transformer.Issues)
	for _, f := range r.Feeders {
		add("feeder", f.Issues)
	}
	add("harmonics", r.Harmonics.Issues)
	add("soil", r.Soil.Issues)
	add("rods", r.Rods.Issues)
	return out
}

// Engine runs the full calculation pipeline against one catalog.
type Engine struct {
	Catalog *catalog.Catalog
}

func NewEngine(cat *catalog.Catalog) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Engine{Catalog: cat}
}

// Compute derives every result from p. Stages run in dependency order:
// demand, transformer, feeders, then harmonics and grounding, and finally
// compliance over all of them. p is not modified.
func (e *Engine) Compute(p Project) Results {
	var res Results

	res.Demand = demand.Calculate(demand.Input{Scenario: p.Scenario, Loads: p.Loads})

	res.Transformer = transformer.Calculate(transformer.Input{
		ApparentKVA:  res.Demand.TotalKVA,
		ReservePct:   p.Params.ReservePct,
		VoltageLL:    p.Params.VoltageLL,
		ImpedancePct: p.Params.ImpedancePct,
		SourceSccKVA: p.Params.SourceSccKVA,
	})

	feeders := make([]feeder.Feeder, len(p.Feeders))
	for i, f := range p.Feeders {
		f.Method = catalog.NormalizeMethod(f.Method)
		feeders[i] = f
	}
	res.Feeders = feeder.CalculateAll(e.Catalog, feeders, feeder.Params{
		DefaultVoltage: p.Params.VoltageLL,
		OriginIscA:     res.Transformer.IscOriginA,
		TargetDropPct:  p.Params.Targets.DropPct,
	})
	res.MaxDropPct = feeder.MaxDropPct(res.Feeders)

	res.Harmonics = harmonics.Calculate(harmonics.Input{Samples: p.Harmonics, PhaseNeutralV: p.Params.PhaseNeutralV})

	res.Soil = grounding.Soil(p.Soil)
	res.Rods = grounding.Rods(p.Rods, res.Soil.AverageOhmM)

	res.Compliance = compliance.Evaluate(compliance.Input{
		MaxDropPct:   res.MaxDropPct,
		PowerFactor:  res.Demand.PowerFactor,
		THDPct:       res.Harmonics.THDPct,
		THDNoData:    res.Harmonics.NoData,
		GroundingOhm: res.Rods.TotalOhm,
		Targets:      p.Params.Targets,
	})
	return res
}
