package project

import (
	"encoding/json"
	"fmt"
	"slices"

	"ElectroHub/internal/calc/catalog"
	"ElectroHub/internal/calc/compliance"
	"ElectroHub/internal/calc/demand"
	"ElectroHub/internal/calc/feeder"
	"ElectroHub/internal/calc/grounding"
	"ElectroHub/internal/calc/harmonics"
)

// Params are the global values every stage of the pipeline reads.
type Params struct {
	VoltageLL     float64            `json:"vll"`
	ReservePct    float64            `json:"reserve_pct"`
	ImpedancePct  float64            `json:"z_pct"`
	SourceSccKVA  float64            `json:"scc_pcc_kva"`
	PhaseNeutralV float64            `json:"v1_phase_n"`
	Targets       compliance.Targets `json:"targets"`
}

type Project struct {
	Name      string                  `json:"project"`
	Phase     int                     `json:"phase"`
	Params    Params                  `json:"params"`
	Scenario  demand.Scenario         `json:"scenario"`
	Loads     []demand.LoadGroup      `json:"loads"`
	Feeders   []feeder.Feeder         `json:"feeders"`
	Harmonics []harmonics.Sample      `json:"harmonics"`
	Soil      []grounding.SoilReading `json:"soil"`
	Rods      grounding.RodDesign     `json:"rods"`
}

// UnmarshalJSON starts from Default and overwrites every section present in
// data. Row sections (loads, feeders, harmonics, soil) are replaced as a
// whole so omitted row fields decode to their zero value. The params and
// rods objects are merged field by field over their defaults.
func (p *Project) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Default()
	sections := map[string]func(json.RawMessage) error{
		"project":   merge(&out.Name),
		"phase":     merge(&out.Phase),
		"params":    merge(&out.Params),
		"scenario":  merge(&out.Scenario),
		"loads":     replace(&out.Loads),
		"feeders":   replace(&out.Feeders),
		"harmonics": replace(&out.Harmonics),
		"soil":      replace(&out.Soil),
		"rods":      merge(&out.Rods),
	}
	for key, decode := range sections {
		if msg, ok := raw[key]; ok {
			if err := decode(msg); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}
	*p = out
	return nil
}

func merge[T any](dst *T) func(json.RawMessage) error {
	return func(msg json.RawMessage) error {
		return json.Unmarshal(msg, dst)
	}
}

func replace[T any](dst *[]T) func(json.RawMessage) error {
	return func(msg json.RawMessage) error {
		var rows []T
		if err := json.Unmarshal(msg, &rows); err != nil {
			return err
		}
		*dst = rows
		return nil
	}
}

// Clone returns a copy of p that shares no row slices with it.
func (p Project) Clone() Project {
	p.Loads = slices.Clone(p.Loads)
	p.Feeders = slices.Clone(p.Feeders)
	p.Harmonics = slices.Clone(p.Harmonics)
	p.Soil = slices.Clone(p.Soil)
	return p
}

// Area tags a result section with the engineering discipline it belongs to.
type Area string

const (
	AreaLoads       Area = "Loads & Demand"
	AreaTransformer Area = "Transformer & Substation (MV/LV)"
	AreaFeeders     Area = "Feeders & Voltage Drop"
	AreaShort       Area = "Short Circuit & Coordination"
	AreaHarmonics   Area = "Power Quality: Harmonics"
	AreaGrounding   Area = "Grounding System"
	AreaCompliance  Area = "Grid Code Compliance"
)

// Areas maps the section keys used in exports to their labels.
func Areas() map[string]Area {
	return map[string]Area{
		"loads":       AreaLoads,
		"transformer": AreaTransformer,
		"feeders":     AreaFeeders,
		"short":       AreaShort,
		"harmonics":   AreaHarmonics,
		"grounding":   AreaGrounding,
		"compliance":  AreaCompliance,
	}
}

func DefaultParams() Params {
	return Params{
		VoltageLL:     480,
		ReservePct:    25,
		ImpedancePct:  6,
		PhaseNeutralV: 277,
		Targets:       compliance.Targets{PowerFactor: 0.95, THDPct: 5, DropPct: 3, GroundingOhm: 5},
	}
}

// Default returns a fresh copy of the reference project: an EV charging hub
// with a hydrogen electrolysis plant on a 480 V board.
func Default() Project {
	p := DefaultParams()
	return Project{
		Name:     "ElectroHub",
		Phase:    1,
		Params:   p,
		Scenario: demand.ScenarioA,
		Loads: []demand.LoadGroup{
			{Name: "DCFC_1..4", Qty: 4, KW: 150, DFA: 0.65, PF: 0.98, DFB: 0.25},
			{Name: "AC_1..6", Qty: 6, KW: 22, DFA: 0.5, PF: 0.99, DFB: 0.25},
			{Name: "Electrolyzer", Qty: 1, KW: 600, DFA: 0.58, PF: 0.98, DFB: 1},
			{Name: "H2_Compression", Qty: 1, KW: 150, DFA: 0.2, PF: 0.95, DFB: 1},
			{Name: "Auxiliaries", Qty: 1, KW: 60, DFA: 0.8, PF: 0.9, DFB: 0.8},
		},
		Feeders: []feeder.Feeder{
			defaultFeeder("DCFC_Cluster_1", "EV hub: fast chargers (1-2)", 300, 0.98, 80, catalog.Temp75C, "3/0 AWG", catalog.MethodConduit, 1),
			defaultFeeder("DCFC_Cluster_2", "EV hub: fast chargers (3-4)", 300, 0.98, 80, catalog.Temp75C, "3/0 AWG", catalog.MethodConduit, 1),
			defaultFeeder("AC_6x22", "EV hub: AC (6 x 22 kW)", 132, 0.99, 60, catalog.Temp75C, "3/0 AWG", catalog.MethodConduit, 1),
			defaultFeeder("Electrolyzer", "H2 plant: electrolysis", 600, 0.98, 100, catalog.Temp90C, "500 kcmil", catalog.MethodTray, 2),
			defaultFeeder("H2_Compressor", "H2 plant: compression", 150, 0.95, 80, catalog.Temp75C, "3/0 AWG", catalog.MethodConduit, 1),
			defaultFeeder("Auxiliaries", "Auxiliary services", 60, 0.90, 50, catalog.Temp75C, "#3 AWG", catalog.MethodConduit, 1),
		},
		Harmonics: []harmonics.Sample{{Order: 5}, {Order: 7}, {Order: 11}, {Order: 13}},
		Soil: []grounding.SoilReading{
			{SpacingM: 1}, {SpacingM: 2}, {SpacingM: 4}, {SpacingM: 8}, {SpacingM: 16}, {SpacingM: 32},
		},
		Rods: grounding.RodDesign{LengthM: 2.4, DiameterMM: 16, Count: 8, SpacingM: 2.4, TargetOhm: p.Targets.GroundingOhm},
	}
}

func defaultFeeder(name, area string, kw, pf, lengthM float64, temp, size, method string, parallel int) feeder.Feeder {
	return feeder.Feeder{
		Name:       name,
		Area:       area,
		PowerKW:    kw,
		PF:         pf,
		VoltageLL:  480,
		LengthM:    lengthM,
		Material:   catalog.MaterialCopper,
		Temp:       temp,
		Size:       size,
		Method:     method,
		Parallel:   parallel,
		UseCatalog: true,
	}
}
