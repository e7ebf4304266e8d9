// Package export serialises a computed project as a JSON trace, CSV tables or
// an XLSX workbook.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"ElectroHub/internal/calc/compliance"
	"ElectroHub/internal/calc/demand"
	"ElectroHub/internal/calc/feeder"
	"ElectroHub/internal/calc/grounding"
	"ElectroHub/internal/calc/harmonics"
	"ElectroHub/internal/calc/importer"
	"ElectroHub/internal/calc/num"
	"ElectroHub/internal/project"
)

type Meta struct {
	Project string                  `json:"project"`
	Phase   int                     `json:"phase"`
	Areas   map[string]project.Area `json:"areas"`
}

type Datasets struct {
	Loads     []demand.LoadGroup      `json:"loads"`
	Feeders   []feeder.Feeder         `json:"feeders"`
	Harmonics []harmonics.Sample      `json:"harmonics"`
	Soil      []grounding.SoilReading `json:"soil"`
	Rods      grounding.RodDesign     `json:"rods"`
}

// Payload is the full trace of one calculation: the inputs as entered and
// every derived result.
type Payload struct {
	Meta     Meta            `json:"meta"`
	Scenario demand.Scenario `json:"scenario"`
	Params   project.Params  `json:"params"`
	Datasets Datasets        `json:"datasets"`
	Results  project.Results `json:"results"`
}

func NewPayload(p project.Project, r project.Results) Payload {
	return Payload{
		Meta:     Meta{Project: p.Name, Phase: p.Phase, Areas: project.Areas()},
		Scenario: p.Scenario,
		Params:   p.Params,
		Datasets: Datasets{
			Loads:     p.Loads,
			Feeders:   p.Feeders,
			Harmonics: p.Harmonics,
			Soil:      p.Soil,
			Rods:      p.Rods,
		},
		Results: r,
	}
}

// Project rebuilds the inputs carried by the payload.
func (p Payload) Project() project.Project {
	return project.Project{
		Name:      p.Meta.Project,
		Phase:     p.Meta.Phase,
		Params:    p.Params,
		Scenario:  p.Scenario,
		Loads:     p.Datasets.Loads,
		Feeders:   p.Datasets.Feeders,
		Harmonics: p.Datasets.Harmonics,
		Soil:      p.Datasets.Soil,
		Rods:      p.Datasets.Rods,
	}
}

func WriteJSON(w io.Writer, p Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return nil
}

// raw formats an input value so that it parses back to the same float64.
func raw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// optional leaves zero values blank, matching how the importer reads them.
func optional(v float64) string {
	if v == 0 {
		return ""
	}
	return raw(v)
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// LoadsCSV writes load groups in the importer's column layout.
func LoadsCSV(w io.Writer, loads []demand.LoadGroup) error {
	rows := make([][]string, 0, len(loads))
	for _, l := range loads {
		rows = append(rows, []string{l.Name, raw(l.Qty), raw(l.KW), raw(l.DFA), raw(l.DFB), raw(l.PF)})
	}
	return writeTable(w, importer.LoadColumns, rows)
}

// FeedersCSV writes feeders in the importer's column layout.
func FeedersCSV(w io.Writer, feeders []feeder.Feeder) error {
	rows := make([][]string, 0, len(feeders))
	for _, f := range feeders {
		rows = append(rows, []string{
			f.Name, f.Area, raw(f.PowerKW), raw(f.PF), raw(f.VoltageLL), raw(f.LengthM),
			f.Material, f.Temp, f.Size, f.Method, strconv.Itoa(f.Parallel),
			optional(f.RPerKm), optional(f.XPerKm), strconv.FormatBool(f.UseCatalog),
		})
	}
	return writeTable(w, importer.FeederColumns, rows)
}

var demandHeader = []string{"name", "demand_factor", "pf", "kw", "kva", "pf_undefined"}

func demandRows(r demand.Result) [][]string {
	rows := make([][]string, 0, len(r.Rows)+1)
	for _, row := range r.Rows {
		rows = append(rows, []string{
			row.Name, num.Fixed(row.DemandFactor, 3), num.Fixed(row.PowerFactor, 3),
			num.Fixed(row.KW, 2), num.Fixed(row.KVA, 2), strconv.FormatBool(row.PFUndefined),
		})
	}
	rows = append(rows, []string{"TOTAL", "", num.Fixed(r.PowerFactor, 3), num.Fixed(r.TotalKW, 2), num.Fixed(r.TotalKVA, 2), ""})
	return rows
}

func DemandCSV(w io.Writer, r demand.Result) error {
	return writeTable(w, demandHeader, demandRows(r))
}

var feederResultHeader = []string{
	"name", "area", "vll", "i_a", "r_ohm_km", "x_ohm_km", "impedance_source",
	"dv_pct", "warn_dv", "z_line_ohm", "icc_end_a", "suggested_size", "suggested_dv_pct",
}

func feederResultRows(results []feeder.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, f := range results {
		size, dv := "", ""
		if f.Suggestion != nil {
			size, dv = f.Suggestion.Size, num.Fixed(f.Suggestion.VoltageDropPct, 3)
		}
		rows = append(rows, []string{
			f.Name, f.Area, num.Fixed(f.VoltageLL, 0), num.Fixed(f.CurrentA, 1),
			num.Fixed(f.Impedance.RPerKm, 3), num.Fixed(f.Impedance.XPerKm, 3), string(f.Impedance.Source),
			num.Fixed(f.VoltageDropPct, 2), strconv.FormatBool(f.DropExceeded),
			num.Fixed(f.LineOhm, 4), num.Fixed(f.IscEndA, 0), size, dv,
		})
	}
	return rows
}

func FeederResultsCSV(w io.Writer, results []feeder.Result) error {
	return writeTable(w, feederResultHeader, feederResultRows(results))
}

var complianceHeader = []string{"rule", "value", "target", "pass", "no_data"}

func complianceRows(r compliance.Result) [][]string {
	rows := make([][]string, 0, len(r.Criteria))
	for _, c := range r.Criteria {
		rows = append(rows, []string{
			string(c.Rule), num.Fixed(c.Value, 3), num.Fixed(c.Target, 3),
			strconv.FormatBool(c.Pass), strconv.FormatBool(c.NoData),
		})
	}
	return rows
}
