package export

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"ElectroHub/internal/calc/num"
	"ElectroHub/internal/project"

	"github.com/xuri/excelize/v2"
)

type sheet struct {
	name   string
	header []string
	rows   [][]string
}

func workbookSheets(p project.Project, r project.Results) []sheet {
	params := [][]string{
		{"project", p.Name},
		{"phase", strconv.Itoa(p.Phase)},
		{"scenario", string(r.Demand.Scenario)},
		{"vll", raw(p.Params.VoltageLL)},
		{"reserve_pct", raw(p.Params.ReservePct)},
		{"z_pct", raw(p.Params.ImpedancePct)},
		{"scc_pcc_kva", optional(p.Params.SourceSccKVA)},
		{"v1_phase_n", raw(p.Params.PhaseNeutralV)},
		{"s_kva", num.Fixed(r.Transformer.RatingKVA, 1)},
		{"i_fl_a", num.Fixed(r.Transformer.FullLoadA, 1)},
		{"icc_trafo_a", num.Fixed(r.Transformer.IscTransformerA, 0)},
		{"icc_origin_a", num.Fixed(r.Transformer.IscOriginA, 0)},
		{"dv_max_pct", num.Fixed(r.MaxDropPct, 2)},
	}

	harm := make([][]string, 0, len(r.Harmonics.Rows)+1)
	for _, h := range r.Harmonics.Rows {
		harm = append(harm, []string{strconv.Itoa(h.Order), num.Fixed(h.ZOhm, 4), num.Fixed(h.IA, 2), num.Fixed(h.VoltageV, 3)})
	}
	harm = append(harm, []string{"THD_V %", "", "", num.Fixed(r.Harmonics.THDPct, 2)})

	ground := make([][]string, 0, len(r.Soil.Rows)+4)
	for _, s := range r.Soil.Rows {
		ground = append(ground, []string{raw(s.SpacingM), raw(s.ResistanceOhm), num.Fixed(s.ResistivityOhmM, 1)})
	}
	ground = append(ground,
		[]string{"rho_avg", "", num.Fixed(r.Soil.AverageOhmM, 1)},
		[]string{"r1_ohm", "", num.Fixed(r.Rods.SingleRodOhm, 3)},
		[]string{"k", "", num.Fixed(r.Rods.CouplingK, 3)},
		[]string{"rg_ohm", "", num.Fixed(r.Rods.TotalOhm, 3)},
	)

	return []sheet{
		{"Parameters", []string{"parameter", "value"}, params},
		{"Demand", demandHeader, demandRows(r.Demand)},
		{"Feeders", feederResultHeader, feederResultRows(r.Feeders)},
		{"Harmonics", []string{"h", "zth_ohm", "ih_a", "vh_v"}, harm},
		{"Grounding", []string{"a_m", "r_ohm", "rho_ohm_m"}, ground},
		{"Compliance", complianceHeader, complianceRows(r.Compliance)},
	}
}

func setRow(f *excelize.File, name string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	out := make([]any, len(values))
	for i, v := range values {
		if n, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			out[i] = n
		} else {
			out[i] = v
		}
	}
	return f.SetSheetRow(name, cell, &out)
}

// Workbook writes one sheet per result section.
func Workbook(w io.Writer, p project.Project, r project.Results) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range workbookSheets(p, r) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("new sheet %s: %w", s.name, err)
		}
		if err := setRow(f, s.name, 1, s.header); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
		for j, row := range s.rows {
			if err := setRow(f, s.name, j+2, row); err != nil {
				return fmt.Errorf("sheet %s: %w", s.name, err)
			}
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
