// Package report renders a computed project as a PDF document.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"ElectroHub/internal/calc/compliance"
	"ElectroHub/internal/calc/num"
	"ElectroHub/internal/project"

	"github.com/phpdave11/gofpdf"
)

type Meta struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Notes  string `json:"notes"`
}

const disclaimer = "Reference tables are placeholders. For an official deliverable validate R/X against the " +
	"applicable wiring standard, soil resistivity by field measurement (IEEE 81), and THD/PF at the point " +
	"of common coupling against the project criteria."

type doc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (d *doc) heading(text string, area project.Area) {
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.CellFormat(120, 8, d.tr(text), "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "I", 8)
	d.pdf.CellFormat(0, 8, d.tr(string(area)), "", 1, "R", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 9)
}

func (d *doc) line(format string, args ...any) {
	d.pdf.CellFormat(0, 5, d.tr(fmt.Sprintf(format, args...)), "", 1, "L", false, 0, "")
}

func (d *doc) table(header []string, widths []float64, rows [][]string) {
	d.pdf.SetFont("Helvetica", "B", 8)
	d.pdf.SetFillColor(243, 244, 246)
	for i, h := range header {
		d.pdf.CellFormat(widths[i], 6, d.tr(h), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		for i, c := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			d.pdf.CellFormat(widths[i], 5, d.tr(c), "1", 0, align, false, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

func (d *doc) image(name string, png []byte) {
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	d.pdf.ImageOptions(name, d.pdf.GetX(), d.pdf.GetY(), 170, 0, true, opts, 0, "")
}

func (d *doc) chart(name string, png []byte, err error) error {
	if errors.Is(err, ErrNoChartData) {
		return nil
	}
	if err != nil {
		return err
	}
	d.image(name, png)
	return nil
}

// Build writes the full calculation report.
func Build(w io.Writer, meta Meta, p project.Project, r project.Results) error {
	if meta.Title == "" {
		meta.Title = fmt.Sprintf("%s: Phase %d calculation report", p.Name, p.Phase)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	d := &doc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, d.tr(meta.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	d.line("Project: %s", p.Name)
	if meta.Author != "" {
		d.line("Author: %s", meta.Author)
	}
	d.line("Date: %s", time.Now().Format("2006-01-02 15:04"))
	d.line("Scenario: %s", r.Demand.Scenario)

	scc := "not supplied (infinite bus)"
	if p.Params.SourceSccKVA > 0 {
		scc = num.Fixed(p.Params.SourceSccKVA, 0) + " kVA"
	}
	d.line("VLL %s V | reserve %s %% | Z %s %% | Scc %s | V1 %s V",
		num.Fixed(p.Params.VoltageLL, 0), num.Fixed(p.Params.ReservePct, 0),
		num.Fixed(p.Params.ImpedancePct, 2), scc, num.Fixed(p.Params.PhaseNeutralV, 0))

	d.heading("Loads and demand", project.AreaLoads)
	demandRows := make([][]string, 0, len(r.Demand.Rows)+1)
	for _, row := range r.Demand.Rows {
		kva := num.Fixed(row.KVA, 2)
		if row.PFUndefined {
			kva = "n/a"
		}
		demandRows = append(demandRows, []string{row.Name, num.Fixed(row.DemandFactor, 2), num.Fixed(row.PowerFactor, 2), num.Fixed(row.KW, 2), kva})
	}
	demandRows = append(demandRows, []string{"Total", "", num.Fixed(r.Demand.PowerFactor, 3), num.Fixed(r.Demand.TotalKW, 2), num.Fixed(r.Demand.TotalKVA, 2)})
	d.table([]string{"Group", "DF", "PF", "kW", "kVA"}, []float64{60, 25, 25, 30, 30}, demandRows)

	d.heading("Transformer and source", project.AreaTransformer)
	t := r.Transformer
	d.line("Rating %s kVA | I_FL %s A", num.Fixed(t.RatingKVA, 1), num.Fixed(t.FullLoadA, 1))
	d.line("Isc transformer %s A | Isc origin %s A", num.Fixed(t.IscTransformerA, 0), num.Fixed(t.IscOriginA, 0))
	d.line("Z source %s Ohm | Z transformer %s Ohm", num.Fixed(t.SourceOhm, 5), num.Fixed(t.TransformerOhm, 5))
	if t.SourceAssumed {
		d.line("%s", t.Notes)
	}

	d.heading("Feeders, voltage drop and short circuit", project.AreaFeeders)
	feederRows := make([][]string, 0, len(r.Feeders))
	for _, f := range r.Feeders {
		sugg := "-"
		if f.Suggestion != nil {
			sugg = fmt.Sprintf("%s (%s %%)", f.Suggestion.Size, num.Fixed(f.Suggestion.VoltageDropPct, 2))
		}
		dv := num.Fixed(f.VoltageDropPct, 2)
		if f.DropExceeded {
			dv += " !"
		}
		feederRows = append(feederRows, []string{
			f.Name, num.Fixed(f.VoltageLL, 0), num.Fixed(f.CurrentA, 1),
			fmt.Sprintf("%s x%d", f.Size, f.Parallel),
			num.Fixed(f.Impedance.RPerKm, 3), num.Fixed(f.Impedance.XPerKm, 3),
			dv, num.Fixed(f.IscEndA, 0), sugg,
		})
	}
	d.table([]string{"Feeder", "V", "I [A]", "Conductor", "R/km", "X/km", "dV %", "Icc end", "Suggested"},
		[]float64{32, 12, 16, 28, 14, 14, 16, 18, 36}, feederRows)
	pdf.Ln(2)
	png, err := VoltageDropChart(r, p.Params.Targets.DropPct)
	if err := d.chart("dv", png, err); err != nil {
		return err
	}

	d.heading("Power quality: harmonics", project.AreaHarmonics)
	if r.Harmonics.NoData {
		d.line("No harmonic measurements entered.")
	} else {
		harmRows := make([][]string, 0, len(r.Harmonics.Rows))
		for _, h := range r.Harmonics.Rows {
			harmRows = append(harmRows, []string{strconv.Itoa(h.Order), num.Fixed(h.ZOhm, 4), num.Fixed(h.IA, 2), num.Fixed(h.VoltageV, 3)})
		}
		d.table([]string{"h", "Zth [Ohm]", "Ih [A]", "Vh [V]"}, []float64{20, 30, 30, 30}, harmRows)
		d.line("THD_V = %s %%", num.Fixed(r.Harmonics.THDPct, 2))
		png, err := HarmonicsChart(r)
		if err := d.chart("harm", png, err); err != nil {
			return err
		}
	}

	d.heading("Grounding system", project.AreaGrounding)
	soilRows := make([][]string, 0, len(r.Soil.Rows))
	for _, s := range r.Soil.Rows {
		rho := "-"
		if s.Used {
			rho = num.Fixed(s.ResistivityOhmM, 1)
		}
		soilRows = append(soilRows, []string{num.Fixed(s.SpacingM, 1), num.Fixed(s.ResistanceOhm, 3), rho})
	}
	d.table([]string{"a [m]", "R [Ohm]", "rho [Ohm m]"}, []float64{30, 30, 35}, soilRows)
	g := r.Rods
	d.line("rho used %s Ohm m (%s) | n %d | d %s m | s %s m",
		num.Fixed(g.ResistivityOhmM, 1), g.Source, g.Count, num.Fixed(g.DiameterM, 3), num.Fixed(g.SpacingM, 2))
	d.line("R1 %s Ohm | k %s | Rg %s Ohm", num.Fixed(g.SingleRodOhm, 3), num.Fixed(g.CouplingK, 3), num.Fixed(g.TotalOhm, 3))

	d.heading("Compliance", project.AreaCompliance)
	for _, c := range r.Compliance.Criteria {
		status := "FAIL"
		pdf.SetFillColor(254, 226, 226)
		if c.Pass {
			status = "PASS"
			pdf.SetFillColor(209, 250, 229)
		}
		if c.NoData {
			status += " (no data)"
		}
		pdf.CellFormat(45, 7, d.tr(criterionLabel(c)), "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 7, num.Fixed(c.Value, 3), "1", 0, "R", true, 0, "")
		pdf.CellFormat(40, 7, status, "1", 1, "C", true, 0, "")
	}

	if issues := r.Issues(); len(issues) > 0 {
		d.heading("Calculation notes", "")
		pdf.SetFont("Helvetica", "", 8)
		for _, i := range issues {
			pdf.MultiCell(0, 4, d.tr(i.String()), "", "L", false)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, d.tr(disclaimer), "", "L", false)
	if meta.Notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, d.tr(meta.Notes), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func criterionLabel(c compliance.Criterion) string {
	target := num.Fixed(c.Target, 2)
	switch c.Rule {
	case compliance.RuleVoltageDrop:
		return "dV max <= " + target + " %"
	case compliance.RulePowerFactor:
		return "PF >= " + target
	case compliance.RuleTHD:
		return "THD_V <= " + target + " %"
	case compliance.RuleGrounding:
		return "Rg <= " + target + " Ohm"
	}
	return string(c.Rule)
}
