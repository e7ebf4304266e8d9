// Package importer reads load groups and feeders from tabular files.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"ElectroHub/internal/calc/catalog"
	"ElectroHub/internal/calc/demand"
	"ElectroHub/internal/calc/feeder"

	"github.com/xuri/excelize/v2"
)

var (
	LoadColumns   = []string{"name", "qty", "kW", "DF_A", "DF_B", "FP"}
	FeederColumns = []string{"name", "area", "PkW", "FP", "VLL", "L_m", "material", "temp", "size", "method", "parallel", "R_ohm_km", "X_ohm_km", "useCatalog"}
)

var ErrEmpty = errors.New("no data rows")

// ReadRows reads a CSV or XLSX table, chosen by the file name extension.
func ReadRows(r io.Reader, name string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".csv", ".txt", "":
		return ReadCSV(r)
	}
	return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(name))
}

func ReadCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

// ReadXLSX returns the rows of the first sheet.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return rows, nil
}

// table gives access to data rows by header name.
type table struct {
	index map[string]int
	rows  [][]string
}

func newTable(rows [][]string, required []string) (*table, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	t := &table{index: make(map[string]int)}
	for i, h := range rows[0] {
		t.index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, c := range required {
		if _, ok := t.index[strings.ToLower(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	for _, row := range rows[1:] {
		if !blank(row) {
			t.rows = append(t.rows, row)
		}
	}
	if len(t.rows) == 0 {
		return nil, ErrEmpty
	}
	return t, nil
}

func (t *table) str(row []string, col string) string {
	i := t.index[strings.ToLower(col)]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// num parses a cell, returning def for empty or non-numeric values.
func (t *table) num(row []string, col string, def float64) float64 {
	v, err := strconv.ParseFloat(t.str(row, col), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func (t *table) or(row []string, col, def string) string {
	if v := t.str(row, col); v != "" {
		return v
	}
	return def
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func Loads(rows [][]string) ([]demand.LoadGroup, error) {
	t, err := newTable(rows, LoadColumns)
	if err != nil {
		return nil, err
	}
	out := make([]demand.LoadGroup, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, demand.LoadGroup{
			Name: t.str(row, "name"),
			Qty:  t.num(row, "qty", 1),
			KW:   t.num(row, "kW", 0),
			DFA:  t.num(row, "DF_A", 0),
			DFB:  t.num(row, "DF_B", 0),
			PF:   t.num(row, "FP", 1),
		})
	}
	return out, nil
}

// Feeders parses feeder rows. Missing voltages take defaultVLL; an empty
// R/X cell means no manual impedance.
func Feeders(rows [][]string, defaultVLL float64) ([]feeder.Feeder, error) {
	t, err := newTable(rows, FeederColumns)
	if err != nil {
		return nil, err
	}
	out := make([]feeder.Feeder, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, feeder.Feeder{
			Name:       t.str(row, "name"),
			Area:       t.str(row, "area"),
			PowerKW:    t.num(row, "PkW", 0),
			PF:         t.num(row, "FP", 1),
			VoltageLL:  t.num(row, "VLL", defaultVLL),
			LengthM:    t.num(row, "L_m", 0),
			Material:   t.or(row, "material", catalog.MaterialCopper),
			Temp:       t.or(row, "temp", catalog.Temp75C),
			Size:       t.or(row, "size", "#3 AWG"),
			Method:     catalog.NormalizeMethod(t.or(row, "method", catalog.MethodConduit)),
			Parallel:   int(t.num(row, "parallel", 1)),
			RPerKm:     t.num(row, "R_ohm_km", 0),
			XPerKm:     t.num(row, "X_ohm_km", 0),
			UseCatalog: !strings.EqualFold(t.str(row, "useCatalog"), "false"),
		})
	}
	return out, nil
}
