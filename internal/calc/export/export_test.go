package export

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"ElectroHub/internal/calc/demand"
	"ElectroHub/internal/calc/importer"
	"ElectroHub/internal/project"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"
)

func sample() project.Project {
	p := project.Default()
	p.Loads = append(p.Loads, demand.LoadGroup{Name: `Lighting, "north"`, Qty: 3, KW: 1.1, DFA: 0.9, DFB: 0.7, PF: 0.93})
	p.Feeders[5].UseCatalog = false
	p.Feeders[5].RPerKm = 0.6123
	p.Feeders[5].XPerKm = 0.081
	p.Soil[1].ResistanceOhm = 9.7
	return p
}

func TestCSVRoundTripReproducesResults(t *testing.T) {
	p := sample()
	e := project.NewEngine(nil)
	before := e.Compute(p)

	var loads, feeders bytes.Buffer
	assert.NilError(t, LoadsCSV(&loads, p.Loads))
	assert.NilError(t, FeedersCSV(&feeders, p.Feeders))

	rows, err := importer.ReadCSV(&loads)
	assert.NilError(t, err)
	back := p
	back.Loads, err = importer.Loads(rows)
	assert.NilError(t, err)

	rows, err = importer.ReadCSV(&feeders)
	assert.NilError(t, err)
	back.Feeders, err = importer.Feeders(rows, p.Params.VoltageLL)
	assert.NilError(t, err)

	assert.DeepEqual(t, back.Loads, p.Loads)
	assert.DeepEqual(t, back.Feeders, p.Feeders)
	assert.DeepEqual(t, e.Compute(back), before)
}

func TestCSVQuoting(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, LoadsCSV(&buf, sample().Loads))
	assert.Assert(t, is.Contains(buf.String(), `"Lighting, ""north"""`))
	assert.Assert(t, strings.HasPrefix(buf.String(), "name,qty,kW,DF_A,DF_B,FP\n"))
}

func TestDemandAndFeederResultTables(t *testing.T) {
	res := project.NewEngine(nil).Compute(project.Default())

	var buf bytes.Buffer
	assert.NilError(t, DemandCSV(&buf, res.Demand))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(lines), 7)
	assert.Assert(t, strings.HasPrefix(lines[1], "DCFC_1..4,0.650,0.980,390.00,397.96,false"))
	assert.Assert(t, strings.HasPrefix(lines[6], "TOTAL,"))

	buf.Reset()
	assert.NilError(t, FeederResultsCSV(&buf, res.Feeders))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(lines), 7)
	assert.Assert(t, is.Contains(lines[1], "DCFC_Cluster_1"))
	assert.Assert(t, is.Contains(lines[1], ",catalog,"))
}

func TestJSONPayload(t *testing.T) {
	p := sample()
	res := project.NewEngine(nil).Compute(p)

	var buf bytes.Buffer
	assert.NilError(t, WriteJSON(&buf, NewPayload(p, res)))

	var back Payload
	assert.NilError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, back.Meta.Project, "ElectroHub")
	assert.Equal(t, back.Meta.Areas["grounding"], project.AreaGrounding)
	assert.DeepEqual(t, back.Project(), p)
	assert.DeepEqual(t, back.Results, res)
}

func TestWorkbook(t *testing.T) {
	p := project.Default()
	var buf bytes.Buffer
	assert.NilError(t, Workbook(&buf, p, project.NewEngine(nil).Compute(p)))

	f, err := excelize.OpenReader(&buf)
	assert.NilError(t, err)
	defer f.Close()
	assert.DeepEqual(t, f.GetSheetList(), []string{"Parameters", "Demand", "Feeders", "Harmonics", "Grounding", "Compliance"})

	rows, err := f.GetRows("Feeders")
	assert.NilError(t, err)
	assert.Equal(t, len(rows), 7)
	assert.Equal(t, rows[1][0], "DCFC_Cluster_1")
}

func TestExportHandler(t *testing.T) {
	h := &Handler{Engine: project.NewEngine(nil)}

	r := httptest.NewRequest("POST", "/api/project/export/demand.csv", strings.NewReader(`{}`))
	r = mux.SetURLVars(r, map[string]string{"format": "demand.csv"})
	w := httptest.NewRecorder()
	h.Export(w, r)
	assert.Equal(t, w.Code, 200)
	assert.Equal(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Assert(t, is.Contains(w.Header().Get("Content-Disposition"), "ElectroHub_Phase1_"))

	r = httptest.NewRequest("POST", "/api/project/export/pdf", strings.NewReader(`{}`))
	r = mux.SetURLVars(r, map[string]string{"format": "pdf"})
	w = httptest.NewRecorder()
	h.Export(w, r)
	assert.Equal(t, w.Code, 404)
}
