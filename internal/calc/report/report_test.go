package report

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"ElectroHub/internal/calc/harmonics"
	"ElectroHub/internal/project"
	"gotest.tools/v3/assert"
)

var pngMagic = []byte("\x89PNG")

func measured() project.Project {
	p := project.Default()
	p.Harmonics[0] = harmonics.Sample{Order: 5, ZthOhm: 0.05, IhA: 40}
	p.Harmonics[1] = harmonics.Sample{Order: 7, ZthOhm: 0.07, IhA: 25}
	p.Soil[0].ResistanceOhm = 6.2
	p.Soil[1].ResistanceOhm = 3.4
	return p
}

func TestBuildPDF(t *testing.T) {
	p := measured()
	var buf bytes.Buffer
	err := Build(&buf, Meta{Author: "QA", Notes: "Zona norte – fase 1"}, p, project.NewEngine(nil).Compute(p))
	assert.NilError(t, err)
	assert.Assert(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestBuildPDFWithoutMeasurements(t *testing.T) {
	p := project.Default()
	p.Feeders = nil
	var buf bytes.Buffer
	assert.NilError(t, Build(&buf, Meta{}, p, project.NewEngine(nil).Compute(p)))
	assert.Assert(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestCharts(t *testing.T) {
	res := project.NewEngine(nil).Compute(measured())

	png, err := VoltageDropChart(res, 3)
	assert.NilError(t, err)
	assert.Assert(t, bytes.HasPrefix(png, pngMagic))

	png, err = HarmonicsChart(res)
	assert.NilError(t, err)
	assert.Assert(t, bytes.HasPrefix(png, pngMagic))

	_, err = HarmonicsChart(project.NewEngine(nil).Compute(project.Default()))
	assert.Assert(t, errors.Is(err, ErrNoChartData))

	_, err = VoltageDropChart(project.Results{}, 3)
	assert.Assert(t, errors.Is(err, ErrNoChartData))
}

func TestHandlers(t *testing.T) {
	h := &Handler{Engine: project.NewEngine(nil)}

	w := httptest.NewRecorder()
	h.Generate(w, httptest.NewRequest("POST", "/api/project/report/pdf", strings.NewReader(`{"title":"Hub"}`)))
	assert.Equal(t, w.Code, 200)
	assert.Equal(t, w.Header().Get("Content-Type"), "application/pdf")

	w = httptest.NewRecorder()
	h.VoltageDrop(w, httptest.NewRequest("POST", "/api/project/chart/voltage-drop.png", strings.NewReader(`{}`)))
	assert.Equal(t, w.Code, 200)
	assert.Assert(t, bytes.HasPrefix(w.Body.Bytes(), pngMagic))

	w = httptest.NewRecorder()
	h.Harmonics(w, httptest.NewRequest("POST", "/api/project/chart/harmonics.png", strings.NewReader(`{}`)))
	assert.Equal(t, w.Code, 422)
}
