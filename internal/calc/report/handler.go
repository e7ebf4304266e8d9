package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ElectroHub/internal/project"
)

type Input struct {
	Meta
	Project project.Project `json:"project"`
}

type Handler struct {
	Engine *project.Engine
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	input := Input{Project: project.Default()}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := Build(&buf, input.Meta, input.Project, h.Engine.Compute(input.Project)); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", input.Project.Name+"_report.pdf"))
	w.Write(buf.Bytes())
}

func (h *Handler) chart(w http.ResponseWriter, r *http.Request, draw func(project.Project, project.Results) ([]byte, error)) {
	p, err := project.Decode(r.Body)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	png, err := draw(p, h.Engine.Compute(p))
	if errors.Is(err, ErrNoChartData) {
		http.Error(w, "No data to chart", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, "Chart generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) VoltageDrop(w http.ResponseWriter, r *http.Request) {
	h.chart(w, r, func(p project.Project, res project.Results) ([]byte, error) {
		return VoltageDropChart(res, p.Params.Targets.DropPct)
	})
}

func (h *Handler) Harmonics(w http.ResponseWriter, r *http.Request) {
	h.chart(w, r, func(_ project.Project, res project.Results) ([]byte, error) {
		return HarmonicsChart(res)
	})
}
