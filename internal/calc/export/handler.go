package export

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"ElectroHub/internal/project"

	"github.com/gorilla/mux"
)

type Handler struct {
	Engine *project.Engine
}

var contentTypes = map[string]string{
	"json":               "application/json",
	"xlsx":               "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"loads.csv":          "text/csv",
	"feeders.csv":        "text/csv",
	"demand.csv":         "text/csv",
	"feeder-results.csv": "text/csv",
}

// Write renders p in the given format.
func Write(buf *bytes.Buffer, format string, p project.Project, r project.Results) error {
	switch format {
	case "json":
		return WriteJSON(buf, NewPayload(p, r))
	case "xlsx":
		return Workbook(buf, p, r)
	case "loads.csv":
		return LoadsCSV(buf, p.Loads)
	case "feeders.csv":
		return FeedersCSV(buf, p.Feeders)
	case "demand.csv":
		return DemandCSV(buf, r.Demand)
	case "feeder-results.csv":
		return FeederResultsCSV(buf, r.Feeders)
	}
	return fmt.Errorf("unknown export format %q", format)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]
	ct, ok := contentTypes[format]
	if !ok {
		http.Error(w, "Unknown export format", http.StatusNotFound)
		return
	}
	p, err := project.Decode(r.Body)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := Write(&buf, format, p, h.Engine.Compute(p)); err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	name := fmt.Sprintf("%s_Phase%d_%d.%s", p.Name, p.Phase, time.Now().UnixMilli(), format)
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(buf.Bytes())
}
