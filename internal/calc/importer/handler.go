package importer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"ElectroHub/internal/calc/demand"
	"ElectroHub/internal/calc/feeder"
)

const maxUpload = 8 << 20

type Handler struct {
	// DefaultVoltage fills feeder rows without a VLL value unless the
	// request carries a "vll" form field.
	DefaultVoltage float64
}

type LoadsResult struct {
	Count int                `json:"count"`
	Loads []demand.LoadGroup `json:"loads"`
}

type FeedersResult struct {
	Count   int             `json:"count"`
	Feeders []feeder.Feeder `json:"feeders"`
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([][]string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	rows, err := ReadRows(file, header.Filename)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return nil, false
	}
	return rows, true
}

func writeImportError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrEmpty) {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusUnprocessableEntity)
}

func (h *Handler) Loads(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	loads, err := Loads(rows)
	if err != nil {
		writeImportError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoadsResult{Count: len(loads), Loads: loads})
}

func (h *Handler) Feeders(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	vll := h.DefaultVoltage
	if v, err := strconv.ParseFloat(r.FormValue("vll"), 64); err == nil && v > 0 {
		vll = v
	}
	feeders, err := Feeders(rows, vll)
	if err != nil {
		writeImportError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(FeedersResult{Count: len(feeders), Feeders: feeders})
}
