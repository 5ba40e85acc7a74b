package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avezina/codeocr/internal/results"
)

// defaultListLimit is how many rows list endpoints return when the caller
// omits the ?limit= query parameter.
const defaultListLimit = 20

// ResultStore is the subset of the results store the API reads from.
type ResultStore interface {
	ListBatches(limit, offset int) ([]results.Batch, int, error)
	ListRuns(limit, offset int) ([]results.Run, int, error)
	GetRun(id string) (*results.Run, error)
}

// Deps holds the shared backends for all HTTP endpoints.
type Deps struct {
	Store ResultStore // nil disables the results endpoints
	Hub   *ProgressHub
}

// RegisterRoutes wires all HTTP endpoints to the shared mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	mux.Handle("/ws/progress", d.Hub)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("GET /api/batches", d.handleBatches)
	mux.HandleFunc("GET /api/runs", d.handleRuns)
	mux.HandleFunc("GET /api/runs/{id}", d.handleRun)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (d Deps) handleBatches(w http.ResponseWriter, r *http.Request) {
	if d.Store == nil {
		http.Error(w, "results store disabled", http.StatusNotFound)
		return
	}
	limit := queryInt(r, "limit", defaultListLimit)
	offset := queryInt(r, "offset", 0)
	batches, total, err := d.Store.ListBatches(limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"batches": batches, "total": total})
}

func (d Deps) handleRuns(w http.ResponseWriter, r *http.Request) {
	if d.Store == nil {
		http.Error(w, "results store disabled", http.StatusNotFound)
		return
	}
	limit := queryInt(r, "limit", defaultListLimit)
	offset := queryInt(r, "offset", 0)
	runs, total, err := d.Store.ListRuns(limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"runs": runs, "total": total})
}

func (d Deps) handleRun(w http.ResponseWriter, r *http.Request) {
	if d.Store == nil {
		http.Error(w, "results store disabled", http.StatusNotFound)
		return
	}
	run, err := d.Store.GetRun(r.PathValue("id"))
	if errors.Is(err, results.ErrRunNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, run)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
