// Package httpapi serves the development introspection surface: machine
// statuses as JSON plus a Prometheus metrics endpoint.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sojourn-fsm/sojourn"
)

// Registry holds the latest published status per machine name. Machines
// publish from their own goroutine (typically from an update callback), so
// HTTP readers never touch live machine state.
type Registry struct {
	mu       sync.RWMutex
	statuses map[string]sojourn.Status
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{statuses: make(map[string]sojourn.Status)}
}

// Publish records the current status under name. First publication fixes
// the name's position in List output.
func (r *Registry) Publish(name string, st sojourn.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.statuses[name]; !seen {
		r.order = append(r.order, name)
	}
	r.statuses[name] = st
}

// Remove forgets the machine.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.statuses[name]; !seen {
		return
	}
	delete(r.statuses, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the latest status for name.
func (r *Registry) Get(name string) (sojourn.Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.statuses[name]
	return st, ok
}

// List returns all statuses in publication order.
func (r *Registry) List() []machineStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]machineStatus, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, machineStatus{Name: name, Status: r.statuses[name]})
	}
	return out
}

type machineStatus struct {
	Name string `json:"name"`
	sojourn.Status
}

// NewHandler builds the debug router. gatherer may be nil to omit the
// metrics endpoint.
func NewHandler(reg *Registry, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Get("/machines", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, reg.List())
	})

	r.Get("/machines/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		st, ok := reg.Get(name)
		if !ok {
			http.Error(w, "machine not found", http.StatusNotFound)
			return
		}
		writeJSON(w, machineStatus{Name: name, Status: st})
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encoding error", http.StatusInternalServerError)
	}
}
