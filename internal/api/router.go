package api

import (
	"net/http"

	"collection-route-service/internal/api/handlers"
	"collection-route-service/internal/ports"
)

// NewRouter wires the HTTP surface: one planning endpoint plus health.
func NewRouter(provider ports.MatrixProvider, solver ports.Solver) http.Handler {
	mux := http.NewServeMux()

	plans := handlers.NewPlanHandler(provider, solver)
	mux.HandleFunc("/plans", requireMethod(http.MethodPost, plans.Create))
	mux.HandleFunc("/healthz", requireMethod(http.MethodGet, handlers.Health))

	return logRequests(mux)
}

// requireMethod ports the Go 1.22 "METHOD /path" ServeMux patterns to the
// Go 1.21 toolchain this module is built with: same handler, same paths,
// 405 for a mismatched method as the 1.22 mux would respond.
func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method && !(method == http.MethodGet && r.Method == http.MethodHead) {
			w.Header().Set("Allow", method)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}
