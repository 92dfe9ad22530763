// Package api exposes the station finder, range estimator and energy log
// endpoints over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kilianp07/energycore/api/energy"
	"github.com/kilianp07/energycore/api/respond"
	"github.com/kilianp07/energycore/api/stations"
	"github.com/kilianp07/energycore/api/vehicles"
	"github.com/kilianp07/energycore/auth"
	"github.com/kilianp07/energycore/core/engine"
	"github.com/kilianp07/energycore/infra/logger"
)

// Deps are the collaborators of the router.
type Deps struct {
	Engine   *engine.Engine
	Verifier *auth.Verifier
	Metrics  http.Handler
	Log      logger.Logger
}

// NewRouter builds the HTTP routes.
func NewRouter(d Deps) *mux.Router {
	if d.Log == nil {
		d.Log = logger.NopLogger{}
	}
	r := mux.NewRouter()
	r.Use(loggingMiddleware(d.Log))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics).Methods(http.MethodGet)
	}

	a := r.PathPrefix("/api").Subrouter()
	a.Handle("/stations", stations.NewListHandler(d.Engine)).Methods(http.MethodGet)
	a.Handle("/stations", stations.NewCreateHandler(d.Engine)).Methods(http.MethodPost)
	a.Handle("/vehicle/remaining-range", vehicles.NewRangeHandler(d.Engine)).Methods(http.MethodPost)
	a.Handle("/vehicle/unit", vehicles.NewUnitHandler()).Methods(http.MethodGet)

	user := auth.Middleware(d.Verifier, respond.Err)
	a.Handle("/energy-logs", user(energy.NewListHandler(d.Engine))).Methods(http.MethodGet)
	a.Handle("/energy-logs", user(energy.NewCreateHandler(d.Engine))).Methods(http.MethodPost)
	a.Handle("/energy-summary", user(energy.NewSummaryHandler(d.Engine))).Methods(http.MethodGet)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	err    error
}

// RecordError keeps the cause of an internal error for the access log.
func (s *statusRecorder) RecordError(err error) { s.err = err }

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			if rec.err != nil {
				log.Errorf("%s %s failed: %v", r.Method, r.URL.Path, rec.err)
			}
			log.Debugw("http request", map[string]any{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			})
		})
	}
}
