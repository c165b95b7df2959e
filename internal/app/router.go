package app

import (
	"database/sql"
	"net/http"
	"time"

	"mcqbank/internal/app/apiresp"
	"mcqbank/internal/app/observability"
	"mcqbank/internal/candidate"
	"mcqbank/internal/delivery"
	"mcqbank/internal/fixedtest"
	"mcqbank/internal/question"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP surface over st. auditDB is only used for pool
// metrics and may be nil.
func NewRouter(cfg Config, st *State, auditDB *sql.DB) http.Handler {
	collector := observability.NewCollector(auditDB, st.Counts)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(collector.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apiresp.WriteError(w, r, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apiresp.WriteError(w, r, http.StatusMethodNotAllowed, "")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", collector.MetricsHandler)

	deliveryHandler := delivery.NewHandler(delivery.Sources{
		CandidateTests: st.CandidateTests,
		Candidates:     st.Candidates,
		Tests:          st.Tests,
		Questions:      st.Questions,
	})
	r.Get("/candidatetest/{id}", deliveryHandler.CandidateTest)

	questionHandler := question.NewHandler(st.Questions, st.Collections)
	testHandler := fixedtest.NewHandler(st.Tests, st.Questions)
	candidateHandler := candidate.NewHandler(st.Candidates, st.CandidateTests)

	limiter := NewIPRateLimiter(cfg.WriteRateLimitPerMinute, time.Minute)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(CSRFMiddleware(cfg.CSRFEnforced))
		api.Use(WriteRateLimitMiddleware(limiter))

		questionHandler.Routes(api)
		testHandler.Routes(api)
		candidateHandler.Routes(api)
	})

	return r
}
