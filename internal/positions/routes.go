package positions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves the issue catalog and per-issue position spectra.
func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", IssuesHandler)
	r.Get("/{slug}", IssueHandler)
	r.Get("/{slug}/positions", IssuePositionsHandler)

	return r
}

// EvidenceRoutes serves evidence lookups keyed by position id.
func EvidenceRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/{id}/evidence", PositionEvidenceHandler)

	return r
}
