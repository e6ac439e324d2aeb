package metadata

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves data freshness reporting.
func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/status", StatusHandler)

	return r
}
