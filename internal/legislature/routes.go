package legislature

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", MembersHandler)
	r.Get("/{id}", MemberHandler)

	return r
}
