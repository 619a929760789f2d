package registration

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", RegisterHandler)
	r.Get("/confirmregistration/{token}", ConfirmHandler)

	return r
}
