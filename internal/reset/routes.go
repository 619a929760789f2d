package reset

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/create", RequestResetHandler)
	r.Post("/change/{token}", ChangePasswordHandler)

	return r
}
