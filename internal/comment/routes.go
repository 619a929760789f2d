package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/create", CreateCommentHandler)
	r.Post("/edit", EditCommentHandler)
	r.Post("/delete", DeleteCommentHandler)

	return r
}
