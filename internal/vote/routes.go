package vote

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/post", VotePostHandler)
	r.Post("/comment", VoteCommentHandler)

	return r
}
