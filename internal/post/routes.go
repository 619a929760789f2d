package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/create", CreatePostHandler)
	r.Post("/edit", EditPostHandler)
	r.Post("/delete", DeletePostHandler)
	r.Post("/lock/{postID}", LockPostHandler)
	r.Post("/unlock/{postID}", UnlockPostHandler)

	return r
}
