package view

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/guilds", GuildsHandler)
	r.Get("/guild/{guildTag}", GuildHandler)
	r.Get("/guild/{guildTag}/posts", GuildPostsHandler)
	r.Get("/post/{postID}", PostHandler)
	r.Get("/post/{postID}/comments", PostCommentsHandler)
	r.Get("/user/{username}", UserHandler)
	r.Get("/me", MeHandler)
	r.Get("/personal/{username}", PersonalHandler)

	return r
}
