package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/guildhall/guildhall-backend/internal/config"
	"github.com/guildhall/guildhall-backend/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	loginLimit := middleware.RateLimit(config.App.LoginRequestsPerMinute, config.App.LoginBurst)
	r.With(loginLimit).Post("/login", LoginHandler)

	r.Post("/logout", LogoutHandler)
	r.Get("/me", MeHandler)
	r.Post("/block/{username}", BlockHandler)
	r.Post("/unblock/{username}", UnblockHandler)

	return r
}
