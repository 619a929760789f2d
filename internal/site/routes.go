package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/ban/{username}", BanUserHandler)
	r.Post("/unban/{username}", UnbanUserHandler)
	r.Post("/verify/{username}", VerifyUserHandler)
	r.Post("/unverify/{username}", UnverifyUserHandler)
	r.Post("/giveadmin/{username}", GiveAdminHandler)
	r.Post("/delete/{username}", DeleteUserHandler)

	return r
}
