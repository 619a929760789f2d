package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/guildhall/guildhall-backend/internal/comment"
	"github.com/guildhall/guildhall-backend/internal/config"
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/guild"
	"github.com/guildhall/guildhall-backend/internal/middleware"
	"github.com/guildhall/guildhall-backend/internal/post"
	"github.com/guildhall/guildhall-backend/internal/registration"
	"github.com/guildhall/guildhall-backend/internal/report"
	"github.com/guildhall/guildhall-backend/internal/reset"
	"github.com/guildhall/guildhall-backend/internal/site"
	"github.com/guildhall/guildhall-backend/internal/user"
	"github.com/guildhall/guildhall-backend/internal/view"
	"github.com/guildhall/guildhall-backend/internal/vote"
)

func main() {
	if err := godotenv.Load(".env.local"); err != nil {
		log.Println("No .env.local file found, relying on environment")
	}

	config.Load("config.yaml")

	db.Connect()

	// Migration order follows the FK graph; the read view comes last.
	user.Init()
	guild.Init()
	post.Init()
	comment.Init()
	vote.Init()
	report.Init()
	registration.Init()
	reset.Init()
	site.Init()
	view.Init()

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(config.App.AllowedOrigins))

	r.Mount("/user", user.SetupRoutes())
	r.Mount("/guild", guild.SetupRoutes())
	r.Mount("/post", post.SetupRoutes())
	r.Mount("/comment", comment.SetupRoutes())
	r.Mount("/vote", vote.SetupRoutes())
	r.Mount("/report", report.SetupRoutes())
	r.Mount("/admin", site.SetupRoutes())
	r.Mount("/resetpassword", reset.SetupRoutes())
	r.Mount("/view", view.SetupRoutes())
	r.Mount("/", registration.SetupRoutes())

	addr := ":" + config.App.Port
	log.Println("Server running on", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
