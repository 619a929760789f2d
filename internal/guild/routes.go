package guild

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/create", CreateGuildHandler)
	r.Post("/join/{guildTag}", JoinHandler)
	r.Post("/leave/{guildTag}", LeaveHandler)
	r.Post("/remove/{guildTag}", RemoveHandler)

	r.Post("/{guildTag}/ban/{username}", BanMemberHandler)
	r.Post("/{guildTag}/unban/{username}", UnbanMemberHandler)
	r.Post("/{guildTag}/appointmod/{username}", AppointModHandler)
	r.Post("/{guildTag}/removemod/{username}", RemoveModHandler)

	r.Post("/mod/removepost", ModRemovePostHandler)
	r.Post("/mod/removecomment", ModRemoveCommentHandler)

	r.Post("/{guildTag}/mod/updatename", UpdateNameHandler)
	r.Post("/{guildTag}/mod/updatedescription", UpdateDescriptionHandler)
	r.Post("/{guildTag}/mod/updateavatar", UpdateAvatarHandler)
	r.Post("/{guildTag}/mod/updatebanner", UpdateBannerHandler)
	r.Post("/{guildTag}/mod/updaterules", UpdateRulesHandler)

	return r
}
