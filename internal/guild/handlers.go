package guild

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	maxTagLen  = 15
	maxNameLen = 25
)

func CreateGuildHandler(w http.ResponseWriter, r *http.Request) {
	res := pol.Admin(w, r)
	if _, ok := res.Granted(); !ok {
		res.Deny(w)
		return
	}

	var form struct {
		GuildTag  string `json:"guild_tag"`
		GuildName string `json:"guild_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	tag := utils.NormalizeHandle(form.GuildTag)
	if !utils.ValidHandle(tag, maxTagLen) {
		http.Error(w, "Guild tag must be alphanumeric and at most 15 characters", http.StatusBadRequest)
		return
	}
	if form.GuildName == "" || utf8.RuneCountInString(form.GuildName) > maxNameLen {
		http.Error(w, "Guild name must be between 1 and 25 characters", http.StatusBadRequest)
		return
	}

	existing, err := FindByTag(tag)
	if err != nil {
		log.Println("create guild: lookup failed:", err)
		http.Error(w, "Error creating guild", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "A guild with this tag already exists", http.StatusBadRequest)
		return
	}

	account, _ := res.Granted()
	g := Guild{GuildTag: tag, GuildName: form.GuildName}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&g).Error; err != nil {
			return err
		}
		// The creator joins their own guild as its first guild admin.
		return tx.Create(&GuildMembership{
			UserID:   account.UserID,
			GuildTag: tag,
			IsAdmin:  true,
		}).Error
	})
	if err != nil {
		log.Println("create guild: failed to create:", err)
		http.Error(w, "Error creating guild", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(g)
}

func JoinHandler(w http.ResponseWriter, r *http.Request) {
	tag := utils.NormalizeHandle(chi.URLParam(r, "guildTag"))

	res := pol.User(w, r)
	account, ok := res.Granted()
	if !ok {
		res.Deny(w)
		return
	}

	g, err := FindByTag(tag)
	if err != nil {
		log.Println("join guild: lookup failed:", err)
		http.Error(w, "Error joining guild", http.StatusInternalServerError)
		return
	}
	if g == nil {
		http.Error(w, "Guild not found", http.StatusNotFound)
		return
	}
	if g.IsBanned {
		http.Error(w, "This guild is banned", http.StatusForbidden)
		return
	}

	m, err := FindMembership(account.UserID, tag)
	if err != nil {
		log.Println("join guild: membership lookup failed:", err)
		http.Error(w, "Error joining guild", http.StatusInternalServerError)
		return
	}
	if m != nil {
		if m.IsBanned {
			http.Error(w, "You are banned from this guild.", http.StatusForbidden)
			return
		}
		http.Error(w, "You are already a member of this guild", http.StatusBadRequest)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&GuildMembership{UserID: account.UserID, GuildTag: tag}).Error
	})
	if err != nil {
		log.Println("join guild: failed to create membership:", err)
		http.Error(w, "Error joining guild", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Joined guild successfully")
}

// LeaveHandler deletes the caller's membership. It gates on the plain user
// policy, not the guild-member one: a guild-banned member can still leave.
func LeaveHandler(w http.ResponseWriter, r *http.Request) {
	tag := utils.NormalizeHandle(chi.URLParam(r, "guildTag"))

	res := pol.User(w, r)
	account, ok := res.Granted()
	if !ok {
		res.Deny(w)
		return
	}

	m, err := FindMembership(account.UserID, tag)
	if err != nil {
		log.Println("leave guild: membership lookup failed:", err)
		http.Error(w, "Error leaving guild", http.StatusInternalServerError)
		return
	}
	if m == nil {
		http.Error(w, "You are not a member of this guild", http.StatusBadRequest)
		return
	}
	if m.IsAdmin {
		// A guild admin must hand the guild off (or have it removed) first.
		http.Error(w, "Guild admins cannot leave their guild", http.StatusBadRequest)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(m).Error
	})
	if err != nil {
		log.Println("leave guild: failed to delete membership:", err)
		http.Error(w, "Error leaving guild", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Left guild successfully")
}

func RemoveHandler(w http.ResponseWriter, r *http.Request) {
	tag := utils.NormalizeHandle(chi.URLParam(r, "guildTag"))

	res := pol.GuildAdmin(w, r, tag)
	if _, ok := res.Granted(); !ok {
		res.Deny(w)
		return
	}

	g, err := FindByTag(tag)
	if err != nil {
		log.Println("remove guild: lookup failed:", err)
		http.Error(w, "Error removing guild", http.StatusInternalServerError)
		return
	}
	if g == nil {
		http.Error(w, "Guild not found", http.StatusNotFound)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guild_tag = ?", tag).Delete(&GuildMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(g).Error
	})
	if err != nil {
		log.Println("remove guild: failed to delete:", err)
		http.Error(w, "Error removing guild", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Guild removed successfully")
}

// updateField runs the shared policy check and single-column update behind
// the /mod/update* endpoints. An empty value clears the column to NULL; a
// non-nil validate rejects bad values with its message.
func updateField(w http.ResponseWriter, r *http.Request, column, errNoun string, validate func(string) string) {
	tag := utils.NormalizeHandle(chi.URLParam(r, "guildTag"))

	res := pol.GuildModeratorOrAdmin(w, r, tag)
	if _, ok := res.Granted(); !ok {
		res.Deny(w)
		return
	}

	var form struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if validate != nil {
		if msg := validate(form.Value); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
	}

	var value any
	if form.Value != "" {
		value = form.Value
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&Guild{}).Where("guild_tag = ?", tag).Update(column, value).Error
	})
	if err != nil {
		log.Printf("update guild %s: %v", column, err)
		http.Error(w, "Error updating guild "+errNoun, http.StatusInternalServerError)
		return
	}

	fmt.Fprintf(w, "Guild %s updated successfully\n", errNoun)
}

func UpdateNameHandler(w http.ResponseWriter, r *http.Request) {
	updateField(w, r, "guild_name", "name", func(v string) string {
		if v == "" || utf8.RuneCountInString(v) > maxNameLen {
			return "Guild name must be between 1 and 25 characters"
		}
		return ""
	})
}

func UpdateDescriptionHandler(w http.ResponseWriter, r *http.Request) {
	updateField(w, r, "guild_description", "description", nil)
}

func UpdateAvatarHandler(w http.ResponseWriter, r *http.Request) {
	updateField(w, r, "avatar_url", "avatar", nil)
}

func UpdateBannerHandler(w http.ResponseWriter, r *http.Request) {
	updateField(w, r, "banner_url", "banner", nil)
}

func UpdateRulesHandler(w http.ResponseWriter, r *http.Request) {
	tag := utils.NormalizeHandle(chi.URLParam(r, "guildTag"))

	res := pol.GuildModeratorOrAdmin(w, r, tag)
	if _, ok := res.Granted(); !ok {
		res.Deny(w)
		return
	}

	var form struct {
		Rules []string `json:"rules"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&Guild{}).Where("guild_tag = ?", tag).
			Update("rules", pq.StringArray(form.Rules)).Error
	})
	if err != nil {
		log.Println("update guild rules:", err)
		http.Error(w, "Error updating guild rules", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Guild rules updated successfully")
}
