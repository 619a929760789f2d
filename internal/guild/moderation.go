package guild

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/user"
	"github.com/guildhall/guildhall-backend/internal/utils"
	"gorm.io/gorm"
)

// Pruned rows of the post and comment tables. Moderation only needs enough
// columns to check guild ownership and delete; the full models live in their
// own packages.
type modPost struct {
	PostID   int    `gorm:"primaryKey;column:post_id"`
	GuildTag string `gorm:"column:guild_tag"`
}

type modComment struct {
	CommentID int `gorm:"primaryKey;column:comment_id"`
	PostID    int `gorm:"column:post_id"`
}

type modVote struct {
	VoteID    int  `gorm:"primaryKey;column:vote_id"`
	PostID    *int `gorm:"column:post_id"`
	CommentID *int `gorm:"column:comment_id"`
}

func (modPost) TableName() string    { return "forum.posts" }
func (modComment) TableName() string { return "forum.comments" }
func (modVote) TableName() string    { return "forum.votes" }

// findTarget resolves a username to its account and membership in the guild.
// The second return is nil when the user has no membership row there.
func findTarget(tag, username string) (*user.User, *GuildMembership, error) {
	target, err := user.FindByUsername(username)
	if err != nil || target == nil {
		return nil, nil, err
	}
	m, err := FindMembership(target.UserID, tag)
	if err != nil {
		return nil, nil, err
	}
	return target, m, nil
}

func BanMemberHandler(w http.ResponseWriter, r *http.Request) {
	tag := utils.NormalizeHandle(chi.URLParam(r, "guildTag"))
	username := utils.NormalizeHandle(chi.URLParam(r, "username"))

	res := pol.GuildModeratorOrAdmin(w, r, tag)
	account, ok := res.Granted()
	if !ok {
		res.Deny(w)
		return
	}

	target, m, err := findTarget(tag, username)
	if err != nil {
		log.Println("guild ban: target lookup failed:", err)
		http.Error(w, "Error banning user", http.StatusInternalServerError)
		return
	}
	if target == nil || m == nil {
		http.Error(w, "This user is not a member of the guild", http.StatusBadRequest)
		return
	}
	if target.UserID == account.UserID {
		http.Error(w, "You can't ban yourself", http.StatusBadRequest)
		return
	}
	if m.IsAdmin {
		http.Error(w, "Guild admins cannot be banned", http.StatusForbidden)
		return
	}
	if m.IsBanned {
		http.Error(w, "This user is already banned from the guild", http.StatusBadRequest)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(m).Updates(map[string]any{
			"is_banned":    true,
			"is_moderator": false,
		}).Error
	})
	if err != nil {
		log.Println("guild ban: failed to update membership:", err)
		http.Error(w, "Error banning user", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "User banned from guild")
}

func UnbanMemberHandler(w http.ResponseWriter, r *http.Request) {
	tag := utils.NormalizeHandle(chi.URLParam(r, "guildTag"))
	username := utils.NormalizeHandle(chi.URLParam(r, "username"))

	res := pol.GuildModeratorOrAdmin(w, r, tag)
	if _, ok := res.Granted(); !ok {
		res.Deny(w)
		return
	}

	target, m, err := findTarget(tag, username)
	if err != nil {
		log.Println("guild unban: target lookup failed:", err)
		http.Error(w, "Error unbanning user", http.StatusInternalServerError)
		return
	}
	if target == nil || m == nil {
		http.Error(w, "This user is not a member of the guild", http.StatusBadRequest)
		return
	}
	if !m.IsBanned {
		http.Error(w, "This user is not banned from the guild", http.StatusBadRequest)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(m).Update("is_banned", false).Error
	})
	if err != nil {
		log.Println("guild unban: failed to update membership:", err)
		http.Error(w, "Error unbanning user", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "User unbanned from guild")
}

func AppointModHandler(w http.ResponseWriter, r *http.Request) {
	tag := utils.NormalizeHandle(chi.URLParam(r, "guildTag"))
	username := utils.NormalizeHandle(chi.URLParam(r, "username"))

	res := pol.GuildAdmin(w, r, tag)
	if _, ok := res.Granted(); !ok {
		res.Deny(w)
		return
	}

	target, m, err := findTarget(tag, username)
	if err != nil {
		log.Println("appoint mod: target lookup failed:", err)
		http.Error(w, "Error appointing moderator", http.StatusInternalServerError)
		return
	}
	if target == nil || m == nil {
		http.Error(w, "This user is not a member of the guild", http.StatusBadRequest)
		return
	}
	if m.IsBanned {
		http.Error(w, "This user is banned from the guild", http.StatusBadRequest)
		return
	}
	if m.IsModerator {
		http.Error(w, "This user is already a moderator", http.StatusBadRequest)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(m).Update("is_moderator", true).Error
	})
	if err != nil {
		log.Println("appoint mod: failed to update membership:", err)
		http.Error(w, "Error appointing moderator", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Moderator appointed")
}

func RemoveModHandler(w http.ResponseWriter, r *http.Request) {
	tag := utils.NormalizeHandle(chi.URLParam(r, "guildTag"))
	username := utils.NormalizeHandle(chi.URLParam(r, "username"))

	res := pol.GuildAdmin(w, r, tag)
	if _, ok := res.Granted(); !ok {
		res.Deny(w)
		return
	}

	target, m, err := findTarget(tag, username)
	if err != nil {
		log.Println("remove mod: target lookup failed:", err)
		http.Error(w, "Error removing moderator", http.StatusInternalServerError)
		return
	}
	if target == nil || m == nil {
		http.Error(w, "This user is not a member of the guild", http.StatusBadRequest)
		return
	}
	if !m.IsModerator {
		http.Error(w, "This user is not a moderator", http.StatusBadRequest)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(m).Update("is_moderator", false).Error
	})
	if err != nil {
		log.Println("remove mod: failed to update membership:", err)
		http.Error(w, "Error removing moderator", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Moderator removed")
}

// ModRemovePostHandler deletes any post in the guild, along with its
// comments and votes. The post must actually belong to the guild the
// caller moderates.
func ModRemovePostHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		GuildTag string `json:"guild_tag"`
		PostID   int    `json:"post_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	tag := utils.NormalizeHandle(form.GuildTag)

	res := pol.GuildModeratorOrAdmin(w, r, tag)
	if _, ok := res.Granted(); !ok {
		res.Deny(w)
		return
	}

	var p modPost
	err := db.DB.First(&p, "post_id = ?", form.PostID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("mod remove post: lookup failed:", err)
		http.Error(w, "Error removing post", http.StatusInternalServerError)
		return
	}
	if p.GuildTag != tag {
		http.Error(w, "Post does not belong to this guild", http.StatusBadRequest)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var commentIDs []int
		if err := tx.Model(&modComment{}).Where("post_id = ?", p.PostID).
			Pluck("comment_id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&modVote{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", p.PostID).Delete(&modVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", p.PostID).Delete(&modComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		log.Println("mod remove post: failed to delete:", err)
		http.Error(w, "Error removing post", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Post removed")
}

// ModRemoveCommentHandler deletes any comment on a post in the guild.
func ModRemoveCommentHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		GuildTag  string `json:"guild_tag"`
		CommentID int    `json:"comment_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	tag := utils.NormalizeHandle(form.GuildTag)

	res := pol.GuildModeratorOrAdmin(w, r, tag)
	if _, ok := res.Granted(); !ok {
		res.Deny(w)
		return
	}

	var c modComment
	err := db.DB.First(&c, "comment_id = ?", form.CommentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Comment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("mod remove comment: lookup failed:", err)
		http.Error(w, "Error removing comment", http.StatusInternalServerError)
		return
	}

	var p modPost
	if err := db.DB.First(&p, "post_id = ?", c.PostID).Error; err != nil {
		log.Println("mod remove comment: post lookup failed:", err)
		http.Error(w, "Error removing comment", http.StatusInternalServerError)
		return
	}
	if p.GuildTag != tag {
		http.Error(w, "Comment does not belong to this guild", http.StatusBadRequest)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", c.CommentID).Delete(&modVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
	if err != nil {
		log.Println("mod remove comment: failed to delete:", err)
		http.Error(w, "Error removing comment", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Comment removed")
}
