package post

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/guild"
	"github.com/guildhall/guildhall-backend/internal/utils"
	"gorm.io/gorm"
)

const maxTitleLen = 100

func CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		GuildTag string `json:"guild_tag"`
		Title    string `json:"title"`
		Body     string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	tag := utils.NormalizeHandle(form.GuildTag)

	if form.Title == "" || utf8.RuneCountInString(form.Title) > maxTitleLen {
		http.Error(w, "Title must be between 1 and 100 characters", http.StatusBadRequest)
		return
	}

	g, err := guild.FindByTag(tag)
	if err != nil {
		log.Println("create post: guild lookup failed:", err)
		http.Error(w, "Error creating post", http.StatusInternalServerError)
		return
	}
	if g == nil {
		http.Error(w, "Guild not found", http.StatusNotFound)
		return
	}

	res := pol.GuildMember(w, r, tag)
	account, ok := res.Granted()
	if !ok {
		res.Deny(w)
		return
	}

	p := Post{
		GuildTag: tag,
		UserID:   account.UserID,
		Title:    form.Title,
		Body:     form.Body,
	}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&p).Error
	})
	if err != nil {
		log.Println("create post: failed to create:", err)
		http.Error(w, "Error creating post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

func EditPostHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		PostID int    `json:"post_id"`
		Body   string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	res := pol.User(w, r)
	account, ok := res.Granted()
	if !ok {
		res.Deny(w)
		return
	}

	p, err := FindByID(form.PostID)
	if err != nil {
		log.Println("edit post: lookup failed:", err)
		http.Error(w, "Error editing post", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}
	if p.UserID != account.UserID {
		http.Error(w, "You can only edit your own posts", http.StatusForbidden)
		return
	}
	if p.IsLocked {
		http.Error(w, "This post is locked", http.StatusForbidden)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(p).Updates(map[string]any{
			"body":      form.Body,
			"is_edited": true,
		}).Error
	})
	if err != nil {
		log.Println("edit post: failed to update:", err)
		http.Error(w, "Error editing post", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Post updated successfully")
}

func DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		PostID int `json:"post_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	res := pol.User(w, r)
	account, ok := res.Granted()
	if !ok {
		res.Deny(w)
		return
	}

	p, err := FindByID(form.PostID)
	if err != nil {
		log.Println("delete post: lookup failed:", err)
		http.Error(w, "Error deleting post", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}
	if p.UserID != account.UserID {
		http.Error(w, "You can only delete your own posts", http.StatusForbidden)
		return
	}

	// Comments and votes hanging off the post go with it.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var commentIDs []int
		if err := tx.Model(&commentRow{}).Where("post_id = ?", p.PostID).
			Pluck("comment_id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&voteRow{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", p.PostID).Delete(&voteRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", p.PostID).Delete(&commentRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(p).Error
	})
	if err != nil {
		log.Println("delete post: failed to delete:", err)
		http.Error(w, "Error deleting post", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Post deleted successfully")
}

func setLocked(w http.ResponseWriter, r *http.Request, locked bool) {
	postID, err := strconv.Atoi(chi.URLParam(r, "postID"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	p, err := FindByID(postID)
	if err != nil {
		log.Println("lock post: lookup failed:", err)
		http.Error(w, "Error updating post", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	// The guild is taken from the post itself, not the request.
	res := pol.GuildModeratorOrAdmin(w, r, p.GuildTag)
	if _, ok := res.Granted(); !ok {
		res.Deny(w)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(p).Update("is_locked", locked).Error
	})
	if err != nil {
		log.Println("lock post: failed to update:", err)
		http.Error(w, "Error updating post", http.StatusInternalServerError)
		return
	}

	if locked {
		fmt.Fprintln(w, "Post locked")
	} else {
		fmt.Fprintln(w, "Post unlocked")
	}
}

func LockPostHandler(w http.ResponseWriter, r *http.Request) {
	setLocked(w, r, true)
}

func UnlockPostHandler(w http.ResponseWriter, r *http.Request) {
	setLocked(w, r, false)
}
