package comment

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/post"
	"gorm.io/gorm"
)

func CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		PostID          int    `json:"post_id"`
		ParentCommentID int    `json:"parent_comment_id"`
		Body            string `json:"body"`
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

	if form.Body == "" {
		http.Error(w, "Comment body must not be empty", http.StatusBadRequest)
		return
	}

	p, err := post.FindByID(form.PostID)
	if err != nil {
		log.Println("create comment: post lookup failed:", err)
		http.Error(w, "Error creating comment", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}
	if p.IsLocked {
		http.Error(w, "This post is locked", http.StatusForbidden)
		return
	}

	// Zero means a top-level comment; stored as NULL.
	var parentID *int
	if form.ParentCommentID != 0 {
		parent, err := FindByID(form.ParentCommentID)
		if err != nil {
			log.Println("create comment: parent lookup failed:", err)
			http.Error(w, "Error creating comment", http.StatusInternalServerError)
			return
		}
		if parent == nil || parent.PostID != p.PostID {
			http.Error(w, "Parent comment not found on this post", http.StatusBadRequest)
			return
		}
		parentID = &parent.CommentID
	}

	c := Comment{
		PostID:          p.PostID,
		UserID:          account.UserID,
		ParentCommentID: parentID,
		Body:            form.Body,
	}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&c).Error
	})
	if err != nil {
		log.Println("create comment: failed to create:", err)
		http.Error(w, "Error creating comment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

func EditCommentHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		CommentID int    `json:"comment_id"`
		Body      string `json:"body"`
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

	if form.Body == "" {
		http.Error(w, "Comment body must not be empty", http.StatusBadRequest)
		return
	}

	c, err := FindByID(form.CommentID)
	if err != nil {
		log.Println("edit comment: lookup failed:", err)
		http.Error(w, "Error editing comment", http.StatusInternalServerError)
		return
	}
	if c == nil {
		http.Error(w, "Comment not found", http.StatusNotFound)
		return
	}
	if c.UserID != account.UserID {
		http.Error(w, "You can only edit your own comments", http.StatusForbidden)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(c).Updates(map[string]any{
			"body":      form.Body,
			"is_edited": true,
		}).Error
	})
	if err != nil {
		log.Println("edit comment: failed to update:", err)
		http.Error(w, "Error editing comment", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Comment updated successfully")
}

func DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		CommentID int `json:"comment_id"`
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

	c, err := FindByID(form.CommentID)
	if err != nil {
		log.Println("delete comment: lookup failed:", err)
		http.Error(w, "Error deleting comment", http.StatusInternalServerError)
		return
	}
	if c == nil {
		http.Error(w, "Comment not found", http.StatusNotFound)
		return
	}
	if c.UserID != account.UserID {
		http.Error(w, "You can only delete your own comments", http.StatusForbidden)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", c.CommentID).Delete(&voteRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(c).Error
	})
	if err != nil {
		log.Println("delete comment: failed to delete:", err)
		http.Error(w, "Error deleting comment", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Comment deleted successfully")
}
