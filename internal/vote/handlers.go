package vote

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/guildhall/guildhall-backend/internal/comment"
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/policy"
	"github.com/guildhall/guildhall-backend/internal/post"
	"gorm.io/gorm"
)

// toggle applies the three-way vote semantics inside one transaction:
// same direction removes the vote, opposite direction flips it, and no
// prior vote inserts one.
func toggle(account *policy.Account, where string, id int, isUpvote bool) (string, error) {
	var outcome string
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing Vote
		err := tx.First(&existing, "user_id = ? AND "+where+" = ?", account.UserID, id).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			v := Vote{UserID: account.UserID, IsUpvote: isUpvote}
			if where == "post_id" {
				v.PostID = &id
			} else {
				v.CommentID = &id
			}
			outcome = "Vote recorded"
			return tx.Create(&v).Error
		case err != nil:
			return err
		case existing.IsUpvote == isUpvote:
			outcome = "Vote removed"
			return tx.Delete(&existing).Error
		default:
			outcome = "Vote changed"
			return tx.Model(&existing).Update("is_upvote", isUpvote).Error
		}
	})
	return outcome, err
}

func VotePostHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		PostID   int  `json:"post_id"`
		IsUpvote bool `json:"is_upvote"`
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

	p, err := post.FindByID(form.PostID)
	if err != nil {
		log.Println("vote post: lookup failed:", err)
		http.Error(w, "Error voting", http.StatusInternalServerError)
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

	outcome, err := toggle(account, "post_id", p.PostID, form.IsUpvote)
	if err != nil {
		log.Println("vote post: failed:", err)
		http.Error(w, "Error voting", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, outcome)
}

func VoteCommentHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		CommentID int  `json:"comment_id"`
		IsUpvote  bool `json:"is_upvote"`
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

	c, err := comment.FindByID(form.CommentID)
	if err != nil {
		log.Println("vote comment: lookup failed:", err)
		http.Error(w, "Error voting", http.StatusInternalServerError)
		return
	}
	if c == nil {
		http.Error(w, "Comment not found", http.StatusNotFound)
		return
	}

	p, err := post.FindByID(c.PostID)
	if err != nil {
		log.Println("vote comment: post lookup failed:", err)
		http.Error(w, "Error voting", http.StatusInternalServerError)
		return
	}
	if p != nil && p.IsLocked {
		http.Error(w, "This post is locked", http.StatusForbidden)
		return
	}

	outcome, err := toggle(account, "comment_id", c.CommentID, form.IsUpvote)
	if err != nil {
		log.Println("vote comment: failed:", err)
		http.Error(w, "Error voting", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, outcome)
}
