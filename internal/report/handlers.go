package report

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/guildhall/guildhall-backend/internal/comment"
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/post"
	"gorm.io/gorm"
)

func CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		PostID    int    `json:"post_id"`
		CommentID int    `json:"comment_id"`
		Reason    string `json:"reason"`
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

	if form.Reason == "" {
		http.Error(w, "A reason is required", http.StatusBadRequest)
		return
	}
	if (form.PostID == 0) == (form.CommentID == 0) {
		http.Error(w, "Report exactly one of a post or a comment", http.StatusBadRequest)
		return
	}

	rep := Report{UserID: account.UserID, Reason: form.Reason}
	if form.PostID != 0 {
		p, err := post.FindByID(form.PostID)
		if err != nil {
			log.Println("create report: post lookup failed:", err)
			http.Error(w, "Error creating report", http.StatusInternalServerError)
			return
		}
		if p == nil {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		rep.PostID = &p.PostID
	} else {
		c, err := comment.FindByID(form.CommentID)
		if err != nil {
			log.Println("create report: comment lookup failed:", err)
			http.Error(w, "Error creating report", http.StatusInternalServerError)
			return
		}
		if c == nil {
			http.Error(w, "Comment not found", http.StatusNotFound)
			return
		}
		rep.CommentID = &c.CommentID
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rep).Error
	})
	if err != nil {
		log.Println("create report: failed to create:", err)
		http.Error(w, "Error creating report", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Report submitted")
}
