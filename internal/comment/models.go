package comment

import (
	"errors"
	"time"

	"github.com/guildhall/guildhall-backend/internal/db"
	"gorm.io/gorm"
)

type Comment struct {
	CommentID       int       `gorm:"primaryKey;autoIncrement" json:"comment_id"`
	PostID          int       `gorm:"not null;index" json:"post_id"`
	UserID          int       `gorm:"not null;index" json:"user_id"`
	ParentCommentID *int      `gorm:"index" json:"parent_comment_id"`
	Body            string    `gorm:"not null" json:"body"`
	IsEdited        bool      `gorm:"not null;default:false" json:"is_edited"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "forum.comments" }

// voteRow is a pruned row of the vote table, used only to cascade deletes.
type voteRow struct {
	VoteID    int  `gorm:"primaryKey;column:vote_id"`
	CommentID *int `gorm:"column:comment_id"`
}

func (voteRow) TableName() string { return "forum.votes" }

// FindByID returns the comment, or nil when it does not exist.
func FindByID(commentID int) (*Comment, error) {
	var c Comment
	err := db.DB.First(&c, "comment_id = ?", commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
