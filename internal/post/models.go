package post

import (
	"errors"
	"time"

	"github.com/guildhall/guildhall-backend/internal/db"
	"gorm.io/gorm"
)

type Post struct {
	PostID    int       `gorm:"primaryKey;autoIncrement" json:"post_id"`
	GuildTag  string    `gorm:"not null;index" json:"guild_tag"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"not null" json:"body"`
	IsLocked  bool      `gorm:"not null;default:false" json:"is_locked"`
	IsEdited  bool      `gorm:"not null;default:false" json:"is_edited"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "forum.posts" }

// Pruned rows of the comment and vote tables, used only for cascading
// deletes; the full models live in their own packages.
type commentRow struct {
	CommentID int `gorm:"primaryKey;column:comment_id"`
	PostID    int `gorm:"column:post_id"`
}

type voteRow struct {
	VoteID    int  `gorm:"primaryKey;column:vote_id"`
	PostID    *int `gorm:"column:post_id"`
	CommentID *int `gorm:"column:comment_id"`
}

func (commentRow) TableName() string { return "forum.comments" }
func (voteRow) TableName() string    { return "forum.votes" }

// FindByID returns the post, or nil when it does not exist.
func FindByID(postID int) (*Post, error) {
	var p Post
	err := db.DB.First(&p, "post_id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
