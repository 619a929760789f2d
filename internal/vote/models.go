package vote

import (
	"time"
)

// Vote targets exactly one of a post or a comment; the other FK stays NULL.
type Vote struct {
	VoteID    int       `gorm:"primaryKey;autoIncrement" json:"vote_id"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	PostID    *int      `gorm:"index" json:"post_id"`
	CommentID *int      `gorm:"index" json:"comment_id"`
	IsUpvote  bool      `gorm:"not null" json:"is_upvote"`
	CreatedAt time.Time `json:"created_at"`
}

func (Vote) TableName() string { return "forum.votes" }
