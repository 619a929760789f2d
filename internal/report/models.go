package report

import "time"

// Report references exactly one of a post or a comment.
type Report struct {
	ReportID  int       `gorm:"primaryKey;autoIncrement" json:"report_id"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	PostID    *int      `gorm:"index" json:"post_id"`
	CommentID *int      `gorm:"index" json:"comment_id"`
	Reason    string    `gorm:"not null" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func (Report) TableName() string { return "forum.reports" }
