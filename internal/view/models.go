package view

import "time"

// DetailedPostView reads from the forum.detailed_post_view database view,
// which joins posts with their guild, author and aggregate counts so list
// pages are a single query.
type DetailedPostView struct {
	PostID       int       `gorm:"column:post_id" json:"post_id"`
	GuildTag     string    `gorm:"column:guild_tag" json:"guild_tag"`
	GuildName    string    `gorm:"column:guild_name" json:"guild_name"`
	UserID       int       `gorm:"column:user_id" json:"user_id"`
	Username     string    `gorm:"column:username" json:"username"`
	AvatarURL    *string   `gorm:"column:avatar_url" json:"avatar_url"`
	Title        string    `gorm:"column:title" json:"title"`
	Body         string    `gorm:"column:body" json:"body"`
	IsLocked     bool      `gorm:"column:is_locked" json:"is_locked"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	Upvotes      int       `gorm:"column:upvotes" json:"upvotes"`
	Downvotes    int       `gorm:"column:downvotes" json:"downvotes"`
	CommentCount int       `gorm:"column:comment_count" json:"comment_count"`

	// Per-viewer annotations, filled in after the query. ViewerVote is
	// nil when the viewer has not voted (or is anonymous).
	ViewerVote    *bool `gorm:"-" json:"viewer_vote"`
	AuthorBlocked bool  `gorm:"-" json:"author_blocked"`
}

func (DetailedPostView) TableName() string { return "forum.detailed_post_view" }

// CommentView is a comment joined with its author and vote counts.
type CommentView struct {
	CommentID       int       `gorm:"column:comment_id" json:"comment_id"`
	PostID          int       `gorm:"column:post_id" json:"post_id"`
	ParentCommentID *int      `gorm:"column:parent_comment_id" json:"parent_comment_id"`
	UserID          int       `gorm:"column:user_id" json:"user_id"`
	Username        string    `gorm:"column:username" json:"username"`
	AvatarURL       *string   `gorm:"column:avatar_url" json:"avatar_url"`
	Body            string    `gorm:"column:body" json:"body"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	Upvotes         int       `gorm:"column:upvotes" json:"upvotes"`
	Downvotes       int       `gorm:"column:downvotes" json:"downvotes"`

	ViewerVote    *bool `gorm:"-" json:"viewer_vote"`
	AuthorBlocked bool  `gorm:"-" json:"author_blocked"`
}

// viewerVoteRow carries just enough of a vote to annotate a page.
type viewerVoteRow struct {
	PostID    *int `gorm:"column:post_id"`
	CommentID *int `gorm:"column:comment_id"`
	IsUpvote  bool `gorm:"column:is_upvote"`
}

func (viewerVoteRow) TableName() string { return "forum.votes" }
