package policy

import "time"

// Read-only projections of the tables the policy layer decides on. The user
// and guild packages own the full models; these map only the columns the
// checks read.

type Account struct {
	UserID   int    `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	IsBanned bool   `json:"is_banned"`
}

type Session struct {
	SessionID string `gorm:"primaryKey;column:session_id"`
	UserID    int
	CreatedAt time.Time
}

type Membership struct {
	MembershipID int `gorm:"primaryKey;column:membership_id"`
	UserID       int
	GuildTag     string
	IsAdmin      bool
	IsModerator  bool
	IsBanned     bool
}

func (Account) TableName() string    { return "forum.users" }
func (Session) TableName() string    { return "forum.user_sessions" }
func (Membership) TableName() string { return "forum.guild_memberships" }
