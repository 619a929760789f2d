package user

import (
	"errors"
	"time"

	"github.com/guildhall/guildhall-backend/internal/db"
	"gorm.io/gorm"
)

type User struct {
	UserID       int       `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	Username     string    `gorm:"not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	AvatarURL    *string   `json:"avatar_url"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	IsBanned     bool      `gorm:"not null;default:false" json:"is_banned"`
	CreatedAt    time.Time `json:"created_at"`
}

type Session struct {
	SessionID string    `gorm:"primaryKey" json:"session_id"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"-"`
}

type Block struct {
	UserID              int    `gorm:"primaryKey" json:"user_id"`
	BlockedUserUsername string `gorm:"primaryKey" json:"blocked_user_username"`
}

func (User) TableName() string    { return "forum.users" }
func (Session) TableName() string { return "forum.user_sessions" }
func (Block) TableName() string   { return "forum.blocks" }

// View is the safe projection returned to clients; no email, no hash.
type View struct {
	Username   string    `json:"username"`
	AvatarURL  *string   `json:"avatar_url"`
	IsAdmin    bool      `json:"is_admin"`
	IsVerified bool      `json:"is_verified"`
	IsBanned   bool      `json:"is_banned"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u User) SafeView() View {
	return View{
		Username:   u.Username,
		AvatarURL:  u.AvatarURL,
		IsAdmin:    u.IsAdmin,
		IsVerified: u.IsVerified,
		IsBanned:   u.IsBanned,
		CreatedAt:  u.CreatedAt,
	}
}

// FindByUsername returns the user with the given (already normalized)
// username, or nil when no such user exists.
func FindByUsername(username string) (*User, error) {
	var u User
	err := db.DB.First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindBlocks returns every block row owned by the user.
func FindBlocks(userID int) ([]Block, error) {
	var blocks []Block
	if err := db.DB.Find(&blocks, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}
