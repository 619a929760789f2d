package reset

import (
	"errors"
	"time"

	"github.com/guildhall/guildhall-backend/internal/db"
	"gorm.io/gorm"
)

// PasswordReset is a pending reset waiting for its token to be used.
type PasswordReset struct {
	Token     string    `gorm:"primaryKey" json:"-"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PasswordReset) TableName() string { return "forum.password_resets" }

// FindByToken returns the pending reset, or nil.
func FindByToken(token string) (*PasswordReset, error) {
	var pr PasswordReset
	err := db.DB.First(&pr, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pr, nil
}
