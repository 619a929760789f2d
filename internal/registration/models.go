package registration

import (
	"errors"
	"time"

	"github.com/guildhall/guildhall-backend/internal/db"
	"gorm.io/gorm"
)

// Registration is a pending account waiting for its token to be confirmed.
type Registration struct {
	Token        string    `gorm:"primaryKey" json:"-"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	Username     string    `gorm:"not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Registration) TableName() string { return "forum.registrations" }

// FindByToken returns the pending registration, or nil.
func FindByToken(token string) (*Registration, error) {
	var reg Registration
	err := db.DB.First(&reg, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
