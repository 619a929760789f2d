package guild

import (
	"errors"
	"time"

	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Guild struct {
	GuildTag         string         `gorm:"primaryKey" json:"guild_tag"`
	GuildName        string         `gorm:"not null" json:"guild_name"`
	GuildDescription *string        `json:"guild_description"`
	AvatarURL        *string        `json:"avatar_url"`
	BannerURL        *string        `json:"banner_url"`
	Rules            pq.StringArray `gorm:"type:text[]" json:"rules"`
	IsBanned         bool           `gorm:"not null;default:false" json:"is_banned"`
	CreatedAt        time.Time      `json:"created_at"`
}

// GuildMembership holds at most one row per (user, guild) pair.
type GuildMembership struct {
	MembershipID int    `gorm:"primaryKey;autoIncrement" json:"membership_id"`
	UserID       int    `gorm:"not null;uniqueIndex:idx_membership_user_guild" json:"user_id"`
	GuildTag     string `gorm:"not null;uniqueIndex:idx_membership_user_guild;index" json:"guild_tag"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"is_admin"`
	IsModerator  bool   `gorm:"not null;default:false" json:"is_moderator"`
	IsBanned     bool   `gorm:"not null;default:false" json:"is_banned"`
}

func (Guild) TableName() string           { return "forum.guilds" }
func (GuildMembership) TableName() string { return "forum.guild_memberships" }

// FindByTag returns the guild with the given (already normalized) tag, or nil.
func FindByTag(tag string) (*Guild, error) {
	var g Guild
	err := db.DB.First(&g, "guild_tag = ?", tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// FindMembership returns the membership row for (userID, tag), or nil.
func FindMembership(userID int, tag string) (*GuildMembership, error) {
	var m GuildMembership
	err := db.DB.First(&m, "user_id = ? AND guild_tag = ?", userID, tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
