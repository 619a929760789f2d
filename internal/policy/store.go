package policy

import (
	"errors"

	"gorm.io/gorm"
)

// SessionStore looks up live sessions by their opaque token.
// Absence is nil, nil — not an error.
type SessionStore interface {
	FindSessionByToken(token string) (*Session, error)
}

// AccountStore resolves a user id to its current account record.
type AccountStore interface {
	FindAccountByID(id int) (*Account, error)
}

// MembershipStore resolves a (user, guild) pair to at most one membership row.
type MembershipStore interface {
	FindMembershipByUserAndGuild(userID int, guildTag string) (*Membership, error)
}

type Store interface {
	SessionStore
	AccountStore
	MembershipStore
}

// GormStore is the database-backed Store used in production. Tests hand the
// Engine a fake instead.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindSessionByToken(token string) (*Session, error) {
	var session Session
	err := s.db.First(&session, "session_id = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *GormStore) FindAccountByID(id int) (*Account, error) {
	var account Account
	err := s.db.First(&account, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *GormStore) FindMembershipByUserAndGuild(userID int, guildTag string) (*Membership, error) {
	var membership Membership
	err := s.db.First(&membership, "user_id = ? AND guild_tag = ?", userID, guildTag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}
