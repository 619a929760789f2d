package user

import (
	"log"

	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/policy"
)

var pol *policy.Engine

func Init() {
	if err := db.EnsureSchema(db.DB, "forum"); err != nil {
		log.Fatal("Failed to ensure schema forum: ", err)
	}

	if err := db.DB.AutoMigrate(&User{}, &Session{}, &Block{}); err != nil {
		log.Fatal("Failed to auto-migrate tables: ", err)
	}

	pol = policy.NewEngine(policy.NewGormStore(db.DB))
}
