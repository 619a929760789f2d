package comment

import (
	"log"

	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/policy"
)

var pol *policy.Engine

func Init() {
	if err := db.DB.AutoMigrate(&Comment{}); err != nil {
		log.Fatal("Failed to auto-migrate comment table: ", err)
	}

	pol = policy.NewEngine(policy.NewGormStore(db.DB))
}
