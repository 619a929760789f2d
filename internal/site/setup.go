package site

import (
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/policy"
)

var pol *policy.Engine

func Init() {
	pol = policy.NewEngine(policy.NewGormStore(db.DB))
}
