package registration

import (
	"log"

	"github.com/guildhall/guildhall-backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&Registration{}); err != nil {
		log.Fatal("Failed to auto-migrate registration table: ", err)
	}
}
