package reset

import (
	"log"

	"github.com/guildhall/guildhall-backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&PasswordReset{}); err != nil {
		log.Fatal("Failed to auto-migrate password reset table: ", err)
	}
}
