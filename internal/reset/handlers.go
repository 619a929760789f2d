package reset

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/user"
	"github.com/guildhall/guildhall-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenLetters = 25

func RequestResetHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	username := utils.NormalizeHandle(form.Username)
	u, err := user.FindByUsername(username)
	if err != nil {
		log.Println("password reset: user lookup failed:", err)
		http.Error(w, "Error requesting reset", http.StatusInternalServerError)
		return
	}
	if u == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	token, err := utils.RandomLetters(tokenLetters)
	if err != nil {
		log.Println("password reset: failed to generate token:", err)
		http.Error(w, "Error requesting reset", http.StatusInternalServerError)
		return
	}

	pr := PasswordReset{Token: token, UserID: u.UserID}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		// A newer request replaces any outstanding one.
		if err := tx.Where("user_id = ?", u.UserID).Delete(&PasswordReset{}).Error; err != nil {
			return err
		}
		return tx.Create(&pr).Error
	})
	if err != nil {
		log.Println("password reset: failed to create:", err)
		http.Error(w, "Error requesting reset", http.StatusInternalServerError)
		return
	}

	// Returned directly until a mailer is wired up.
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"email":       u.Email,
		"reset_token": pr.Token,
	})
}

func ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var form struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if form.Password == "" || form.Password != form.ConfirmPassword {
		http.Error(w, "Passwords do not match", http.StatusBadRequest)
		return
	}

	pr, err := FindByToken(token)
	if err != nil {
		log.Println("password change: lookup failed:", err)
		http.Error(w, "Error changing password", http.StatusInternalServerError)
		return
	}
	if pr == nil {
		http.Error(w, "Invalid reset token", http.StatusNotFound)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("password change: failed to hash password:", err)
		http.Error(w, "Error changing password", http.StatusInternalServerError)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user.User{}).Where("user_id = ?", pr.UserID).
			Update("password_hash", string(hash)).Error; err != nil {
			return err
		}
		// Changing the password logs every session out.
		if err := tx.Where("user_id = ?", pr.UserID).Delete(&user.Session{}).Error; err != nil {
			return err
		}
		return tx.Delete(pr).Error
	})
	if err != nil {
		log.Println("password change: failed:", err)
		http.Error(w, "Error changing password", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Password changed successfully")
}
