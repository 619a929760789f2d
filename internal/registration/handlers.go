package registration

import (
	"encoding/json"
	"errors"
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

const (
	maxUsernameLen = 15
	tokenLetters   = 25
)

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		Email           string `json:"email"`
		Username        string `json:"username"`
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

	username := utils.NormalizeHandle(form.Username)
	if !utils.ValidHandle(username, maxUsernameLen) {
		http.Error(w, "Username must be alphanumeric and at most 15 characters", http.StatusBadRequest)
		return
	}
	if form.Email == "" {
		http.Error(w, "An email address is required", http.StatusBadRequest)
		return
	}

	// The name must be free in both the live users table and the queue of
	// pending registrations.
	existing, err := user.FindByUsername(username)
	if err != nil {
		log.Println("register: user lookup failed:", err)
		http.Error(w, "Error registering", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "This username is taken", http.StatusBadRequest)
		return
	}

	var pending Registration
	err = db.DB.First(&pending, "username = ? OR email = ?", username, form.Email).Error
	if err == nil {
		http.Error(w, "A registration with this username or email is already pending", http.StatusBadRequest)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("register: pending lookup failed:", err)
		http.Error(w, "Error registering", http.StatusInternalServerError)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("register: failed to hash password:", err)
		http.Error(w, "Error registering", http.StatusInternalServerError)
		return
	}

	token, err := utils.RandomLetters(tokenLetters)
	if err != nil {
		log.Println("register: failed to generate token:", err)
		http.Error(w, "Error registering", http.StatusInternalServerError)
		return
	}

	reg := Registration{
		Token:        token,
		Email:        form.Email,
		Username:     username,
		PasswordHash: string(hash),
	}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&reg).Error
	})
	if err != nil {
		log.Println("register: failed to create:", err)
		http.Error(w, "Error registering", http.StatusInternalServerError)
		return
	}

	// The token would normally go out by email; it is returned directly
	// until a mailer is wired up.
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"email":              reg.Email,
		"registration_token": reg.Token,
	})
}

func ConfirmHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	reg, err := FindByToken(token)
	if err != nil {
		log.Println("confirm registration: lookup failed:", err)
		http.Error(w, "Error confirming registration", http.StatusInternalServerError)
		return
	}
	if reg == nil {
		http.Error(w, "Invalid registration token", http.StatusNotFound)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		u := user.User{
			Email:        reg.Email,
			Username:     reg.Username,
			PasswordHash: reg.PasswordHash,
		}
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		return tx.Delete(reg).Error
	})
	if err != nil {
		log.Println("confirm registration: failed:", err)
		http.Error(w, "Error confirming registration", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "Registration confirmed, you can now log in")
}
