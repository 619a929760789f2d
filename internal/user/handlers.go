package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/guildhall/guildhall-backend/internal/config"
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/policy"
	"github.com/guildhall/guildhall-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func sessionCookie(value string) *http.Cookie {
	c := &http.Cookie{
		Name:     policy.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if config.App.SecureCookies {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var form struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	// Re-logging-in while holding a live session is rejected; log out first.
	if pol.Resolve(w, r) != nil {
		http.Error(w, "You are already logged in", http.StatusBadRequest)
		return
	}

	username := utils.NormalizeHandle(form.Username)

	var u User
	err := db.DB.First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Println("login: user lookup failed:", err)
		http.Error(w, "Login error", http.StatusInternalServerError)
		return
	}

	if u.IsBanned {
		http.Error(w, "You are banned.", http.StatusForbidden)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(form.Password)) != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	session := Session{SessionID: uuid.NewString(), UserID: u.UserID}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&session).Error
	})
	if err != nil {
		log.Println("login: failed to create session:", err)
		http.Error(w, "Login error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, sessionCookie(session.SessionID))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": session.SessionID,
		"user_id":    u.UserID,
	})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(policy.SessionCookieName)
	if err != nil || cookie.Value == "" {
		http.Error(w, "You are already logged out", http.StatusBadRequest)
		return
	}

	var session Session
	err = db.DB.First(&session, "session_id = ?", cookie.Value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Session already gone; dropping the cookie is all that's left.
		policy.ClearSessionCookie(w)
		fmt.Fprintln(w, "Logged out of expired session")
		return
	}
	if err != nil {
		log.Println("logout: session lookup failed:", err)
		http.Error(w, "Error logging out", http.StatusInternalServerError)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&session).Error
	})
	if err != nil {
		log.Println("logout: failed to delete session:", err)
		http.Error(w, "Error logging out", http.StatusInternalServerError)
		return
	}

	policy.ClearSessionCookie(w)
	fmt.Fprintln(w, "Logged out successfully")
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	res := pol.User(w, r)
	account, ok := res.Granted()
	if !ok {
		res.Deny(w)
		return
	}

	var u User
	if err := db.DB.First(&u, "user_id = ?", account.UserID).Error; err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u.SafeView())
}

func BlockHandler(w http.ResponseWriter, r *http.Request) {
	target := utils.NormalizeHandle(chi.URLParam(r, "username"))

	res := pol.User(w, r)
	account, ok := res.Granted()
	if !ok {
		res.Deny(w)
		return
	}

	other, err := FindByUsername(target)
	if err != nil {
		log.Println("block: user lookup failed:", err)
		http.Error(w, "Error blocking user", http.StatusInternalServerError)
		return
	}
	if other == nil {
		http.Error(w, "The user you are trying to block does not exist", http.StatusBadRequest)
		return
	}
	if other.UserID == account.UserID {
		http.Error(w, "You can't block yourself", http.StatusBadRequest)
		return
	}

	var existing Block
	err = db.DB.First(&existing, "user_id = ? AND blocked_user_username = ?", account.UserID, target).Error
	if err == nil {
		http.Error(w, "You already have this user blocked", http.StatusBadRequest)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("block: block lookup failed:", err)
		http.Error(w, "Error blocking user", http.StatusInternalServerError)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&Block{UserID: account.UserID, BlockedUserUsername: target}).Error
	})
	if err != nil {
		log.Println("block: failed to create block:", err)
		http.Error(w, "Error blocking user", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "User successfully blocked")
}

func UnblockHandler(w http.ResponseWriter, r *http.Request) {
	target := utils.NormalizeHandle(chi.URLParam(r, "username"))

	res := pol.User(w, r)
	account, ok := res.Granted()
	if !ok {
		res.Deny(w)
		return
	}

	var existing Block
	err := db.DB.First(&existing, "user_id = ? AND blocked_user_username = ?", account.UserID, target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "You don't have this user blocked", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Println("unblock: block lookup failed:", err)
		http.Error(w, "Error unblocking user", http.StatusInternalServerError)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&existing).Error
	})
	if err != nil {
		log.Println("unblock: failed to delete block:", err)
		http.Error(w, "Error unblocking user", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "User successfully unblocked")
}
