package site

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/user"
	"github.com/guildhall/guildhall-backend/internal/utils"
	"gorm.io/gorm"
)

// target runs the admin policy check and resolves the username in the URL.
// A nil return means the response has already been written.
func target(w http.ResponseWriter, r *http.Request) *user.User {
	res := pol.Admin(w, r)
	if _, ok := res.Granted(); !ok {
		res.Deny(w)
		return nil
	}

	username := utils.NormalizeHandle(chi.URLParam(r, "username"))
	u, err := user.FindByUsername(username)
	if err != nil {
		log.Println("admin: user lookup failed:", err)
		http.Error(w, "Error looking up user", http.StatusInternalServerError)
		return nil
	}
	if u == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return nil
	}
	return u
}

func BanUserHandler(w http.ResponseWriter, r *http.Request) {
	u := target(w, r)
	if u == nil {
		return
	}
	if u.IsAdmin {
		http.Error(w, "Admins cannot be banned", http.StatusForbidden)
		return
	}
	if u.IsBanned {
		http.Error(w, "This user is already banned", http.StatusBadRequest)
		return
	}

	// Banning also revokes every live session.
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(u).Update("is_banned", true).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", u.UserID).Delete(&user.Session{}).Error
	})
	if err != nil {
		log.Println("admin ban: failed:", err)
		http.Error(w, "Error banning user", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "User banned")
}

func UnbanUserHandler(w http.ResponseWriter, r *http.Request) {
	u := target(w, r)
	if u == nil {
		return
	}
	if !u.IsBanned {
		http.Error(w, "This user is not banned", http.StatusBadRequest)
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(u).Update("is_banned", false).Error
	})
	if err != nil {
		log.Println("admin unban: failed:", err)
		http.Error(w, "Error unbanning user", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "User unbanned")
}

func VerifyUserHandler(w http.ResponseWriter, r *http.Request) {
	u := target(w, r)
	if u == nil {
		return
	}
	if u.IsVerified {
		http.Error(w, "This user is already verified", http.StatusBadRequest)
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(u).Update("is_verified", true).Error
	})
	if err != nil {
		log.Println("admin verify: failed:", err)
		http.Error(w, "Error verifying user", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "User verified")
}

func UnverifyUserHandler(w http.ResponseWriter, r *http.Request) {
	u := target(w, r)
	if u == nil {
		return
	}
	if !u.IsVerified {
		http.Error(w, "This user is not verified", http.StatusBadRequest)
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(u).Update("is_verified", false).Error
	})
	if err != nil {
		log.Println("admin unverify: failed:", err)
		http.Error(w, "Error unverifying user", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "User unverified")
}

func GiveAdminHandler(w http.ResponseWriter, r *http.Request) {
	u := target(w, r)
	if u == nil {
		return
	}
	if u.IsAdmin {
		http.Error(w, "This user is already an admin", http.StatusBadRequest)
		return
	}
	if u.IsBanned {
		http.Error(w, "Banned users cannot be made admins", http.StatusBadRequest)
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(u).Update("is_admin", true).Error
	})
	if err != nil {
		log.Println("admin giveadmin: failed:", err)
		http.Error(w, "Error promoting user", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "User promoted to admin")
}

// membershipRow is a pruned row of the guild membership table, used only
// to cascade the account deletion.
type membershipRow struct {
	MembershipID int `gorm:"primaryKey;column:membership_id"`
	UserID       int `gorm:"column:user_id"`
}

func (membershipRow) TableName() string { return "forum.guild_memberships" }

type voteRow struct {
	VoteID int `gorm:"primaryKey;column:vote_id"`
	UserID int `gorm:"column:user_id"`
}

func (voteRow) TableName() string { return "forum.votes" }

func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	u := target(w, r)
	if u == nil {
		return
	}
	if u.IsAdmin {
		http.Error(w, "Admins cannot be deleted", http.StatusForbidden)
		return
	}

	// Posts and comments stay behind; the account and everything tied to
	// the login goes.
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", u.UserID).Delete(&user.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.UserID).Delete(&user.Block{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.UserID).Delete(&membershipRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.UserID).Delete(&voteRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(u).Error
	})
	if err != nil {
		log.Println("admin delete: failed:", err)
		http.Error(w, "Error deleting user", http.StatusInternalServerError)
		return
	}

	fmt.Fprintln(w, "User deleted")
}
