// Package policy is the authorization core gating every mutating endpoint:
// it resolves the session cookie to an account and evaluates one of six named
// checks (user, self, admin, guild member, guild moderator-or-admin, guild
// admin) against site roles and guild memberships.
package policy

import (
	"log"
	"net/http"
)

// Denial reasons, carried for logging only. Callers branch on the Result,
// never on the reason; everything but "not authenticated" surfaces as an
// opaque 403.
const (
	ReasonNotAuthenticated = "not authenticated"
	ReasonBannedSite       = "banned (site)"
	ReasonBannedGuild      = "banned (guild)"
	ReasonNotMember        = "not a member"
	ReasonInsufficientRole = "insufficient role"
)

type Denial struct {
	Status  int
	Reason  string
	Message string
}

// Result is the outcome of one policy check: either a granted account or a
// denial, never both and never neither.
type Result struct {
	account *Account
	denial  *Denial
}

func granted(a *Account) Result {
	return Result{account: a}
}

func denied(status int, reason, message string) Result {
	return Result{denial: &Denial{Status: status, Reason: reason, Message: message}}
}

// Granted returns the authenticated account when the check passed.
func (r Result) Granted() (*Account, bool) {
	return r.account, r.account != nil
}

func (r Result) Denial() *Denial {
	return r.denial
}

// Deny writes the denial to the response. Call only after Granted reports false.
func (r Result) Deny(w http.ResponseWriter) {
	d := r.denial
	if d == nil {
		d = &Denial{Status: http.StatusForbidden, Message: "Forbidden."}
	}
	http.Error(w, d.Message, d.Status)
}

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// check is the shared pipeline: resolve the session, gate on a site-wide
// ban, then apply the role predicate. Each named policy is one declaration
// on top of it.
func (e *Engine) check(w http.ResponseWriter, r *http.Request, pred func(*Account) Result) Result {
	account := e.Resolve(w, r)
	if account == nil {
		return denied(http.StatusUnauthorized, ReasonNotAuthenticated, "Forbidden.")
	}
	if account.IsBanned {
		return denied(http.StatusForbidden, ReasonBannedSite, "You are banned.")
	}
	if pred == nil {
		return granted(account)
	}
	return pred(account)
}

// guildCheck layers the membership lookup on check. Site admins pass every
// guild policy without a membership row. A membership-lookup error denies
// the same way a missing row does.
func (e *Engine) guildCheck(w http.ResponseWriter, r *http.Request, guildTag string, role func(*Account, *Membership) Result) Result {
	return e.check(w, r, func(a *Account) Result {
		if a.IsAdmin {
			return granted(a)
		}
		membership, err := e.store.FindMembershipByUserAndGuild(a.UserID, guildTag)
		if err != nil {
			log.Println("policy: membership lookup failed:", err)
			return denied(http.StatusForbidden, ReasonNotMember, "Forbidden.")
		}
		if membership == nil {
			return denied(http.StatusForbidden, ReasonNotMember, "Forbidden.")
		}
		return role(a, membership)
	})
}

// User passes for any authenticated, non-site-banned account.
func (e *Engine) User(w http.ResponseWriter, r *http.Request) Result {
	return e.check(w, r, nil)
}

// Self passes only when the authenticated account's username is exactly the
// target. Callers normalize case before invoking; no folding happens here.
func (e *Engine) Self(w http.ResponseWriter, r *http.Request, username string) Result {
	return e.check(w, r, func(a *Account) Result {
		if a.Username != username {
			return denied(http.StatusForbidden, ReasonInsufficientRole, "Forbidden.")
		}
		return granted(a)
	})
}

// Admin passes for site administrators. Site-ban is deliberately not checked
// here: a banned admin keeps admin powers until the flag is revoked.
func (e *Engine) Admin(w http.ResponseWriter, r *http.Request) Result {
	account := e.Resolve(w, r)
	if account == nil {
		return denied(http.StatusUnauthorized, ReasonNotAuthenticated, "Forbidden.")
	}
	if !account.IsAdmin {
		return denied(http.StatusForbidden, ReasonInsufficientRole, "Forbidden.")
	}
	return granted(account)
}

// GuildMember passes for non-banned members of the guild.
func (e *Engine) GuildMember(w http.ResponseWriter, r *http.Request, guildTag string) Result {
	return e.guildCheck(w, r, guildTag, func(a *Account, m *Membership) Result {
		if m.IsBanned {
			return denied(http.StatusForbidden, ReasonBannedGuild, "You are banned from this guild.")
		}
		return granted(a)
	})
}

// GuildModeratorOrAdmin passes for guild moderators and guild admins.
func (e *Engine) GuildModeratorOrAdmin(w http.ResponseWriter, r *http.Request, guildTag string) Result {
	return e.guildCheck(w, r, guildTag, func(a *Account, m *Membership) Result {
		if m.IsAdmin || m.IsModerator {
			return granted(a)
		}
		return denied(http.StatusForbidden, ReasonInsufficientRole, "Forbidden.")
	})
}

// GuildAdmin passes for guild admins only.
func (e *Engine) GuildAdmin(w http.ResponseWriter, r *http.Request, guildTag string) Result {
	return e.guildCheck(w, r, guildTag, func(a *Account, m *Membership) Result {
		if m.IsAdmin {
			return granted(a)
		}
		return denied(http.StatusForbidden, ReasonInsufficientRole, "Forbidden.")
	})
}
