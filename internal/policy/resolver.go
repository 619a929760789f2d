package policy

import (
	"log"
	"net/http"
)

const SessionCookieName = "session_id"

// ClearSessionCookie tells the client to drop its session token. The session
// row itself, if any, is untouched.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Resolve translates the request's session cookie into an authenticated
// account, or nil. Every failure path yields nil: absent cookie, unknown
// token (the cookie is cleared), orphaned session, or a store error. A store
// error is logged and must never authenticate — deny, never grant.
//
// Ban status is not filtered here; that is the policy checks' job. An
// orphaned session (valid token, deleted account) resolves to nil but the
// dangling row is left in place.
func (e *Engine) Resolve(w http.ResponseWriter, r *http.Request) *Account {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := e.store.FindSessionByToken(cookie.Value)
	if err != nil {
		log.Println("policy: session lookup failed:", err)
		return nil
	}
	if session == nil {
		// Stale token; instruct the client to drop it.
		ClearSessionCookie(w)
		return nil
	}

	account, err := e.store.FindAccountByID(session.UserID)
	if err != nil {
		log.Println("policy: account lookup failed:", err)
		return nil
	}
	return account
}
