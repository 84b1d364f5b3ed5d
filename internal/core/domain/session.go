package domain

import "time"

// Session is the server-held proof of authentication referenced by an
// opaque cookie token. UserID is a weak reference: deleting the user makes
// the session useless on its next lookup, not instantly.
//
// Role is a snapshot taken at login so gates never re-query the credential
// store; it is only rewritten on explicit role-change operations.
// Authenticated distinguishes "a session exists" (e.g. freshly registered,
// not yet logged in) from "this session proves an identity".
type Session struct {
	Token         string    `json:"token"`
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username"`
	Role          Role      `json:"role"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
}
