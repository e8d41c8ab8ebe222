package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleStudent    Role = "Student"
	RoleSupervisor Role = "Supervisor"
	// RoleSV is a legacy backend alias for Supervisor; older accounts still
	// carry it and it must route and authorize identically.
	RoleSV        Role = "SV"
	RoleModerator Role = "Moderator"
	RoleExaminer  Role = "Examiner"
	RoleManager   Role = "Manager"
)

// Normalize collapses legacy aliases onto their canonical role.
func (r Role) Normalize() Role {
	if r == RoleSV {
		return RoleSupervisor
	}
	return r
}

// User is the backend's user record as the portal sees it.
// Roles is ordered; the first entry is the primary role that drives
// routing and access-control decisions.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Roles []Role `json:"roles"`
}

// PrimaryRole returns the first role, or "" when the user has none.
func (u User) PrimaryRole() Role {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0]
}

// HasRole reports membership in the user's role set, honoring aliases.
func (u User) HasRole(role Role) bool {
	want := role.Normalize()
	for _, r := range u.Roles {
		if r.Normalize() == want {
			return true
		}
	}
	return false
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
// Token is the bearer token the backend issued at login; it is stored
// together with the user in a single record so the two can never drift
// apart.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAuthenticated reports whether the session establishes "logged in as":
// both the token and a usable user record must be present. A record with
// one but not the other is treated as not authenticated, never as
// partially authenticated.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User.ID != 0
}
