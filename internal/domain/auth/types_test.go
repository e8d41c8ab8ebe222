package auth

import (
	"testing"
	"time"
)

func TestUser_PrimaryRole(t *testing.T) {
	u := User{Roles: []Role{RoleSupervisor, RoleExaminer}}
	if got := u.PrimaryRole(); got != RoleSupervisor {
		t.Fatalf("PrimaryRole = %q, want Supervisor", got)
	}
	if got := (User{}).PrimaryRole(); got != "" {
		t.Fatalf("PrimaryRole of empty user = %q, want empty", got)
	}
}

func TestUser_HasRole(t *testing.T) {
	u := User{Roles: []Role{RoleSV}}
	if !u.HasRole(RoleSupervisor) {
		t.Fatalf("SV alias should satisfy Supervisor")
	}
	if !u.HasRole(RoleSV) {
		t.Fatalf("SV alias should satisfy itself")
	}
	if u.HasRole(RoleManager) {
		t.Fatalf("did not expect Manager")
	}
	if (User{}).HasRole(RoleStudent) {
		t.Fatalf("user without roles has no roles")
	}
}

func TestSession_IsAuthenticated(t *testing.T) {
	full := Session{
		ID:        "s1",
		Token:     "tok",
		User:      User{ID: 1, Name: "A", Roles: []Role{RoleStudent}},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if !full.IsAuthenticated() {
		t.Fatalf("expected authenticated")
	}

	// Token and user must be present together; either alone is nothing.
	if (Session{Token: "tok"}).IsAuthenticated() {
		t.Fatalf("token without user must not authenticate")
	}
	if (Session{User: User{ID: 1}}).IsAuthenticated() {
		t.Fatalf("user without token must not authenticate")
	}
}
