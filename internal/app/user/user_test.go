package user

import "testing"

func TestUserIdentity(t *testing.T) {
	u := User{ID: 7, Username: "alice", DisplayName: "Alice", PasswordHash: "secret-hash"}

	identity := u.Identity()
	if identity.UserID != 7 || identity.Username != "alice" || identity.DisplayName != "Alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	if identity.IsAnonymous() {
		t.Fatal("an account-backed identity must not be anonymous")
	}
}

func TestAnonymousIdentity(t *testing.T) {
	identity := Anonymous()

	if !identity.IsAnonymous() {
		t.Fatal("expected the anonymous identity")
	}

	if identity.DisplayName != AnonymousDisplayName {
		t.Fatalf("expected display name %q, got %q", AnonymousDisplayName, identity.DisplayName)
	}

	if identity.UserID != 0 || identity.Username != "" {
		t.Fatalf("anonymous identity must carry no account fields: %+v", identity)
	}
}
