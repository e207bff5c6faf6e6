/*
Package user contains core data structures and logic related to user identity and accounts.

It defines the Identity attached to every live connection, the stored account
record, and the Store interface backing the auth HTTP surface.
*/
package user

// AnonymousDisplayName is the sentinel display name for connections without credentials.
const AnonymousDisplayName = "anonymous"

// Identity is the (possibly anonymous) principal attached to a connection.
// Exactly one Identity is attached to every live connection before any of its
// chat events are processed.
type Identity struct {
	// UserID is the account's numeric identifier; zero for anonymous identities.
	UserID int64 `json:"userId,omitempty"`

	// Username is the unique login name; empty for anonymous identities.
	Username string `json:"username,omitempty"`

	// DisplayName is the name shown in chat. Always set.
	DisplayName string `json:"displayName"`
}

// Anonymous returns the sentinel identity used when no token is presented.
func Anonymous() Identity {
	return Identity{DisplayName: AnonymousDisplayName}
}

// IsAnonymous reports whether the identity was derived from a validated token.
func (i Identity) IsAnonymous() bool {
	return i.UserID == 0
}

// User represents a stored account record.
type User struct {
	// ID is the account's database identifier.
	ID int64 `json:"id"`

	// Username is the unique login name.
	Username string `json:"username"`

	// DisplayName is the name shown to other chat participants.
	DisplayName string `json:"displayName"`

	// PasswordHash is the bcrypt hash of the account password. Never serialized.
	PasswordHash string `json:"-"`
}

// Identity returns the connection identity for this account.
func (u User) Identity() Identity {
	return Identity{
		UserID:      u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
	}
}
