package ports

import "context"

// AccountPort updates account profile fields for freshly authenticated users.
type AccountPort interface {
	// UpdateProfile applies username/displayName to the given account.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}
