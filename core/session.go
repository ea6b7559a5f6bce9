package core

import (
	"context"
)

// Session user session
type Session interface {
	// Login return the user the access token was issued to
	Login(ctx context.Context, accessToken string) (*User, error)
	// Issue sign a new access token for the user
	Issue(ctx context.Context, userID string) (string, error)
}
