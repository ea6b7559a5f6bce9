package core

// User authenticated caller
type User struct {
	UserID string `json:"user_id,omitempty"`
	// Admin set when the user is listed in config admins
	Admin bool `json:"admin,omitempty"`
}
