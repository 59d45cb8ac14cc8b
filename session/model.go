package session

import "github.com/MrEthical07/campusAuth/permission"

// User is the authenticated principal cached in durable storage.
type User struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       permission.Role `json:"role"`
	Department string          `json:"department,omitempty"`
}

// Clone returns a copy safe to hand to callers.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
