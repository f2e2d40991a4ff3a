package domain

import (
	"time"

	"github.com/aussiebroadwan/soapbox/pkg/authz"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // argon2id PHC string, or bcrypt from older deployments
	Role         authz.Role
	ProfilePic   string // URL, may be empty
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity snapshots the user for token issuance. Every account gets the
// default scope set.
func (u User) Identity() authz.Identity {
	return authz.Identity{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		Scopes:   authz.DefaultScopes(),
	}
}
