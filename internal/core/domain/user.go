package domain

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID                int
	Name              string `validate:"required,min=3,max=50"`
	Email             string `validate:"required,email,max=255"`
	Age               int    `validate:"required,gte=18"`
	Role              UserRole
	EncryptedPassword string
	CreatedAt         time.Time
	IsDeleted         bool
	PasswordChangedAt *time.Time
}

// AgeCategory is a derived field, never stored: computed from age at the
// serialization boundary.
func (u *User) AgeCategory() string {
	if u.Age > 21 {
		return "ADULT"
	}

	return "TEENAGER"
}

// ChangedPasswordAfter reports whether the password was mutated after the
// given token issue time. Invalidates tokens issued before a password change
// without needing a revocation list.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}

	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AgeStats is the fixed statistical report over users above the age cutoff.
type AgeStats struct {
	TotalUsers int
	AvgAge     float64
	MaxAge     int
	MinAge     int
}
