package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"

	"eventsapp/internal/core/domain"
)

const DefaultPassword = "12345678"

// NewUser builds a persistable user. Faked fields can be pinned through
// customData; the password hash defaults to DefaultPassword.
func NewUser(customData ...map[string]any) domain.User {
	hasEncryptedPassword := false

	for _, data := range customData {
		if _, exists := data["EncryptedPassword"]; exists {
			hasEncryptedPassword = true
			break
		}
	}

	if !hasEncryptedPassword {
		encryptedPassword, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)

		customData = append(customData, map[string]any{
			"EncryptedPassword": string(encryptedPassword),
		})
	}

	user := fab.New(domain.User{}).Build(customData...)

	if user.Age < 18 {
		user.Age = 18 + (user.Age%50+50)%50
	}

	if user.Role != domain.RoleUser && user.Role != domain.RoleAdmin {
		user.Role = domain.RoleUser
	}

	user.IsDeleted = false
	user.PasswordChangedAt = nil

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	for _, data := range customData {
		if age, ok := data["Age"].(int); ok {
			user.Age = age
		}

		if role, ok := data["Role"].(domain.UserRole); ok {
			user.Role = role
		}
	}

	return user
}
