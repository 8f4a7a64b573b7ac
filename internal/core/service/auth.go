package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"eventsapp/internal/core/apperror"
	"eventsapp/internal/core/domain"
	"eventsapp/internal/core/model/request"
	"eventsapp/internal/core/port"
	"eventsapp/internal/core/util"
)

// One generic message for both unknown email and wrong password, so the
// response does not reveal which of the two failed.
const incorrectCredentials = "Incorrect email or password"

type AuthService struct {
	repo port.UserRepository
}

func NewAuthService(repo port.UserRepository) *AuthService {
	return &AuthService{repo}
}

func (as *AuthService) Signup(ctx context.Context, req *request.SignupRequest) (domain.User, error) {
	encrypted, err := util.GenerateEncrypt(req.Password)

	if err != nil {
		slog.Error("Auth#Signup", "generate_encrypt", err)
		return domain.User{}, err
	}

	role := domain.UserRole(req.Role)

	if role == "" {
		role = domain.RoleUser
	}

	user := domain.User{
		Name:              req.Name,
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		Age:               req.Age,
		Role:              role,
		EncryptedPassword: encrypted,
		CreatedAt:         time.Now(),
	}

	saved, err := as.repo.Create(ctx, user)

	if err != nil {
		slog.Error("Auth#Signup", "create", err)
		return domain.User{}, err
	}

	saved.EncryptedPassword = ""

	return saved, nil
}

func (as *AuthService) Login(ctx context.Context, req *request.LoginRequest) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := as.repo.GetByEmailWithPassword(ctx, email)

	if err != nil {
		slog.Error("Auth#Login", "get_by_email", err)
		return domain.User{}, apperror.Unauthorized(incorrectCredentials)
	}

	if err := util.ComparePassword(req.Password, user.EncryptedPassword); err != nil {
		return domain.User{}, apperror.Unauthorized(incorrectCredentials)
	}

	user.EncryptedPassword = ""

	return user, nil
}

func (as *AuthService) ChangePassword(ctx context.Context, userID int, req *request.UpdatePasswordRequest) (domain.User, error) {
	user, err := as.repo.GetByIDWithPassword(ctx, userID)

	if err != nil {
		slog.Error("Auth#ChangePassword", "get_by_id", err)
		return domain.User{}, apperror.Unauthorized("Incorrect password")
	}

	if err := util.ComparePassword(req.Password, user.EncryptedPassword); err != nil {
		return domain.User{}, apperror.Unauthorized("Incorrect password")
	}

	encrypted, err := util.GenerateEncrypt(req.NewPassword)

	if err != nil {
		return domain.User{}, err
	}

	changedAt := time.Now()

	if err := as.repo.UpdatePassword(ctx, user.ID, encrypted, changedAt); err != nil {
		slog.Error("Auth#ChangePassword", "update_password", err)
		return domain.User{}, err
	}

	user.EncryptedPassword = ""
	user.PasswordChangedAt = &changedAt

	return user, nil
}
