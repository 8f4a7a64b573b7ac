package port

import (
	"context"

	"eventsapp/internal/core/domain"
	"eventsapp/internal/core/model/request"
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (domain.User, error)
	Login(ctx context.Context, req *request.LoginRequest) (domain.User, error)
	ChangePassword(ctx context.Context, userID int, req *request.UpdatePasswordRequest) (domain.User, error)
}
