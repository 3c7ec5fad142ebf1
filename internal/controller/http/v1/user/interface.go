package user

import (
	"context"

	"employee/backend/internal/service/account"
)

type Account interface {
	Signup(ctx context.Context, request account.SignupRequest) (int64, error)
	Login(ctx context.Context, request account.LoginRequest) (string, error)
}
