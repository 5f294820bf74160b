package auth

import "context"

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
	CreateOperator(ctx context.Context, req CreateOperatorRequest) (OperatorResponse, error)
}
