package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/auth"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	operatorRepo auth.OperatorRepository
	jwtService   jwt.Service
}

func NewAuthService(operatorRepo auth.OperatorRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		operatorRepo: operatorRepo,
		jwtService:   jwtService,
	}
}

// HashPassword returns the bcrypt hash stored for an operator.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	operator, err := a.operatorRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, auth.ErrOperatorNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get operator by email: %w", err)
	}
	if !operator.IsActive {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.jwtService.GenerateAccessToken(operator.ID, operator.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		Role:                 operator.Role,
	}, nil
}

func (a *AuthServiceImpl) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return auth.ErrInvalidToken
	}
	a.jwtService.RevokeToken(accessToken)
	return nil
}

func (a *AuthServiceImpl) CreateOperator(ctx context.Context, req auth.CreateOperatorRequest) (auth.OperatorResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.OperatorResponse{}, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return auth.OperatorResponse{}, err
	}
	operator, err := a.operatorRepo.Create(ctx, auth.Operator{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	})
	if err != nil {
		return auth.OperatorResponse{}, err
	}
	return auth.NewOperatorResponse(operator), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
