package auth

import "github.com/vt-ctyhp/attendance-system-sub004/internal/pkg/validator"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validator.Struct(r)
}

type CreateOperatorRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role" validate:"required,oneof=admin manager viewer"`
}

func (r *CreateOperatorRequest) Validate() error {
	return validator.Struct(r)
}

type TokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
	Role                 Role   `json:"role"`
}

type OperatorResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func NewOperatorResponse(o Operator) OperatorResponse {
	return OperatorResponse{ID: o.ID, Email: o.Email, Role: o.Role}
}
