package auth

import (
	"context"

	"github.com/kiki1226/Coachtech-kintai/internal/pkg/validator"
)

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is invalid",
		})
	}

	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters long",
		})
	}
	if r.Password != r.ConfirmPassword {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_password",
			Message: "passwords do not match",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TokenPair struct {
	AccessToken      string `json:"access_token"`
	AccessExpiresAt  int64  `json:"access_expires_at"`
	RefreshToken     string `json:"-"`
	RefreshExpiresAt int64  `json:"-"`
}

type LoginResponse struct {
	TokenPair
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// AuthService covers the identity boundary: the attendance core only ever
// sees employee IDs extracted from verified claims.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}
