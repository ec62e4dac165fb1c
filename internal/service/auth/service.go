package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/auth"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/user"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/database"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/jwt"
)

// TokenRepository stores refresh tokens so they can be revoked. Tokens are
// stored hashed.
type TokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64) error
	IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

type AuthServiceImpl struct {
	db database.Transactor
	user.UserRepository
	jwt.Service
	TokenRepository
}

func NewAuthService(
	db database.Transactor,
	userRepository user.UserRepository,
	jwtService jwt.Service,
	tokenRepository TokenRepository,
) auth.AuthService {
	return &AuthServiceImpl{
		db:              db,
		UserRepository:  userRepository,
		Service:         jwtService,
		TokenRepository: tokenRepository,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// issueTokens generates an access/refresh pair and stores the refresh token.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User) (auth.TokenPair, error) {
	var pair auth.TokenPair

	err := a.db.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		pair.AccessToken, pair.AccessExpiresAt, err = a.Service.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}

		pair.RefreshToken, pair.RefreshExpiresAt, err = a.Service.GenerateRefreshToken(u.ID)
		if err != nil {
			return fmt.Errorf("failed to generate refresh token: %w", err)
		}

		if err := a.TokenRepository.CreateRefreshToken(ctx, u.ID, pair.RefreshToken, pair.RefreshExpiresAt); err != nil {
			return fmt.Errorf("failed to store refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenPair{}, err
	}

	return pair, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	if _, err := a.UserRepository.GetByEmail(ctx, req.Email); err == nil {
		return auth.LoginResponse{}, user.ErrEmailExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return auth.LoginResponse{}, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.UserRepository.Create(ctx, user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := a.issueTokens(ctx, created)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		TokenPair: pair,
		UserID:    created.ID,
		Name:      created.Name,
		Email:     created.Email,
		IsAdmin:   created.IsAdmin,
	}, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	u, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	pair, err := a.issueTokens(ctx, u)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		TokenPair: pair,
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
	}, nil
}

// Refresh implements auth.AuthService. The presented token is revoked and a
// fresh pair issued, so a refresh token only ever works once.
func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	userID, err := a.Service.ParseRefreshToken(refreshToken)
	if err != nil {
		return auth.TokenPair{}, auth.ErrInvalidToken
	}

	revoked, err := a.TokenRepository.IsRefreshTokenRevoked(ctx, refreshToken)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.TokenPair{}, auth.ErrRefreshTokenRevoked
	}

	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenPair{}, auth.ErrUserNotFound
		}
		return auth.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}

	var pair auth.TokenPair
	err = a.db.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.TokenRepository.RevokeRefreshToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}

		var err error
		pair.AccessToken, pair.AccessExpiresAt, err = a.Service.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}
		pair.RefreshToken, pair.RefreshExpiresAt, err = a.Service.GenerateRefreshToken(u.ID)
		if err != nil {
			return fmt.Errorf("failed to generate refresh token: %w", err)
		}
		if err := a.TokenRepository.CreateRefreshToken(ctx, u.ID, pair.RefreshToken, pair.RefreshExpiresAt); err != nil {
			return fmt.Errorf("failed to store refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenPair{}, err
	}

	return pair, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if _, err := a.Service.ParseRefreshToken(refreshToken); err != nil {
		return auth.ErrInvalidToken
	}
	if err := a.TokenRepository.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
