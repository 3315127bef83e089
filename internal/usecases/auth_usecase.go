package usecases

import (
	"context"
	"strings"

	"wallet-registry.backend/internal/domain/entities"
	domainerrors "wallet-registry.backend/internal/domain/errors"
	"wallet-registry.backend/internal/domain/repositories"
	"wallet-registry.backend/pkg/crypto"
	"wallet-registry.backend/pkg/jwt"
)

// AuthUsecase handles account creation and token issuance. It is the
// minimal identity layer the registry needs: every wallet operation requires
// a token resolving to a principal id.
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase.
func NewAuthUsecase(userRepo repositories.UserRepository, jwtService *jwt.JWTService) *AuthUsecase {
	return &AuthUsecase{userRepo: userRepo, jwtService: jwtService}
}

// Register creates an account on the free plan and issues a token pair.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, *jwt.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || len(input.Password) < 8 {
		return nil, nil, domainerrors.ErrBadRequest
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &entities.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		Plan:         entities.PlanFree,
		PasswordHash: hash,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, user.Plan)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Login verifies credentials and issues a token pair.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.User, *jwt.TokenPair, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, nil, domainerrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, nil, domainerrors.ErrInvalidCredentials
	}

	tokens, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, user.Plan)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh validates a refresh token and issues a fresh token pair.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		if err == jwt.ErrExpiredToken {
			return nil, domainerrors.ErrTokenExpired
		}
		return nil, domainerrors.ErrUnauthorized
	}

	// Re-read the user so a plan change since issuance is reflected.
	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Email, user.Plan)
}
