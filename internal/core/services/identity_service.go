package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/johncpakin/pinged/internal/core/domain"
	"github.com/johncpakin/pinged/internal/core/ports"
)

const (
	RouteHome       = "/home"
	RouteOnboarding = "/onboarding"
)

// IdentityService implémente ports.IdentityService
type IdentityService struct {
	repo          ports.UserRepository
	hasher        ports.PasswordHasher
	tokenProvider ports.TokenProvider
	broker        ports.IdentityEventPublisher
}

func NewIdentityService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	token ports.TokenProvider,
	broker ports.IdentityEventPublisher,
) *IdentityService {
	return &IdentityService{
		repo:          repo,
		hasher:        hasher,
		tokenProvider: token,
		broker:        broker,
	}
}

// --- AUTHENTIFICATION ---

func (s *IdentityService) Register(ctx context.Context, cmd ports.RegisterCmd) (*ports.AuthResponse, error) {
	if err := domain.ValidateEmail(cmd.Email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(cmd.Password); err != nil {
		return nil, err
	}

	// 1. Fail Fast : unicité de l'email (la contrainte UNIQUE reste la vraie garantie)
	existing, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(cmd.Email))
	if err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	// 2. Hachage
	hashed, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Agrégat User (validation des invariants dans NewUser)
	user, err := domain.NewUser(cmd.Email, cmd.DisplayName, hashed)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("repository save failed: %w", err)
	}

	resp, err := s.issue(user)
	if err != nil {
		// User créé mais tokens KO : le client refera un login
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	// Best effort : on ne bloque pas l'inscription si le broker est down
	if err := s.broker.PublishUserRegistered(ctx, user.ID, user.Email); err != nil {
		slog.Warn("⚠️ Failed to publish user.registered", "user_id", user.ID, "error", err)
	}

	return resp, nil
}

func (s *IdentityService) Login(ctx context.Context, cmd ports.LoginCmd) (*ports.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(cmd.Email))
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			slog.Error("Login lookup failed", "error", err)
		}
		// On ne dit pas si c'est l'email ou le mot de passe qui est faux
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		slog.Debug("Password mismatch", "user_id", user.ID, "ip", cmd.IP)
		return nil, domain.ErrInvalidCredentials
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, fmt.Errorf("login token gen failed: %w", err)
	}
	return resp, nil
}

func (s *IdentityService) RefreshToken(ctx context.Context, refreshToken string) (*ports.AuthResponse, error) {
	userID, err := s.tokenProvider.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	// Le compte a pu disparaître depuis l'émission du token
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return s.issue(user)
}

func (s *IdentityService) ValidateToken(ctx context.Context, token string) (string, error) {
	userID, err := s.tokenProvider.Validate(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	return userID, nil
}

// NextRoute : où envoyer l'utilisateur après authentification.
func (s *IdentityService) NextRoute(ctx context.Context, userID string) (string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.Onboarded() {
		return RouteHome, nil
	}
	return RouteOnboarding, nil
}

func (s *IdentityService) ChangePassword(ctx context.Context, userID, oldPass, newPass string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(user.PasswordHash, oldPass); err != nil {
		return fmt.Errorf("old password incorrect: %w", domain.ErrInvalidCredentials)
	}
	if err := domain.ValidatePassword(newPass); err != nil {
		return err
	}

	newHash, err := s.hasher.Hash(newPass)
	if err != nil {
		return err
	}
	user.UpdatePassword(newHash)

	return s.repo.Update(ctx, user)
}

func (s *IdentityService) issue(user *domain.User) (*ports.AuthResponse, error) {
	access, refresh, err := s.tokenProvider.GenerateTokens(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.tokenProvider.AccessTTL(),
	}, nil
}
