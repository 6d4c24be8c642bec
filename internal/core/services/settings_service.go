package services

import (
	"context"
	"log/slog"

	"github.com/johncpakin/pinged/internal/core/domain"
	"github.com/johncpakin/pinged/internal/core/ports"
)

type settingsService struct {
	repo ports.SettingsRepository
}

func NewSettingsService(repo ports.SettingsRepository) ports.SettingsService {
	return &settingsService{repo: repo}
}

// GetTheme retombe sur le thème par défaut : une préférence illisible ne casse pas l'affichage.
func (s *settingsService) GetTheme(ctx context.Context, userID string) (domain.Theme, error) {
	theme, err := s.repo.GetTheme(ctx, userID)
	if err != nil {
		slog.Warn("⚠️ Theme lookup failed, using default", "user_id", userID, "error", err)
		return domain.DefaultTheme, nil
	}
	if !theme.Valid() {
		return domain.DefaultTheme, nil
	}
	return theme, nil
}

func (s *settingsService) SetTheme(ctx context.Context, userID string, theme domain.Theme) error {
	if !theme.Valid() {
		return domain.ErrInvalidTheme
	}
	return s.repo.SetTheme(ctx, userID, theme)
}

func (s *settingsService) Themes() []domain.ThemeInfo {
	return domain.Themes
}
