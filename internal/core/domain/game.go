package domain

import (
	"fmt"
	"strings"
	"time"
)

// UserGame est un jeu déclaré sur le profil (table user_games).
type UserGame struct {
	ID        string
	UserID    string
	GameName  string
	Platform  string
	Rank      string
	Tags      []string
	CreatedAt time.Time
}

func (g UserGame) Validate() error {
	if strings.TrimSpace(g.GameName) == "" {
		return fmt.Errorf("%w: game name is required", ErrInvalidInput)
	}
	if !IsKnownPlatform(g.Platform) {
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidInput, g.Platform)
	}
	for _, t := range g.Tags {
		if !IsKnownTag(t) {
			return fmt.Errorf("%w: unknown playstyle tag %q", ErrInvalidInput, t)
		}
	}
	return nil
}
