package domain

import (
	"fmt"
	"strings"
)

const OnboardingSteps = 3

// Profile : champs publics saisis à l'étape 1.
type Profile struct {
	DisplayName string
	Username    string
	AvatarURL   string
	Bio         string
	Region      string
	Timezone    string
}

// OnboardingDraft est l'état du wizard : 1 profil, 2 jeux, 3 disponibilités.
type OnboardingDraft struct {
	Profile      Profile
	Games        []UserGame
	Availability []AvailabilitySlot
}

// ValidateStep vérifie qu'on peut quitter l'étape donnée.
func (d OnboardingDraft) ValidateStep(step int) error {
	switch step {
	case 1:
		if strings.TrimSpace(d.Profile.DisplayName) == "" {
			return ErrDisplayNameMissing
		}
		if err := ValidateUsername(d.Profile.Username); err != nil {
			return err
		}
		if d.Profile.Region != "" && !IsKnownRegion(d.Profile.Region) {
			return fmt.Errorf("%w: unknown region %q", ErrInvalidInput, d.Profile.Region)
		}
		if d.Profile.Timezone != "" && !IsKnownTimezone(d.Profile.Timezone) {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, d.Profile.Timezone)
		}
		return nil
	case 2:
		for i, g := range d.Games {
			if err := g.Validate(); err != nil {
				return fmt.Errorf("game #%d: %w", i+1, err)
			}
		}
		return nil
	case 3:
		for i, s := range d.Availability {
			if err := s.Validate(); err != nil {
				return fmt.Errorf("slot #%d: %w", i+1, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown onboarding step %d", ErrInvalidInput, step)
	}
}

// Validate passe toutes les étapes dans l'ordre.
func (d OnboardingDraft) Validate() error {
	for step := 1; step <= OnboardingSteps; step++ {
		if err := d.ValidateStep(step); err != nil {
			return err
		}
	}
	return nil
}
