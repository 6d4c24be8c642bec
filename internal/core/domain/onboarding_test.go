package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDraft() OnboardingDraft {
	return OnboardingDraft{
		Profile: Profile{DisplayName: "Player One", Username: "player_one", Region: "Europe", Timezone: "Europe/Paris"},
		Games: []UserGame{
			{GameName: "Valorant", Platform: "PC", Rank: "Gold 2", Tags: []string{"Competitive", "IGL"}},
		},
		Availability: []AvailabilitySlot{NewDefaultSlot(5)},
	}
}

func TestOnboardingDraftValidate(t *testing.T) {
	assert.NoError(t, validDraft().Validate())

	tests := []struct {
		name   string
		mutate func(d *OnboardingDraft)
		step   int
		want   error
	}{
		{"missing display name", func(d *OnboardingDraft) { d.Profile.DisplayName = " " }, 1, ErrDisplayNameMissing},
		{"short username", func(d *OnboardingDraft) { d.Profile.Username = "ab" }, 1, ErrInvalidUsername},
		{"unknown region", func(d *OnboardingDraft) { d.Profile.Region = "Moon" }, 1, ErrInvalidInput},
		{"game without name", func(d *OnboardingDraft) { d.Games[0].GameName = "" }, 2, ErrInvalidInput},
		{"unknown platform", func(d *OnboardingDraft) { d.Games[0].Platform = "Dreamcast" }, 2, ErrInvalidInput},
		{"unknown tag", func(d *OnboardingDraft) { d.Games[0].Tags = []string{"Toxic"} }, 2, ErrInvalidInput},
		{"bad day", func(d *OnboardingDraft) { d.Availability[0].DayOfWeek = 7 }, 3, ErrInvalidInput},
		{"unpadded hour", func(d *OnboardingDraft) { d.Availability[0].StartTime = "9:00" }, 3, ErrInvalidInput},
		{"end before start", func(d *OnboardingDraft) { d.Availability[0].EndTime = "17:00" }, 3, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			assert.ErrorIs(t, d.ValidateStep(tt.step), tt.want)
			assert.ErrorIs(t, d.Validate(), tt.want)
		})
	}

	assert.ErrorIs(t, validDraft().ValidateStep(4), ErrInvalidInput)
}

func TestEmptyGamesAndSlotsAreValid(t *testing.T) {
	d := validDraft()
	d.Games = nil
	d.Availability = nil
	assert.NoError(t, d.Validate())
}
