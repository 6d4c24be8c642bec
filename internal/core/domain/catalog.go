package domain

import "slices"

// Catalogues proposés par l'onboarding.
var (
	PopularGames = []string{
		"League of Legends", "Valorant", "CS2", "Overwatch 2", "Apex Legends",
		"Rocket League", "Fortnite", "Call of Duty", "Dota 2", "Minecraft",
	}

	Platforms = []string{"PC", "PlayStation 5", "Xbox Series X/S", "Nintendo Switch", "Mobile"}

	PlaystyleTags = []string{
		"Competitive", "Casual", "Chill", "Sweaty", "Coach", "Learning",
		"Team Player", "IGL", "Support", "Carry", "Flex",
	}

	Timezones = []string{
		"America/Los_Angeles", "America/Denver", "America/Chicago", "America/New_York",
		"Europe/London", "Europe/Paris", "Europe/Berlin", "Asia/Tokyo", "Asia/Seoul",
		"Australia/Sydney",
	}

	Regions = []string{"North America", "Europe", "Asia", "Oceania", "South America", "Africa"}

	Days = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
)

func IsKnownPlatform(p string) bool { return slices.Contains(Platforms, p) }
func IsKnownTag(t string) bool      { return slices.Contains(PlaystyleTags, t) }
func IsKnownRegion(r string) bool   { return slices.Contains(Regions, r) }
func IsKnownTimezone(tz string) bool {
	return slices.Contains(Timezones, tz)
}
