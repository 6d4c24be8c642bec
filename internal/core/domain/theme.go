package domain

type Theme string

const (
	ThemeOrange Theme = "orange"
	ThemeBlue   Theme = "blue"
	ThemePink   Theme = "pink"
	ThemePurple Theme = "purple"
	ThemeGreen  Theme = "green"

	DefaultTheme = ThemeOrange
)

type ThemeInfo struct {
	Value     Theme  `json:"value"`
	Name      string `json:"name"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

var Themes = []ThemeInfo{
	{ThemeOrange, "Gaming Orange", "#FF9C00", "#AC3601"},
	{ThemeBlue, "Electric Blue", "#3B82F6", "#1E40AF"},
	{ThemePink, "Neon Pink", "#EC4899", "#BE185D"},
	{ThemePurple, "Cyber Purple", "#8B5CF6", "#6D28D9"},
	{ThemeGreen, "Matrix Green", "#10B981", "#047857"},
}

func (t Theme) Valid() bool {
	for _, info := range Themes {
		if info.Value == t {
			return true
		}
	}
	return false
}
