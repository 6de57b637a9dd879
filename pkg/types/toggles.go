package types

import "fmt"

// Theme is the presentation theme preference.
type Theme uint8

// Themes. ThemeSystem follows the terminal background.
const (
	ThemeSystem Theme = iota
	ThemeLight
	ThemeDark
)

var themeNames = [...]string{
	ThemeSystem: "system",
	ThemeLight:  "light",
	ThemeDark:   "dark",
}

func (t Theme) String() string {
	if int(t) < len(themeNames) {
		return themeNames[t]
	}
	return fmt.Sprintf("Theme(%d)", uint8(t))
}

// ParseTheme maps a persisted name to a Theme.
func ParseTheme(s string) (Theme, bool) {
	for i, name := range themeNames {
		if name == s {
			return Theme(i), true
		}
	}
	return ThemeSystem, false
}

func (t Theme) MarshalText() ([]byte, error) {
	if int(t) >= len(themeNames) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTheme, uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Theme) UnmarshalText(text []byte) error {
	parsed, ok := ParseTheme(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, text)
	}
	*t = parsed
	return nil
}

// Toggles holds presentation and feedback preferences. The core stores
// them; rendering and feedback glue reads them.
type Toggles struct {
	Sound   bool  `json:"sound"`
	Haptics bool  `json:"haptics"`
	Theme   Theme `json:"theme"`
	Compact bool  `json:"compact"`
}
