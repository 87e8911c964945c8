package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the interactive explorer.
type Theme struct {
	Name   string
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Faint  lipgloss.Color
	Value  lipgloss.Color
	Peak   lipgloss.Color
	Error  lipgloss.Color
}

var (
	ThemeBragg = Theme{
		Name:   "bragg",
		Accent: lipgloss.Color("86"),
		Text:   lipgloss.Color("255"),
		Muted:  lipgloss.Color("242"),
		Faint:  lipgloss.Color("238"),
		Value:  lipgloss.Color("213"),
		Peak:   lipgloss.Color("#ff4444"),
		Error:  lipgloss.Color("#ff0000"),
	}

	ThemePhosphor = Theme{
		Name:   "phosphor",
		Accent: lipgloss.Color("#00ff00"),
		Text:   lipgloss.Color("#88ff88"),
		Muted:  lipgloss.Color("#00aa00"),
		Faint:  lipgloss.Color("#005500"),
		Value:  lipgloss.Color("#ccffcc"),
		Peak:   lipgloss.Color("#ffff00"),
		Error:  lipgloss.Color("#ff0000"),
	}

	ThemeMono = Theme{
		Name:   "mono",
		Accent: lipgloss.Color("#ffffff"),
		Text:   lipgloss.Color("#cccccc"),
		Muted:  lipgloss.Color("#888888"),
		Faint:  lipgloss.Color("#444444"),
		Value:  lipgloss.Color("#0088ff"),
		Peak:   lipgloss.Color("#ffaa00"),
		Error:  lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeBragg, ThemePhosphor, ThemeMono}
)

// GetTheme returns the named theme, or the first one when the name is unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Style returns a foreground style for one of the theme colours.
func (t Theme) Style(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}
