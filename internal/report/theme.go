package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for terminal output.
type Theme struct {
	Name    string
	Primary lipgloss.Color // pipeline names, "Done!"
	Label   lipgloss.Color // field labels
	Value   lipgloss.Color // paths and numbers
	Error   lipgloss.Color // failures
	Warning lipgloss.Color // hot frame counts
	Dimmed  lipgloss.Color // secondary text
}

var themes = map[string]Theme{
	"ember": {
		Name:    "Ember",
		Primary: lipgloss.Color("#FF7A29"),
		Label:   lipgloss.Color("#FFB86C"),
		Value:   lipgloss.Color("#F8E3C4"),
		Error:   lipgloss.Color("#FF5555"),
		Warning: lipgloss.Color("#F1FA8C"),
		Dimmed:  lipgloss.Color("#7A6A5A"),
	},
	"ash": {
		Name:    "Ash",
		Primary: lipgloss.Color("#C0C5CE"),
		Label:   lipgloss.Color("#8FA1B3"),
		Value:   lipgloss.Color("#EFF1F5"),
		Error:   lipgloss.Color("#BF616A"),
		Warning: lipgloss.Color("#EBCB8B"),
		Dimmed:  lipgloss.Color("#65737E"),
	},
	"monochrome": {
		Name:    "Monochrome",
		Primary: lipgloss.Color("#FFFFFF"),
		Label:   lipgloss.Color("#CCCCCC"),
		Value:   lipgloss.Color("#FFFFFF"),
		Error:   lipgloss.Color("#FF0000"),
		Warning: lipgloss.Color("#CCCCCC"),
		Dimmed:  lipgloss.Color("#888888"),
	},
}

// themeOrder lists the built-in themes.
var themeOrder = []string{"ember", "ash", "monochrome"}

// ThemeNames returns the names of all available built-in themes.
func ThemeNames() []string {
	return themeOrder
}

// LoadTheme returns the theme with the given name (case-insensitive).
// Falls back to ember if the name is not recognized.
func LoadTheme(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return themes["ember"]
}

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	err     lipgloss.Style
	warning lipgloss.Style
	dimmed  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		label:   lipgloss.NewStyle().Foreground(t.Label),
		value:   lipgloss.NewStyle().Foreground(t.Value),
		err:     lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		warning: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		dimmed:  lipgloss.NewStyle().Foreground(t.Dimmed),
	}
}
