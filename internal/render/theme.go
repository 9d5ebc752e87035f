package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Danondso/micselect/internal/config"
)

// Theme defines the color palette for CLI output.
type Theme struct {
	Name      string
	Primary   lipgloss.Color // title, selected marker
	Secondary lipgloss.Color // headers
	Accent    lipgloss.Color // device ids
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Text      lipgloss.Color // device labels
	Dimmed    lipgloss.Color // hints
	Border    lipgloss.Color // device table frame
	Frame     lipgloss.Border
}

var themes = map[string]Theme{
	"synthwave": {
		Name:      "Synthwave",
		Primary:   lipgloss.Color("#FF6AC1"),
		Secondary: lipgloss.Color("#00E5FF"),
		Accent:    lipgloss.Color("#B388FF"),
		Error:     lipgloss.Color("#FF8A80"),
		Success:   lipgloss.Color("#64FFDA"),
		Warning:   lipgloss.Color("#FFAB40"),
		Text:      lipgloss.Color("#E0E0E0"),
		Dimmed:    lipgloss.Color("#666666"),
		Border:    lipgloss.Color("#7C4DFF"),
		Frame:     lipgloss.RoundedBorder(),
	},
	"everforest": {
		Name:      "Everforest",
		Primary:   lipgloss.Color("#A7C080"),
		Secondary: lipgloss.Color("#7FBBB3"),
		Accent:    lipgloss.Color("#D699B6"),
		Error:     lipgloss.Color("#E67E80"),
		Success:   lipgloss.Color("#83C092"),
		Warning:   lipgloss.Color("#DBBC7F"),
		Text:      lipgloss.Color("#D3C6AA"),
		Dimmed:    lipgloss.Color("#859289"),
		Border:    lipgloss.Color("#4F585E"),
		Frame:     lipgloss.RoundedBorder(),
	},
	"gruvbox": {
		Name:      "Gruvbox",
		Primary:   lipgloss.Color("#FB4934"),
		Secondary: lipgloss.Color("#83A598"),
		Accent:    lipgloss.Color("#D3869B"),
		Error:     lipgloss.Color("#FB4934"),
		Success:   lipgloss.Color("#B8BB26"),
		Warning:   lipgloss.Color("#FABD2F"),
		Text:      lipgloss.Color("#EBDBB2"),
		Dimmed:    lipgloss.Color("#928374"),
		Border:    lipgloss.Color("#665C54"),
		Frame:     lipgloss.ThickBorder(),
	},
	"monochrome": {
		Name:      "Monochrome",
		Primary:   lipgloss.Color("#FFFFFF"),
		Secondary: lipgloss.Color("#CCCCCC"),
		Accent:    lipgloss.Color("#AAAAAA"),
		Error:     lipgloss.Color("#FF0000"),
		Success:   lipgloss.Color("#FFFFFF"),
		Warning:   lipgloss.Color("#CCCCCC"),
		Text:      lipgloss.Color("#FFFFFF"),
		Dimmed:    lipgloss.Color("#888888"),
		Border:    lipgloss.Color("#555555"),
		Frame:     lipgloss.NormalBorder(),
	},
}

// builtinThemes is the set of theme keys that cannot be overridden by custom themes.
var builtinThemes = map[string]bool{
	"synthwave":  true,
	"everforest": true,
	"gruvbox":    true,
	"monochrome": true,
}

// LoadTheme returns the theme with the given name (case-insensitive).
// Falls back to synthwave if the name is not recognized.
func LoadTheme(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return themes["synthwave"]
}

// RegisterCustomThemes adds config custom themes to the theme table. A custom
// theme without a border color frames tables in its secondary color.
// Silently skips entries with empty names or names that collide with
// built-in themes.
func RegisterCustomThemes(custom []config.CustomTheme) {
	for _, ct := range custom {
		key := strings.ToLower(ct.Name)
		if key == "" || builtinThemes[key] {
			continue
		}
		if _, exists := themes[key]; exists {
			continue
		}
		border := ct.Border
		if border == "" {
			border = ct.Secondary
		}
		themes[key] = Theme{
			Name:      ct.Name,
			Primary:   lipgloss.Color(ct.Primary),
			Secondary: lipgloss.Color(ct.Secondary),
			Accent:    lipgloss.Color(ct.Accent),
			Error:     lipgloss.Color(ct.Error),
			Success:   lipgloss.Color(ct.Success),
			Warning:   lipgloss.Color(ct.Warning),
			Text:      lipgloss.Color(ct.Text),
			Dimmed:    lipgloss.Color(ct.Dimmed),
			Border:    lipgloss.Color(border),
			Frame:     lipgloss.RoundedBorder(),
		}
	}
}
