package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/smallwins/internal/constants"
)

// Palette is one color scheme of the app.
type Palette struct {
	Background    lipgloss.Color
	Card          lipgloss.Color
	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	Border        lipgloss.Color
	Accent        lipgloss.Color
	AccentLight   lipgloss.Color
}

var (
	darkPalette = Palette{
		Background:    "#1a1410",
		Card:          "#2a2419",
		Text:          "#faf8f3",
		TextSecondary: "#8a8075",
		Border:        "#3a3429",
		Accent:        "#d4916f",
		AccentLight:   "#e8b89a",
	}
	lightPalette = Palette{
		Background:    "#faf8f3",
		Card:          "#fefdfb",
		Text:          "#2a2419",
		TextSecondary: "#4a4035",
		Border:        "#e8e6e1",
		Accent:        "#d4916f",
		AccentLight:   "#e8b89a",
	}
)

// hasDarkBackground is swapped in tests
var hasDarkBackground = lipgloss.HasDarkBackground

// PaletteFor resolves a theme preference; "system" follows the terminal.
func PaletteFor(theme string) Palette {
	switch theme {
	case constants.ThemeDark:
		return darkPalette
	case constants.ThemeLight:
		return lightPalette
	}
	if hasDarkBackground() {
		return darkPalette
	}
	return lightPalette
}

type Styles struct {
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Doc         lipgloss.Style
	Title       lipgloss.Style
	Muted       lipgloss.Style
	Streak      lipgloss.Style
	Success     lipgloss.Style
	Danger      lipgloss.Style
	Card        lipgloss.Style
	Counter     lipgloss.Style
	CounterLow  lipgloss.Style
}

func NewStyles(p Palette) Styles {
	return Styles{
		ActiveTab: lipgloss.NewStyle().
			Foreground(p.Accent).
			Background(p.Card).
			Padding(0, 1).
			Bold(true),
		InactiveTab: lipgloss.NewStyle().
			Foreground(p.TextSecondary).
			Padding(0, 1),
		Doc:     lipgloss.NewStyle().Margin(1, 2),
		Title:   lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(p.TextSecondary),
		Streak:  lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Success: lipgloss.NewStyle().Foreground(p.AccentLight).Bold(true),
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("#c0563f")).Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Counter:    lipgloss.NewStyle().Foreground(p.TextSecondary),
		CounterLow: lipgloss.NewStyle().Foreground(p.Accent),
	}
}
