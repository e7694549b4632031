package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                       string
	Title, Muted, Accent, Success, Error, Pend lipgloss.Style
	Selected, Done, Help                       lipgloss.Style
	Border                                     lipgloss.Border
	BorderColor                                lipgloss.Color
	BoxUnchecked, BoxChecked                   string
	SymDone, SymPending, SymOK, SymFail        string
}

var current = themeFor("classic")

// SetTheme switches the palette; unknown names fall back to classic.
func SetTheme(name string) {
	current = themeFor(name)
}

// SetColor turns colour output off (plain ASCII) or back to auto-detect.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Current exposes what renderers need.
func Current() Theme { return current }

func themeFor(name string) Theme {
	base := lipgloss.NewStyle()
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:         "neon",
			Title:        base.Bold(true).Foreground(lipgloss.Color("13")),
			Muted:        base.Foreground(lipgloss.Color("8")),
			Accent:       base.Foreground(lipgloss.Color("14")),
			Success:      base.Foreground(lipgloss.Color("10")),
			Error:        base.Foreground(lipgloss.Color("9")).Bold(true),
			Pend:         base.Foreground(lipgloss.Color("11")),
			Selected:     base.Bold(true).Foreground(lipgloss.Color("13")),
			Done:         base.Faint(true).Strikethrough(true),
			Help:         base.Faint(true),
			Border:       lipgloss.RoundedBorder(),
			BorderColor:  lipgloss.Color("13"),
			BoxUnchecked: "◻", BoxChecked: "◼",
			SymDone: "✔", SymPending: "•", SymOK: "✔", SymFail: "✖",
		}
	case "mono":
		return Theme{
			Name:         "mono",
			Title:        base.Bold(true),
			Muted:        base,
			Accent:       base,
			Success:      base,
			Error:        base.Bold(true),
			Pend:         base,
			Selected:     base.Reverse(true),
			Done:         base,
			Help:         base,
			Border:       lipgloss.NormalBorder(),
			BorderColor:  lipgloss.Color(""),
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-", SymOK: "ok", SymFail: "error:",
		}
	default:
		return Theme{
			Name:         "classic",
			Title:        base.Bold(true),
			Muted:        base.Faint(true),
			Accent:       base.Foreground(lipgloss.Color("12")),
			Success:      base.Foreground(lipgloss.Color("42")),
			Error:        base.Foreground(lipgloss.Color("9")).Bold(true),
			Pend:         base.Foreground(lipgloss.Color("214")),
			Selected:     base.Bold(true).Reverse(true),
			Done:         base.Faint(true).Strikethrough(true),
			Help:         base.Faint(true),
			Border:       lipgloss.RoundedBorder(),
			BorderColor:  lipgloss.Color("8"),
			BoxUnchecked: "☐", BoxChecked: "☑",
			SymDone: "✔", SymPending: "•", SymOK: "✔", SymFail: "✖",
		}
	}
}
