package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds the chrome styles around the chart canvas.
type Theme struct {
	Primary lipgloss.AdaptiveColor
	Subtext lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor

	Title     lipgloss.Style
	Panel     lipgloss.Style
	Heading   lipgloss.Style
	Muted     lipgloss.Style
	Popup     lipgloss.Style
	Status    lipgloss.Style
	StatusErr lipgloss.Style
}

// DefaultTheme returns the standard theme.
func DefaultTheme() Theme {
	t := Theme{
		Primary: lipgloss.AdaptiveColor{Light: "#99000d", Dark: "#fc9272"},
		Subtext: lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"},
		Border:  lipgloss.AdaptiveColor{Light: "#cccccc", Dark: "#444444"},
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	t.Panel = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Border).
		PaddingLeft(1)
	t.Heading = lipgloss.NewStyle().Bold(true)
	t.Muted = lipgloss.NewStyle().Foreground(t.Subtext)
	t.Popup = lipgloss.NewStyle().Bold(true)
	t.Status = lipgloss.NewStyle().Foreground(t.Subtext)
	t.StatusErr = lipgloss.NewStyle().Foreground(ThemeFg("#cb181d")).Bold(true)
	return t
}
