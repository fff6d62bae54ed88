package ui

import (
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestMain(m *testing.M) {
	// Render styles without escape sequences so views can be matched as text.
	lipgloss.SetColorProfile(termenv.Ascii)

	os.Exit(m.Run())
}
