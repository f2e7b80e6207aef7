package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer is the lipgloss renderer bound to stdout. Color is dropped when
// stdout is not a terminal so piped listings stay plain.
var Renderer = newRenderer()

func newRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(os.Stdout)
	if termenv.NewOutput(os.Stdout).Profile == termenv.Ascii {
		r.SetColorProfile(termenv.Ascii)
	} else {
		r.SetColorProfile(termenv.ANSI256)
	}
	return r
}

// Predefined styles for consistent CLI output.
var (
	Green  = Renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	Cyan   = Renderer.NewStyle().Foreground(lipgloss.Color("14"))
	Red    = Renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	Yellow = Renderer.NewStyle().Foreground(lipgloss.Color("11"))
	White  = Renderer.NewStyle().Foreground(lipgloss.Color("15"))
	Dim    = Renderer.NewStyle().Foreground(lipgloss.Color("245"))

	badge = Renderer.NewStyle().Width(12)
)

// Check renders a success line.
func Check(msg string) string {
	return Green.Render("✓") + " " + msg
}

// Warn renders a warning line.
func Warn(msg string) string {
	return Yellow.Render("!") + " " + msg
}

// Field renders an aligned "label: value" line for show-style output.
func Field(label, value string) string {
	return Cyan.Render(lipgloss.NewStyle().Width(14).Render(label+":")) + White.Render(value)
}

// Badge renders a fixed-width entry kind label, colored by kind.
func Badge(kind string) string {
	style := Dim
	switch kind {
	case "folder":
		style = Cyan
	case "application":
		style = Green
	case "homebrew":
		style = Yellow
	}
	return badge.Inherit(style).Render(kind)
}
