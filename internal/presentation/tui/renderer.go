package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown using glamour,
// detecting a light or dark background.
func NewRenderer() func(string) (string, error) {
	return newRenderer(glamour.WithAutoStyle())
}

// NewPlainRenderer renders markdown without ANSI sequences, for pipes.
func NewPlainRenderer() func(string) (string, error) {
	return newRenderer(glamour.WithStandardStyle("notty"))
}

func newRenderer(style glamour.TermRendererOption) func(string) (string, error) {
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, err
		}
		return r.Render(markdown)
	}
}

// Styles colors chat lines so system notices stand apart from bot replies.
type Styles struct {
	profile termenv.Profile
}

// NewStyles creates Styles for the given color profile.
func NewStyles(p termenv.Profile) Styles {
	return Styles{profile: p}
}

// Bot styles a bot reply.
func (s Styles) Bot(text string) (string, error) {
	return s.profile.String(text).Foreground(s.profile.Color("#e2e8f0")).String(), nil
}

// System styles a system line. Lines starting with "error" or
// "input rejected" are red; the rest are faint.
func (s Styles) System(line string) (string, error) {
	out := s.profile.String(line)
	switch {
	case strings.HasPrefix(line, "error"), strings.HasPrefix(line, "input rejected"):
		out = out.Foreground(s.profile.Color("#f87171")).Bold()
	default:
		out = out.Foreground(s.profile.Color("#94a3b8")).Italic()
	}
	return out.String(), nil
}
