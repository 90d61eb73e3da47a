package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/stylist/pkg/domain"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return PlainRenderer
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PlainRenderer returns the content untouched. Used for non-interactive output.
func PlainRenderer(s string) (string, error) {
	return s + "\n", nil
}

var roleColors = map[domain.Role]string{
	domain.RoleAssistant: "#c084fc",
	domain.RoleUser:      "#38bdf8",
	domain.RoleSystem:    "#9ca3af",
}

// FormatMessage renders one log entry with a coloured role header.
func FormatMessage(m domain.Message, render func(string) (string, error)) (string, error) {
	p := termenv.ColorProfile()
	header := termenv.String(roleLabel(m)).Foreground(p.Color(roleColors[m.Role])).Bold()

	body := m.Content
	if m.HasImage() {
		body = fmt.Sprintf("%s (%s)", m.Content, abbreviate(m.ImageRef, 48))
	}

	rendered, err := render(body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n%s", header, rendered), nil
}

// FormatOutfits lists the catalog as a markdown table, marking liked entries.
func FormatOutfits(outfits []domain.Outfit, liked func(domain.OutfitID) bool) string {
	var sb strings.Builder
	sb.WriteString("| # | Outfit | Description | Liked |\n")
	sb.WriteString("|---|--------|-------------|-------|\n")
	for _, o := range outfits {
		mark := ""
		if liked != nil && liked(o.ID) {
			mark = "♥"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n", o.ID, o.Name, o.Description, mark))
	}
	return sb.String()
}

func roleLabel(m domain.Message) string {
	switch {
	case m.Role == domain.RoleAssistant:
		return "Stylist"
	case m.Role == domain.RoleSystem:
		return "System"
	case m.Kind == domain.KindVoice:
		return "You (voice)"
	case m.Kind == domain.KindImage:
		return "You (photo)"
	default:
		return "You"
	}
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
