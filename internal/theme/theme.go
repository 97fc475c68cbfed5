// Package theme holds the colors used to show focus and list state.
package theme

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// ID identifies a color theme.
type ID string

const (
	Default ID = "default"
	Mono    ID = "mono"
)

// Colors defines all colors used by the dashboard. A nil color means the
// terminal default.
type Colors struct {
	// Border colors by focus state
	Border         color.Color
	BorderSelected color.Color
	BorderActive   color.Color

	// List rows
	SelectionFg color.Color
	SelectionBg color.Color
	Muted       color.Color

	// Method badges
	MethodGet    color.Color
	MethodPost   color.Color
	MethodPut    color.Color
	MethodPatch  color.Color
	MethodDelete color.Color
	MethodOther  color.Color
}

// Theme is a named color set.
type Theme struct {
	ID     ID
	Name   string
	Colors Colors
	// Syntax names the chroma style used for highlighted bodies.
	Syntax string
}

// DefaultTheme is a Gruvbox-flavored palette.
func DefaultTheme() Theme {
	return Theme{
		ID:     Default,
		Name:   "Default",
		Syntax: "gruvbox",
		Colors: Colors{
			BorderSelected: lipgloss.Color("#fabd2f"), // yellow
			BorderActive:   lipgloss.Color("#83a598"), // blue
			SelectionFg:    lipgloss.Color("#282828"),
			SelectionBg:    lipgloss.Color("#83a598"),
			Muted:          lipgloss.Color("#928374"),
			MethodGet:      lipgloss.Color("#b8bb26"),
			MethodPost:     lipgloss.Color("#fabd2f"),
			MethodPut:      lipgloss.Color("#83a598"),
			MethodPatch:    lipgloss.Color("#d3869b"),
			MethodDelete:   lipgloss.Color("#fb4934"),
			MethodOther:    lipgloss.Color("#8ec07c"),
		},
	}
}

// MonoTheme uses the basic ANSI palette only.
func MonoTheme() Theme {
	return Theme{
		ID:     Mono,
		Name:   "Mono",
		Syntax: "bw",
		Colors: Colors{
			BorderSelected: ansi.White,
			BorderActive:   ansi.BrightWhite,
			SelectionFg:    ansi.Black,
			SelectionBg:    ansi.White,
			Muted:          ansi.BrightBlack,
		},
	}
}

// Available returns all predefined themes.
func Available() []Theme {
	return []Theme{DefaultTheme(), MonoTheme()}
}

// ByID returns the theme with the given id, falling back to the default.
func ByID(id string) Theme {
	for _, t := range Available() {
		if string(t.ID) == strings.ToLower(strings.TrimSpace(id)) {
			return t
		}
	}
	return DefaultTheme()
}

// Next cycles to the theme after t.
func Next(t Theme) Theme {
	themes := Available()
	for i, candidate := range themes {
		if candidate.ID == t.ID {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

// MethodColor returns the badge color for an HTTP method.
func (c Colors) MethodColor(method string) color.Color {
	switch strings.ToUpper(method) {
	case "GET":
		return c.MethodGet
	case "POST":
		return c.MethodPost
	case "PUT":
		return c.MethodPut
	case "PATCH":
		return c.MethodPatch
	case "DELETE":
		return c.MethodDelete
	default:
		return c.MethodOther
	}
}
