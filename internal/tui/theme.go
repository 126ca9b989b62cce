package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"fieldnotes/internal/derive"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds, so colors are
// lipgloss.AdaptiveColor pairs and "faint" styling is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorChromeFg   lipgloss.TerminalColor = ac("240", "245")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorSurfaceFg  lipgloss.TerminalColor = ac("235", "252")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorError      lipgloss.TerminalColor = ac("160", "203")

	colorOverdue lipgloss.TerminalColor = ac("160", "203")
	colorUrgent  lipgloss.TerminalColor = ac("166", "208")
	colorSoon    lipgloss.TerminalColor = ac("136", "179")
	colorStar    lipgloss.TerminalColor = ac("136", "220")
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
	styleTab      = lipgloss.NewStyle().Foreground(colorChromeFg).Padding(0, 1)
	styleTabOn    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1).Underline(true)
	styleSelected = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg)
	styleError    = lipgloss.NewStyle().Foreground(colorError)
	styleStar     = lipgloss.NewStyle().Foreground(colorStar)
	styleSection  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginTop(1)
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func urgencyStyle(u derive.Urgency) lipgloss.Style {
	switch u {
	case derive.UrgencyOverdue:
		return lipgloss.NewStyle().Bold(true).Foreground(colorOverdue)
	case derive.UrgencyUrgent:
		return lipgloss.NewStyle().Foreground(colorUrgent)
	case derive.UrgencySoon:
		return lipgloss.NewStyle().Foreground(colorSoon)
	default:
		return styleMuted()
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which can accidentally
// disable colors in a TUI. Here we only honor NO_COLOR and otherwise follow the terminal.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && profile != termenv.TrueColor {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Priority:
// 1) FIELDNOTES_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("15;0" = fg;bg)
func applyThemePreference() {
	if dark, ok := darkBackgroundPreference(); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}

// darkBackgroundPreference reads the background from the environment only; it never
// queries the terminal.
func darkBackgroundPreference() (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("FIELDNOTES_TUI_THEME"))) {
	case "light":
		return false, true
	case "dark":
		return true, true
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			// Common xterm palette: 0-6 dark colors, 7-15 light colors.
			return bg < 7, true
		}
	}
	return false, false
}
