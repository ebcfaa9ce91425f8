package tui

import (
	"os"
	"strconv"
	"strings"

	"kanban-cli/internal/calendar"
	"kanban-cli/internal/dates"
	"kanban-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette. Everything is an AdaptiveColor so the board stays readable on light and dark
// terminals; faint is only applied on dark backgrounds.

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
	colorMuted          = ac("240", "243")
	colorSurfaceFg      = ac("235", "252")
	colorControlBg      = ac("252", "235")
	colorSelectedBg     = ac("#e9e9e9", "#262626")
	colorSelectedFg     = ac("235", "255")
	colorSelectedBorder = ac("232", "255")
	colorCardBorder     = ac("250", "243")
	colorAccent         = ac("27", "62")
	colorAccentFg       = ac("255", "235")

	colorOverdue = ac("160", "203")
	colorToday   = ac("166", "214")
	colorDone    = ac("28", "114")
	colorError   = ac("196", "160")
	colorSuccess = ac("28", "71")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

// urgencyStyle colours a date label by the card's end-date urgency.
func urgencyStyle(u dates.Urgency) lipgloss.Style {
	switch u {
	case dates.UrgencyOverdue:
		return lipgloss.NewStyle().Foreground(colorOverdue).Bold(true)
	case dates.UrgencyToday:
		return lipgloss.NewStyle().Foreground(colorToday).Bold(true)
	default:
		return styleMuted()
	}
}

func columnStyle(c model.Column) lipgloss.Style {
	switch c {
	case model.ColumnDone:
		return lipgloss.NewStyle().Foreground(colorDone)
	case model.ColumnInProgress:
		return lipgloss.NewStyle().Foreground(colorAccent)
	default:
		return lipgloss.NewStyle().Foreground(colorSurfaceFg)
	}
}

func blockStyle(pos calendar.Position, u dates.Urgency) lipgloss.Style {
	st := lipgloss.NewStyle().Background(colorControlBg).Foreground(colorSurfaceFg)
	switch u {
	case dates.UrgencyOverdue:
		st = st.Foreground(colorOverdue)
	case dates.UrgencyToday:
		st = st.Foreground(colorToday)
	}
	if pos == calendar.PosStart || pos == calendar.PosSingle {
		st = st.Bold(true)
	}
	return st
}

// applyColorProfilePreference picks the lipgloss colour profile for the TUI. Only NO_COLOR is
// honoured; CLICOLOR would otherwise disable colour inside the alt screen.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference fixes background detection for terminals that don't report it.
//
// KANBAN_TUI_THEME=light|dark wins; otherwise COLORFGBG ("fg;bg") is consulted.
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("KANBAN_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}

// isDarkTheme reports the background the markdown renderer should style for.
func isDarkTheme() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("KANBAN_TUI_THEME"))) {
	case "light":
		return false
	case "dark":
		return true
	}
	return lipgloss.HasDarkBackground()
}
