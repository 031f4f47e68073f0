// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewThemeWithMode.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds the styles of the lock screen.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Backdrop fills the whole terminal behind the box.
	Backdrop lipgloss.Color
	Box      lipgloss.Style
	Title    lipgloss.Style

	Label    lipgloss.Style
	Username lipgloss.Style

	// Field is the credential box; FieldActive while editing.
	Field       lipgloss.Style
	FieldActive lipgloss.Style
	Mask        lipgloss.Style
	Cursor      lipgloss.Style

	Status  lipgloss.Style
	Hint    lipgloss.Style
	HintKey lipgloss.Style
	Notice  lipgloss.Style
}

// NewTheme creates a theme for the detected terminal background.
func NewTheme() *Theme {
	return NewThemeWithMode(ModeAuto)
}

// NewThemeWithMode creates a theme, forcing the background to dark or light
// unless mode is "auto". Unknown modes behave like "auto".
func NewThemeWithMode(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	// AdaptiveColor resolves against the default renderer.
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// GlamourStyle names the glamour standard style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return ModeDark
	}
	return ModeLight
}

func (t *Theme) initStyles() {
	if t.IsDark {
		t.Backdrop = lipgloss.Color(SurfaceDim.Dark)
	} else {
		t.Backdrop = lipgloss.Color(SurfaceDim.Light)
	}

	t.Box = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Purple).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Label = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.Username = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	t.Field = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.FieldActive = t.Field.
		BorderForeground(Purple)

	t.Mask = lipgloss.NewStyle().
		Foreground(Amber)

	t.Cursor = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Amber)

	t.Status = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.Hint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.HintKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.Notice = lipgloss.NewStyle().
		Foreground(TextPrimary)
}
