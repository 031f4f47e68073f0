// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}
	if theme.Box.Render("test") == "" {
		t.Error("NewTheme() should initialize Box style")
	}
}

func TestNewThemeWithMode(t *testing.T) {
	tests := []struct {
		mode     string
		wantDark bool
		glamour  string
	}{
		{ModeDark, true, "dark"},
		{ModeLight, false, "light"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			theme := NewThemeWithMode(tt.mode)
			if theme.IsDark != tt.wantDark {
				t.Errorf("IsDark = %v, want %v", theme.IsDark, tt.wantDark)
			}
			if got := theme.GlamourStyle(); got != tt.glamour {
				t.Errorf("GlamourStyle() = %q, want %q", got, tt.glamour)
			}
			if lipgloss.HasDarkBackground() != tt.wantDark {
				t.Errorf("default renderer not switched to dark=%v", tt.wantDark)
			}
		})
	}
}

func TestThemeStyles(t *testing.T) {
	theme := NewThemeWithMode(ModeDark)

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Title", theme.Title},
		{"Label", theme.Label},
		{"Username", theme.Username},
		{"Field", theme.Field},
		{"FieldActive", theme.FieldActive},
		{"Mask", theme.Mask},
		{"Cursor", theme.Cursor},
		{"Status", theme.Status},
		{"Hint", theme.Hint},
		{"HintKey", theme.HintKey},
		{"Notice", theme.Notice},
	}

	for _, s := range styles {
		if s.style.Render("test") == "" {
			t.Errorf("%s style should be initialized", s.name)
		}
	}

	if theme.Backdrop != lipgloss.Color(SurfaceDim.Dark) {
		t.Errorf("Backdrop = %v, want dark surface", theme.Backdrop)
	}
}

func TestThemeFieldHasBorder(t *testing.T) {
	theme := NewThemeWithMode(ModeLight)
	if lipgloss.Height(theme.Field.Render("***")) != 3 {
		t.Error("Field should render a one-line box with top and bottom border")
	}
	if lipgloss.Height(theme.FieldActive.Render("***")) != 3 {
		t.Error("FieldActive should keep the Field border")
	}
}
