// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lockscreen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ttylock/internal/lock"
	"github.com/jeranaias/ttylock/internal/ui/styles"
	"github.com/jeranaias/ttylock/internal/util"
)

const (
	// fieldWidth is the number of mask cells visible in the credential box.
	fieldWidth = 24

	maxBoxWidth = 60
	minBoxWidth = 34
)

// Layout is everything Render needs besides the session snapshot.
type Layout struct {
	Width  int
	Height int
	Title  string
	// Notice is already rendered (see RenderNotice).
	Notice string
	Theme  *styles.Theme
}

// Render draws the lock screen for snap. It has no side effects and reads
// nothing but its arguments.
func Render(snap lock.Snapshot, layout Layout) string {
	if snap.Mode == lock.ModeUnlocked {
		return ""
	}
	theme := layout.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	boxWidth := layout.Width - 8
	if boxWidth > maxBoxWidth {
		boxWidth = maxBoxWidth
	}
	if boxWidth < minBoxWidth {
		boxWidth = minBoxWidth
	}
	inner := boxWidth - 8

	var parts []string

	title := strings.TrimSpace(layout.Title)
	if title == "" {
		title = "TERMINAL LOCKED"
	}
	parts = append(parts, theme.Title.Render(util.TruncateWidth(styles.StatusIndicators.Locked+" "+title, inner)))
	parts = append(parts, "")

	label := "Username: "
	name := util.TruncateWidth(snap.Identity, inner-util.StringWidth(label))
	parts = append(parts, theme.Label.Render(label)+theme.Username.Render(name))
	parts = append(parts, "")

	parts = append(parts, renderField(snap, theme))

	switch {
	case snap.Status != "":
		parts = append(parts, theme.Status.Render(util.TruncateWidth(styles.StatusIndicators.Error+" "+snap.Status, inner)))
	case snap.Mode == lock.ModeIdle && snap.FailedCount > 0:
		parts = append(parts, theme.Hint.Render(fmt.Sprintf("Failed attempts: %d", snap.FailedCount)))
	default:
		parts = append(parts, "")
	}
	parts = append(parts, "")
	parts = append(parts, renderHint(snap.Mode, theme))

	if layout.Notice != "" {
		parts = append(parts, "", theme.Notice.Render(layout.Notice))
	}

	box := theme.Box.
		Width(boxWidth).
		Render(lipgloss.JoinVertical(lipgloss.Center, parts...))

	if layout.Width <= 0 || layout.Height <= 0 {
		return box
	}
	return lipgloss.Place(
		layout.Width, layout.Height,
		lipgloss.Center, lipgloss.Center,
		box,
		lipgloss.WithWhitespaceBackground(theme.Backdrop),
	)
}

// renderField draws the credential box. While editing it shows the mask
// with a block cursor at the cursor position.
func renderField(snap lock.Snapshot, theme *styles.Theme) string {
	if snap.Mode != lock.ModeEditing {
		return theme.Field.Render(strings.Repeat(" ", fieldWidth))
	}

	visible, col := maskWindow([]rune(snap.Mask), snap.Cursor, fieldWidth)

	var b strings.Builder
	for i := 0; i < fieldWidth; i++ {
		cell := " "
		if i < len(visible) {
			cell = string(visible[i])
		}
		if i == col {
			b.WriteString(theme.Cursor.Render(cell))
		} else {
			b.WriteString(theme.Mask.Render(cell))
		}
	}
	return theme.FieldActive.Render(b.String())
}

// maskWindow returns the part of mask that fits in width cells, scrolled
// so that the cursor column stays visible, and the cursor column within it.
func maskWindow(mask []rune, cursor, width int) ([]rune, int) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(mask) {
		cursor = len(mask)
	}
	start := 0
	// One cell is reserved for the cursor after the last rune.
	if cursor >= width {
		start = cursor - width + 1
	}
	end := start + width
	if end > len(mask) {
		end = len(mask)
	}
	return mask[start:end], cursor - start
}

func renderHint(mode lock.Mode, theme *styles.Theme) string {
	k := theme.HintKey.Render
	h := theme.Hint.Render
	if mode == lock.ModeEditing {
		return h("Press ") + k("Esc") + h(" to go back, ") + k("Enter") + h(" to unlock")
	}
	return h("Press ") + k("Enter") + h(" and start typing your password")
}
