// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lockscreen

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderNotice renders markdown for display under the prompt, wrapped to
// width. style is a glamour standard style ("dark" or "light").
func RenderNotice(markdown string, width int, style string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
