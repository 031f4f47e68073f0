// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the ttylock screen.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values with a light and a dark
variant:

	Purple        - Title and focused field border
	Cyan          - Key names in hints
	Amber         - Username, mask and cursor
	Rose          - Rejected attempts
	SurfaceDim    - Backdrop around the lock box
	TextPrimary   - Body text
	TextSecondary - Labels
	TextMuted     - Hints

State is never conveyed by color alone: StatusIndicators adds ASCII
markers such as "[X]" next to colored text.

# Theme (theme.go)

NewTheme detects the terminal background with termenv. NewThemeWithMode
forces "dark" or "light", which also decides which variant every
AdaptiveColor resolves to.

	theme := styles.NewThemeWithMode(cfg.UI.Theme)
	title := theme.Title.Render("TERMINAL LOCKED")
*/
package styles
