// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the huddle TUI.

All colors use Lip Gloss AdaptiveColor so the same palette renders on light
and dark terminals. NewTheme resolves the background either from the
configured mode or by asking the terminal through termenv.

# Usage

	theme := styles.NewTheme(cfg.UI.Theme)
	line := theme.MessageAuthor.Foreground(styles.AuthorColor(id)).Render(name)

GlamourStyle returns the matching glamour standard style name for the
message viewer.
*/
package styles
