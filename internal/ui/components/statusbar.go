// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/huddle-tui/internal/ui/styles"
	"github.com/jeranaias/huddle-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line: interaction mode, a transient notice and
// key hints.
type StatusBar struct {
	Mode      string
	Notice    string
	IsError   bool
	Busy      string
	Shortcuts []Shortcut
	width     int
	theme     *styles.Theme
}

// NewStatusBar creates a new StatusBar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{width: 80, theme: theme}
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetNotice shows a transient message. An empty text clears it.
func (s *StatusBar) SetNotice(text string, isError bool) {
	s.Notice = text
	s.IsError = isError
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var left []string
	if s.Mode != "" {
		left = append(left, s.theme.InputMode.Render(strings.ToUpper(s.Mode)))
	}
	if s.Busy != "" {
		left = append(left, s.Busy)
	}
	if s.Notice != "" {
		style := s.theme.StatusInfo
		if s.IsError {
			style = s.theme.StatusError
		}
		left = append(left, style.Render(util.Truncate(s.Notice, maxInt(s.width/2, 10))))
	}
	leftStr := strings.Join(left, "  ")

	right := s.renderShortcuts(s.width - lipgloss.Width(leftStr) - 4)
	gap := maxInt(s.width-lipgloss.Width(leftStr)-lipgloss.Width(right)-2, 1)
	return s.theme.StatusBar.
		Width(s.width).
		Render(leftStr + strings.Repeat(" ", gap) + right)
}

// renderShortcuts renders as many hints as fit in room cells.
func (s *StatusBar) renderShortcuts(room int) string {
	var parts []string
	used := 0
	for _, sc := range s.Shortcuts {
		part := s.theme.ShortcutKey.Render(sc.Key) + " " + s.theme.ShortcutDesc.Render(sc.Desc)
		w := lipgloss.Width(part) + 2
		if used+w > room {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return strings.Join(parts, "  ")
}
