// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/huddle-tui/internal/model"
	"github.com/jeranaias/huddle-tui/internal/ui/styles"
	"github.com/jeranaias/huddle-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar naming the focused channel.
type Header struct {
	Channel *model.Channel
	Width   int
	theme   *styles.Theme
}

// NewHeader creates a new Header component.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Width: 80, theme: theme}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetChannel sets the focused channel, nil when none.
func (h *Header) SetChannel(ch *model.Channel) {
	h.Channel = ch
}

// View renders the header.
func (h *Header) View() string {
	title := "huddle"
	detail := "no channel focused, try /join"
	if h.Channel != nil {
		title = "~" + h.Channel.Name
		detail = util.FirstLine(h.Channel.Header)
	}

	left := h.theme.HeaderTitle.Render(title)
	room := h.Width - lipgloss.Width(left) - 4
	if room > 0 && detail != "" {
		left += "  " + h.theme.HeaderDetail.Render(util.Truncate(detail, room))
	}
	return h.theme.Header.Width(h.Width).Render(left)
}
