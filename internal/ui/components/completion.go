// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/huddle-tui/internal/autocomplete"
	"github.com/jeranaias/huddle-tui/internal/ui/styles"
	"github.com/jeranaias/huddle-tui/internal/util"
)

// =============================================================================
// COMPLETION POPUP COMPONENT
// =============================================================================

// labelWidth is the column reserved for candidate labels.
const labelWidth = 24

// CompletionPopup renders the visible window of a completion session.
type CompletionPopup struct {
	width int
	theme *styles.Theme
}

// NewCompletionPopup creates a new completion popup.
func NewCompletionPopup(theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{width: 50, theme: theme}
}

// SetWidth sets the popup width.
func (c *CompletionPopup) SetWidth(width int) {
	c.width = width
}

// View renders the popup for a session. Nothing is rendered without a
// session or while its list is empty.
func (c *CompletionPopup) View(state *autocomplete.State) string {
	if state == nil || state.List == nil || state.List.Len() == 0 {
		return ""
	}

	visible, selected := state.List.Visible()
	rows := make([]string, 0, len(visible)+2)
	rows = append(rows, c.theme.CompletionLabel.Render(state.Label))
	for i, alt := range visible {
		rows = append(rows, c.renderItem(alt, i == selected))
	}
	if more := state.List.Len() - state.List.Offset() - len(visible); more > 0 {
		rows = append(rows, c.theme.CompletionDim.Render("+"+toStr(more)+" more"))
	}

	inner := c.width - 4
	if inner < labelWidth {
		inner = labelWidth
	}
	return c.theme.CompletionPopup.
		Width(inner).
		Render(strings.Join(rows, "\n"))
}

// renderItem renders a single candidate.
func (c *CompletionPopup) renderItem(alt autocomplete.Alternative, isSelected bool) string {
	label := util.PadRight(alt.Label(), labelWidth)
	detailWidth := c.width - labelWidth - 6
	detail := ""
	if detailWidth > 0 {
		detail = util.Truncate(alt.Detail(), detailWidth)
	}

	if isSelected {
		return c.theme.CompletionSelected.Render(label) + " " + c.theme.CompletionDetail.Render(detail)
	}

	labelStyle := c.theme.CompletionItem
	if dimmed(alt) {
		labelStyle = c.theme.CompletionDim
	}
	return lipgloss.JoinHorizontal(lipgloss.Left,
		labelStyle.Render(label),
		" ",
		c.theme.CompletionDim.Render(detail),
	)
}

// dimmed reports whether a candidate is outside the current context.
func dimmed(alt autocomplete.Alternative) bool {
	switch a := alt.(type) {
	case autocomplete.UserCompletion:
		return a.OutOfChannel
	case autocomplete.ChannelCompletion:
		return !a.Member
	default:
		return false
	}
}
