// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/huddle-tui/internal/model"
	"github.com/jeranaias/huddle-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// Markers shown beside a message.
const (
	flagMarker   = "!"
	editedMarker = "(edited)"
	replyMarker  = "> "
	deletedText  = "(message deleted)"
)

// MessageList renders a channel's messages, keeping the selection in view.
type MessageList struct {
	width         int
	height        int
	showTimestamp bool
	theme         *styles.Theme
}

// NewMessageList creates a new MessageList.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		width:         80,
		height:        20,
		showTimestamp: true,
		theme:         theme,
	}
}

// SetSize sets the area available to the list.
func (ml *MessageList) SetSize(width, height int) {
	ml.width = width
	ml.height = height
}

// SetShowTimestamp toggles the time column.
func (ml *MessageList) SetShowTimestamp(show bool) {
	ml.showTimestamp = show
}

// View renders msgs bottom-aligned. When selectedID names a message, the
// window ends at that message so it is always visible.
func (ml *MessageList) View(msgs []*model.Message, selectedID string) string {
	if ml.height <= 0 {
		return ""
	}

	anchor := len(msgs) - 1
	for i, m := range msgs {
		if selectedID != "" && m.ID == selectedID {
			anchor = i
			break
		}
	}

	var blocks []string
	used := 0
	for i := anchor; i >= 0 && used < ml.height; i-- {
		block := ml.renderMessage(msgs[i], msgs[i].ID == selectedID)
		blocks = append([]string{block}, blocks...)
		used += lipgloss.Height(block)
	}
	throughAnchor := used
	// Fill remaining space with messages after the selection.
	for i := anchor + 1; i < len(msgs) && used < ml.height; i++ {
		block := ml.renderMessage(msgs[i], false)
		blocks = append(blocks, block)
		used += lipgloss.Height(block)
	}

	var lines []string
	if len(blocks) > 0 {
		lines = strings.Split(strings.Join(blocks, "\n"), "\n")
	}
	if len(lines) > ml.height {
		if throughAnchor >= ml.height {
			lines = lines[throughAnchor-ml.height : throughAnchor]
		} else {
			lines = lines[:ml.height]
		}
	}
	for len(lines) < ml.height {
		lines = append([]string{""}, lines...)
	}
	return strings.Join(lines, "\n")
}

// renderMessage renders one message, wrapping its text to the list width.
func (ml *MessageList) renderMessage(m *model.Message, selected bool) string {
	var prefix strings.Builder
	if ml.showTimestamp && !m.Timestamp.IsZero() {
		prefix.WriteString(ml.theme.MessageTime.Render(formatTime(m.Timestamp)))
		prefix.WriteString(" ")
	}
	if m.Flagged {
		prefix.WriteString(ml.theme.MessageFlag.Render(flagMarker))
		prefix.WriteString(" ")
	}
	if m.Post != nil && m.Post.RootID != "" {
		prefix.WriteString(ml.theme.MessageTime.Render(replyMarker))
	}

	var body string
	switch {
	case m.Deleted:
		body = ml.theme.MessageDeleted.Render(deletedText)
	case m.Type == model.MessageTypeEmote:
		body = ml.theme.MessageEmote.Render("* " + m.Author + " " + model.StripEmote(m.Text))
	case m.Type == model.MessageTypeSystem || m.Type == model.MessageTypeClient:
		body = ml.theme.MessageSystem.Render(m.Text)
	default:
		author := ml.theme.MessageAuthor.
			Foreground(styles.AuthorColor(m.UserID)).
			Render(m.Author + ":")
		body = author + " " + ml.theme.MessageText.Render(m.Text)
	}
	if m.Post != nil && m.Post.EditAt != 0 && !m.Deleted {
		body += " " + ml.theme.MessageEdited.Render(editedMarker)
	}

	prefixWidth := lipgloss.Width(prefix.String())
	bodyWidth := maxInt(ml.width-prefixWidth, 10)
	wrapped := lipgloss.NewStyle().Width(bodyWidth).Render(body)
	line := lipgloss.JoinHorizontal(lipgloss.Top, prefix.String(), wrapped)

	if selected {
		return ml.theme.MessageSelected.Render(line)
	}
	return line
}

// formatTime shows the clock for today and the date otherwise.
func formatTime(t time.Time) string {
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("Jan 02")
}
