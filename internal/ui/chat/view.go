// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/huddle-tui/internal/autocomplete"
	"github.com/jeranaias/huddle-tui/internal/editor"
	"github.com/jeranaias/huddle-tui/internal/selection"
	"github.com/jeranaias/huddle-tui/internal/ui/components"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the chat screen: header, messages or viewer, completion
// popup, compose prompt, input and status line. The body takes whatever
// height the fixed parts leave.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	ch, ok := m.session.Current()
	if ok {
		m.header.SetChannel(&ch)
	} else {
		m.header.SetChannel(nil)
	}
	header := m.header.View()
	input := m.theme.InputContainer.Width(m.width).Render(m.input.View())
	status := m.renderStatus()
	prompt := m.renderComposePrompt()

	popup := ""
	if m.sel.Phase == selection.Inactive {
		popup = m.popup.View(m.editor.Engine().State())
	}

	fixed := lipgloss.Height(header) + lipgloss.Height(input) + lipgloss.Height(status)
	if prompt != "" {
		fixed += lipgloss.Height(prompt)
	}
	bodyHeight := max(m.height-fixed, 1)

	var body string
	switch {
	case m.showHelp:
		body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(m.renderHelp())
	case m.sel.Phase == selection.Viewing:
		m.viewer.SetSize(m.width, bodyHeight)
		body = m.viewer.View()
	default:
		m.list.SetSize(m.width, bodyHeight)
		body = m.list.View(m.session.Messages(m.session.CurrentID()).All(), m.selectedID())
	}
	if popup != "" {
		body = overlayBottom(body, popup)
	}

	parts := []string{header, body}
	if prompt != "" {
		parts = append(parts, prompt)
	}
	parts = append(parts, input, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// selectedID is the highlighted message, "" while composing.
func (m Model) selectedID() string {
	if m.sel.Phase == selection.Inactive {
		return ""
	}
	return m.sel.SelectedID
}

// overlayBottom replaces the last lines of body with popup.
func overlayBottom(body, popup string) string {
	lines := strings.Split(body, "\n")
	pop := strings.Split(popup, "\n")
	if len(pop) >= len(lines) {
		return popup
	}
	return strings.Join(append(lines[:len(lines)-len(pop)], pop...), "\n")
}

// renderComposePrompt shows what the input is doing when not a new post.
func (m Model) renderComposePrompt() string {
	if m.sel.Phase == selection.ConfirmDelete {
		return m.theme.ConfirmDelete.Render("Delete this message? (y/n)")
	}
	switch mode := m.editor.Mode().(type) {
	case editor.Replying:
		return m.theme.MessageReply.Render(mode.Prompt())
	case editor.Editing:
		return m.theme.InputMode.Render(mode.Prompt() + " (Esc to cancel)")
	}
	return ""
}

// renderStatus fills the status bar for the current phase.
func (m Model) renderStatus() string {
	m.status.Mode = m.modeName()
	m.status.Busy = ""
	if m.searching() {
		m.status.Busy = m.spinner.View() + " searching"
	}

	bindings := m.keys.ForPhase(m.sel.Phase).ShortHelp()
	m.status.Shortcuts = m.status.Shortcuts[:0]
	for _, b := range bindings {
		h := b.Help()
		m.status.Shortcuts = append(m.status.Shortcuts, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return m.status.View()
}

// modeName names the interaction mode for the status bar.
func (m Model) modeName() string {
	switch m.sel.Phase {
	case selection.Selecting, selection.ConfirmDelete, selection.Viewing:
		return m.sel.Phase.String()
	}
	switch m.editor.Mode().(type) {
	case editor.Replying:
		return "reply"
	case editor.Editing:
		return "edit"
	}
	if m.editor.Multiline() {
		return "multi-line"
	}
	return ""
}

// =============================================================================
// HELP
// =============================================================================

// renderHelp renders the help screen for the requested topic.
func (m Model) renderHelp() string {
	var sections []string
	switch m.helpTopic {
	case "commands":
		sections = append(sections, m.renderCommandHelp())
	case "keys":
		sections = append(sections, m.renderKeyHelp())
	case "syntax":
		sections = append(sections, m.renderSyntaxHelp())
	default:
		sections = append(sections, m.renderCommandHelp(), m.renderKeyHelp())
	}
	sections = append(sections, m.theme.ShortcutDesc.Render("F1 or Esc closes help"))
	return strings.Join(sections, "\n\n")
}

func (m Model) renderCommandHelp() string {
	byCategory := m.registry.ByCategory()
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString(m.theme.ViewerTitle.Render("Commands"))
	for _, c := range categories {
		b.WriteString("\n" + m.theme.CompletionLabel.Render(c))
		for _, cmd := range byCategory[c] {
			b.WriteString("\n  " + m.theme.ShortcutKey.Render(cmd.Usage()) + "  " + m.theme.ShortcutDesc.Render(cmd.Description))
		}
	}
	return b.String()
}

func (m Model) renderKeyHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.ViewerTitle.Render("Keys"))
	for _, phase := range []selection.Phase{selection.Inactive, selection.Selecting} {
		b.WriteString("\n" + m.theme.CompletionLabel.Render(phase.String()) + "\n")
		b.WriteString(m.help.FullHelpView(m.keys.ForPhase(phase).FullHelp()))
	}
	return b.String()
}

func (m Model) renderSyntaxHelp() string {
	names := autocomplete.DefaultSyntaxNames()
	return m.theme.ViewerTitle.Render("Code fence languages") + "\n" +
		"Type ``` followed by a language and press Tab. " +
		m.theme.ShortcutDesc.Render(strings.Join(names[:min(len(names), 40)], " ")+" ...")
}
