// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/huddle-tui/internal/model"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Context gives handlers the session they run in.
type Context struct {
	TeamID    string
	ChannelID string
	UserID    string
}

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// These messages are produced by command handlers and consumed by the chat model.

// ShowHelpMsg opens the help screen.
type ShowHelpMsg struct {
	Topic string
}

// FocusChannelMsg switches the active channel.
type FocusChannelMsg struct {
	Name string
}

// JoinChannelMsg joins a channel by name.
type JoinChannelMsg struct {
	Name string
}

// LeaveChannelMsg leaves the given channel, or every channel when All is set.
type LeaveChannelMsg struct {
	ChannelID string
	All       bool
}

// SetHeaderMsg changes a channel header.
type SetHeaderMsg struct {
	ChannelID string
	Text      string
}

// ShowMembersMsg lists the members of a channel.
type ShowMembersMsg struct {
	ChannelID string
}

// AddUserMsg adds a user to a channel.
type AddUserMsg struct {
	ChannelID string
	Username  string
}

// DirectMessageMsg opens (and optionally posts to) a DM channel.
type DirectMessageMsg struct {
	Username string
	Text     string
}

// PostMsg posts text to the current channel.
type PostMsg struct {
	ChannelID string
	Text      string
	Type      string
}

// ShowFlagsMsg lists flagged posts.
type ShowFlagsMsg struct{}

// SetThemeMsg switches the color theme.
type SetThemeMsg struct {
	Theme string
}

// ToggleMultilineMsg toggles multi-line editing.
type ToggleMultilineMsg struct{}

// ReconnectMsg asks the client to reconnect.
type ReconnectMsg struct{}

// =============================================================================
// HANDLERS
// =============================================================================

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func argOrEmpty(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// stripSigil removes a leading @ or ~ typed by completion.
func stripSigil(s string) string {
	return strings.TrimLeft(s, "@~")
}

func handleHelp(_ *Context, args []string) tea.Cmd {
	return emit(ShowHelpMsg{Topic: argOrEmpty(args, 0)})
}

func handleQuit(_ *Context, _ []string) tea.Cmd {
	return tea.Quit
}

func handleFocus(_ *Context, args []string) tea.Cmd {
	return emit(FocusChannelMsg{Name: stripSigil(args[0])})
}

func handleJoin(_ *Context, args []string) tea.Cmd {
	return emit(JoinChannelMsg{Name: stripSigil(args[0])})
}

func handleLeave(ctx *Context, _ []string) tea.Cmd {
	return emit(LeaveChannelMsg{ChannelID: ctx.ChannelID})
}

func handleLeaveAll(_ *Context, _ []string) tea.Cmd {
	return emit(LeaveChannelMsg{All: true})
}

func handleHeader(ctx *Context, args []string) tea.Cmd {
	return emit(SetHeaderMsg{ChannelID: ctx.ChannelID, Text: argOrEmpty(args, 0)})
}

func handleMembers(ctx *Context, _ []string) tea.Cmd {
	return emit(ShowMembersMsg{ChannelID: ctx.ChannelID})
}

func handleAddUser(ctx *Context, args []string) tea.Cmd {
	return emit(AddUserMsg{ChannelID: ctx.ChannelID, Username: stripSigil(args[0])})
}

func handleDirectMessage(_ *Context, args []string) tea.Cmd {
	return emit(DirectMessageMsg{Username: stripSigil(args[0]), Text: argOrEmpty(args, 1)})
}

func handleEmote(ctx *Context, args []string) tea.Cmd {
	return emit(PostMsg{ChannelID: ctx.ChannelID, Text: model.AddEmote(args[0]), Type: model.PostTypeEmote})
}

func handleShrug(ctx *Context, args []string) tea.Cmd {
	text := strings.TrimSpace(argOrEmpty(args, 0) + ` ¯\_(ツ)_/¯`)
	return emit(PostMsg{ChannelID: ctx.ChannelID, Text: text})
}

func handleFlags(_ *Context, _ []string) tea.Cmd {
	return emit(ShowFlagsMsg{})
}

func handleTheme(_ *Context, args []string) tea.Cmd {
	return emit(SetThemeMsg{Theme: args[0]})
}

func handleMultiline(_ *Context, _ []string) tea.Cmd {
	return emit(ToggleMultilineMsg{})
}

func handleReconnect(_ *Context, _ []string) tea.Cmd {
	return emit(ReconnectMsg{})
}
