// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/huddle-tui/internal/commands"
	"github.com/jeranaias/huddle-tui/internal/model"
	"github.com/jeranaias/huddle-tui/internal/selection"
	"github.com/jeranaias/huddle-tui/internal/ui/styles"
	"github.com/jeranaias/huddle-tui/internal/util"
)

// =============================================================================
// CHANNELS AND POSTS
// =============================================================================

func (m Model) loadChannels() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	teamID := m.session.TeamID
	return m.call(func(ctx context.Context, svc Service) tea.Msg {
		chs, err := svc.MyChannels(ctx, teamID)
		return ChannelsLoadedMsg{Channels: chs, Err: err}
	})
}

func (m Model) loadPosts(channelID string) tea.Cmd {
	return m.call(func(ctx context.Context, svc Service) tea.Msg {
		posts, err := svc.ChannelPosts(ctx, channelID, postsPerPage)
		return PostsLoadedMsg{ChannelID: channelID, Posts: posts, Err: err}
	})
}

func (m Model) handleChannelsLoaded(msg ChannelsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status.SetNotice("could not load channels: "+msg.Err.Error(), true)
		return m, nil
	}
	m.session.SetChannels(msg.Channels)
	m.sel = selection.Machine{}
	if id := m.session.CurrentID(); id != "" {
		return m.focus(id)
	}
	return m, nil
}

// focus switches to a joined channel and loads its posts.
func (m Model) focus(channelID string) (tea.Model, tea.Cmd) {
	if !m.session.Focus(channelID) {
		return m, nil
	}
	m.sel = selection.Machine{}
	m.editor.CancelCompose()
	m.editor.CancelCompletion()
	return m, m.loadPosts(channelID)
}

func (m Model) handlePostsLoaded(msg PostsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status.SetNotice("could not load messages: "+msg.Err.Error(), true)
		return m, nil
	}
	for _, p := range msg.Posts {
		m.session.AddPost(p)
	}
	m.sel = m.sel.Reconcile(m.env())

	ids := m.session.UnknownAuthors(msg.Posts)
	if len(ids) == 0 {
		return m, nil
	}
	return m, m.call(func(ctx context.Context, svc Service) tea.Msg {
		users, err := svc.UsersByIDs(ctx, ids)
		return UsersLoadedMsg{Users: users, Err: err}
	})
}

func (m Model) handleUsersLoaded(msg UsersLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Debug("user lookup failed", zap.Error(msg.Err))
		return m, nil
	}
	m.session.AddUsers(msg.Users)
	for _, ch := range m.session.Channels() {
		for _, mm := range m.session.Messages(ch.ID).All() {
			if mm.UserID != "" {
				mm.Author = m.session.Author(mm.UserID)
			}
		}
	}
	return m, nil
}

func (m Model) handleMembers(msg MembersMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status.SetNotice("could not list members: "+msg.Err.Error(), true)
		return m, nil
	}
	m.session.AddUsers(msg.Users)
	names := make([]string, 0, len(msg.Users))
	for _, u := range msg.Users {
		names = append(names, "@"+u.Username)
	}
	sort.Strings(names)
	m.session.Notice(fmt.Sprintf("%d members: %s", len(names), strings.Join(names, " ")))
	return m, nil
}

func (m Model) handleFlagged(msg FlaggedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status.SetNotice("could not load flagged posts: "+msg.Err.Error(), true)
		return m, nil
	}
	if len(msg.Posts) == 0 {
		m.session.Notice("No flagged messages")
		return m, nil
	}
	lines := []string{fmt.Sprintf("%d flagged messages:", len(msg.Posts))}
	for _, p := range msg.Posts {
		if existing, ok := m.session.Messages(p.ChannelID).Get(p.ID); ok {
			existing.Flagged = true
		}
		lines = append(lines, "  "+m.session.Author(p.UserID)+": "+util.Truncate(util.FirstLine(p.Message), 60))
	}
	m.session.Notice(strings.Join(lines, "\n"))
	return m, nil
}

func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Config == nil {
		return m, nil
	}
	m.cfg = msg.Config
	m.editor.Engine().SetLimits(m.cfg.Autocomplete.MaxResults, m.cfg.UI.PopupHeight)
	m.editor.Engine().SetEmojiManualOnly(m.cfg.Autocomplete.EmojiManualOnly)
	m.list.SetShowTimestamp(m.cfg.UI.ShowTimestamps)
	m.keys = DefaultKeyMap(m.cfg.UI.VimSelection)
	m.status.SetNotice("Configuration reloaded", false)
	return m, nil
}

// =============================================================================
// COMMAND MESSAGES
// =============================================================================

// handleCommandMsg acts on messages emitted by slash command handlers.
func (m *Model) handleCommandMsg(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case commands.ShowHelpMsg:
		m.showHelp = true
		m.helpTopic = msg.Topic
		return nil, true

	case commands.FocusChannelMsg:
		ch, ok := m.session.ChannelByName(msg.Name)
		if !ok {
			return func() tea.Msg { return errorf("not a member of ~%s, try /join", msg.Name) }, true
		}
		return m.focusInPlace(ch.ID), true

	case commands.JoinChannelMsg:
		if ch, ok := m.session.ChannelByName(msg.Name); ok {
			return m.focusInPlace(ch.ID), true
		}
		teamID := m.session.TeamID
		return m.call(func(ctx context.Context, svc Service) tea.Msg {
			ch, err := svc.ChannelByName(ctx, teamID, msg.Name)
			if err != nil {
				return ChannelJoinedMsg{Err: fmt.Errorf("join ~%s: %w", msg.Name, err)}
			}
			if err := svc.JoinChannel(ctx, ch.ID); err != nil {
				return ChannelJoinedMsg{Err: fmt.Errorf("join ~%s: %w", msg.Name, err)}
			}
			return ChannelJoinedMsg{Channel: ch}
		}), true

	case commands.LeaveChannelMsg:
		ids := []string{msg.ChannelID}
		if msg.All {
			ids = ids[:0]
			for _, ch := range m.session.Channels() {
				ids = append(ids, ch.ID)
			}
		}
		if len(ids) == 0 || ids[0] == "" {
			return func() tea.Msg { return ErrorMsg{Err: errNoChannel} }, true
		}
		return m.call(func(ctx context.Context, svc Service) tea.Msg {
			var left []string
			for _, id := range ids {
				if err := svc.LeaveChannel(ctx, id); err != nil {
					return ChannelsLeftMsg{ChannelIDs: left, Err: err}
				}
				left = append(left, id)
			}
			return ChannelsLeftMsg{ChannelIDs: left}
		}), true

	case commands.SetHeaderMsg:
		if msg.ChannelID == "" {
			return func() tea.Msg { return ErrorMsg{Err: errNoChannel} }, true
		}
		return m.call(func(ctx context.Context, svc Service) tea.Msg {
			err := svc.SetChannelHeader(ctx, msg.ChannelID, msg.Text)
			return HeaderChangedMsg{ChannelID: msg.ChannelID, Header: msg.Text, Err: err}
		}), true

	case commands.ShowMembersMsg:
		if msg.ChannelID == "" {
			return func() tea.Msg { return ErrorMsg{Err: errNoChannel} }, true
		}
		return m.call(func(ctx context.Context, svc Service) tea.Msg {
			users, err := svc.ChannelMembers(ctx, msg.ChannelID)
			return MembersMsg{ChannelID: msg.ChannelID, Users: users, Err: err}
		}), true

	case commands.AddUserMsg:
		if msg.ChannelID == "" {
			return func() tea.Msg { return ErrorMsg{Err: errNoChannel} }, true
		}
		return m.call(func(ctx context.Context, svc Service) tea.Msg {
			u, err := svc.UserByUsername(ctx, msg.Username)
			if err != nil {
				return errorf("add @%s: %w", msg.Username, err)
			}
			if err := svc.AddChannelMember(ctx, msg.ChannelID, u.ID); err != nil {
				return errorf("add @%s: %w", msg.Username, err)
			}
			return InfoMsg{Text: "Added @" + u.Username}
		}), true

	case commands.DirectMessageMsg:
		return m.call(func(ctx context.Context, svc Service) tea.Msg {
			u, err := svc.UserByUsername(ctx, msg.Username)
			if err != nil {
				return ChannelJoinedMsg{Err: fmt.Errorf("message @%s: %w", msg.Username, err)}
			}
			ch, err := svc.DirectChannel(ctx, u.ID)
			if err != nil {
				return ChannelJoinedMsg{Err: fmt.Errorf("message @%s: %w", msg.Username, err)}
			}
			if ch.Name == "" || ch.Type == model.ChannelDirect {
				ch.Name = u.Username
			}
			if strings.TrimSpace(msg.Text) != "" {
				if _, err := svc.CreatePost(ctx, model.Post{ChannelID: ch.ID, Message: msg.Text}); err != nil {
					return ChannelJoinedMsg{Err: fmt.Errorf("message @%s: %w", msg.Username, err)}
				}
			}
			return ChannelJoinedMsg{Channel: ch}
		}), true

	case commands.PostMsg:
		if msg.ChannelID == "" {
			return func() tea.Msg { return ErrorMsg{Err: errNoChannel} }, true
		}
		post := model.Post{ChannelID: msg.ChannelID, Message: msg.Text, Type: msg.Type}
		return m.call(func(ctx context.Context, svc Service) tea.Msg {
			p, err := svc.CreatePost(ctx, post)
			return PostSavedMsg{Post: p, Err: err}
		}), true

	case commands.ShowFlagsMsg:
		return m.call(func(ctx context.Context, svc Service) tea.Msg {
			posts, err := svc.FlaggedPosts(ctx)
			return FlaggedMsg{Posts: posts, Err: err}
		}), true

	case commands.SetThemeMsg:
		m.setTheme(msg.Theme)
		return nil, true

	case commands.ToggleMultilineMsg:
		m.editor.ToggleMultiline()
		m.applyMultiline()
		m.layout()
		return nil, true

	case commands.ReconnectMsg:
		return m.loadChannels(), true
	}
	return nil, false
}

// focusInPlace is focus for pointer receivers.
func (m *Model) focusInPlace(channelID string) tea.Cmd {
	next, cmd := m.focus(channelID)
	*m = next.(Model)
	return cmd
}

// setTheme swaps the palette. Components share the theme pointer.
func (m *Model) setTheme(mode string) {
	theme := styles.NewTheme(mode)
	m.cfg.UI.Theme = mode
	*m.theme = *theme
	m.layout()
}
