// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/huddle-tui/internal/autocomplete"
	"github.com/jeranaias/huddle-tui/internal/commands"
	"github.com/jeranaias/huddle-tui/internal/editor"
	"github.com/jeranaias/huddle-tui/internal/model"
	"github.com/jeranaias/huddle-tui/internal/selection"
)

var (
	errOffline   = errors.New("not connected to a server")
	errNoChannel = errors.New("no channel focused, /join one first")
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case autocomplete.ResultsMsg:
		m.editor.ApplyResults(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.searching() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	// Selection results
	case selection.FlagResultMsg:
		m.sel = m.sel.HandleFlagResult(m.env(), msg)
		if msg.Err != nil {
			m.status.SetNotice("flag failed: "+msg.Err.Error(), true)
		}
		return m, nil

	case selection.DeleteResultMsg:
		m.sel = m.sel.HandleDeleteResult(m.env(), msg)
		if msg.Err != nil {
			m.status.SetNotice("delete failed: "+msg.Err.Error(), true)
		}
		return m, nil

	case selection.CopiedMsg:
		m.status.SetNotice("Copied to clipboard", false)
		return m, nil

	case selection.OpenedURLMsg:
		m.status.SetNotice("Opened "+msg.URL, false)
		return m, nil

	case selection.ErrorMsg:
		m.status.SetNotice(msg.Err.Error(), true)
		return m, nil

	case ErrorMsg:
		m.log.Debug("error", zap.Error(msg.Err))
		m.status.SetNotice(msg.Err.Error(), true)
		return m, nil

	case InfoMsg:
		m.status.SetNotice(msg.Text, false)
		return m, nil

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	// Server results
	case ChannelsLoadedMsg:
		return m.handleChannelsLoaded(msg)

	case PostsLoadedMsg:
		return m.handlePostsLoaded(msg)

	case UsersLoadedMsg:
		return m.handleUsersLoaded(msg)

	case PostSavedMsg:
		if msg.Err != nil {
			m.status.SetNotice("send failed: "+msg.Err.Error(), true)
			return m, nil
		}
		m.session.AddPost(msg.Post)
		m.sel = m.sel.Reconcile(m.env())
		return m, nil

	case ChannelJoinedMsg:
		if msg.Err != nil {
			m.status.SetNotice(msg.Err.Error(), true)
			return m, nil
		}
		m.session.AddChannel(msg.Channel)
		return m.focus(msg.Channel.ID)

	case ChannelsLeftMsg:
		for _, id := range msg.ChannelIDs {
			m.session.RemoveChannel(id)
		}
		if msg.Err != nil {
			m.status.SetNotice("leave failed: "+msg.Err.Error(), true)
		}
		m.sel = selection.Machine{}
		return m, nil

	case HeaderChangedMsg:
		if msg.Err != nil {
			m.status.SetNotice("header not changed: "+msg.Err.Error(), true)
			return m, nil
		}
		for _, ch := range m.session.Channels() {
			if ch.ID == msg.ChannelID {
				ch.Header = msg.Header
				m.session.AddChannel(ch)
			}
		}
		return m, nil

	case MembersMsg:
		return m.handleMembers(msg)

	case FlaggedMsg:
		return m.handleFlagged(msg)
	}

	if cmd, ok := m.handleCommandMsg(msg); ok {
		return m, cmd
	}

	cmd := m.input.Update(msg)
	return m, cmd
}

// searching reports whether a remote completion query is outstanding.
func (m Model) searching() bool {
	_, search, ok := m.editor.Engine().Pending()
	if !ok {
		return false
	}
	st := m.editor.Engine().State()
	return st == nil || st.PreviousSearch != search
}

// checkCompletion re-examines the token at the cursor.
func (m Model) checkCompletion(ctx autocomplete.Context) tea.Cmd {
	cmd := m.editor.CheckCompletion(ctx)
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Exit) {
			m.showHelp = false
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.Help) && m.sel.Phase != selection.ConfirmDelete {
		m.showHelp = true
		m.helpTopic = ""
		return m, nil
	}

	m.status.SetNotice("", false)

	switch m.sel.Phase {
	case selection.Selecting:
		return m.handleSelectingKey(msg)
	case selection.ConfirmDelete:
		return m.handleConfirmKey(msg)
	case selection.Viewing:
		return m.handleViewingKey(msg)
	}
	return m.handleComposeKey(msg)
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Complete):
		if m.editor.Engine().Active() {
			m.editor.Complete(editor.Forward)
			return m, nil
		}
		return m, m.checkCompletion(autocomplete.Context{Manual: true, FirstMatch: true})

	case key.Matches(msg, m.keys.CompletePrev):
		m.editor.Complete(editor.Backward)
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		if m.editor.CancelCompletion() {
			return m, nil
		}
		m.sel = m.sel.CancelCompose(m.env())
		return m, nil

	case key.Matches(msg, m.keys.Select):
		m.editor.CancelCompletion()
		m.sel = m.sel.Enter(m.env())
		return m, nil

	case key.Matches(msg, m.keys.Multiline):
		on := m.editor.ToggleMultiline()
		m.applyMultiline()
		m.layout()
		if on {
			m.status.SetNotice("Multi-line on, M-Enter sends", false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Newline):
		if m.editor.Multiline() {
			return m.submit()
		}
		m.input.InsertNewline()
		return m, m.checkCompletion(autocomplete.Context{})

	case key.Matches(msg, m.keys.Submit):
		if m.editor.Multiline() {
			m.input.InsertNewline()
			return m, nil
		}
		return m.submit()

	case key.Matches(msg, m.keys.HistoryPrev) && !m.editor.Multiline():
		m.editor.HistoryPrev()
		return m, nil

	case key.Matches(msg, m.keys.HistoryNext) && !m.editor.Multiline():
		m.editor.HistoryNext()
		return m, nil
	}

	cmd := m.input.Update(msg)
	return m, tea.Batch(cmd, m.checkCompletion(autocomplete.Context{}))
}

func (m Model) handleSelectingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	env := m.env()
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Up):
		m.sel = m.sel.MoveUp(env)
	case key.Matches(msg, m.keys.Down):
		m.sel = m.sel.MoveDown(env)
	case key.Matches(msg, m.keys.PageUp):
		m.sel = m.sel.MoveUpBy(env, m.pageSize())
	case key.Matches(msg, m.keys.PageDown):
		m.sel = m.sel.MoveDownBy(env, m.pageSize())
	case key.Matches(msg, m.keys.Flag):
		m.sel, cmd = m.sel.Flag(env)
	case key.Matches(msg, m.keys.Reply):
		m.sel = m.sel.Reply(env)
	case key.Matches(msg, m.keys.Edit):
		m.sel = m.sel.Edit(env)
	case key.Matches(msg, m.keys.Delete):
		m.sel = m.sel.Delete(env)
	case key.Matches(msg, m.keys.View):
		m.sel = m.sel.View(env)
		if sel, ok := m.sel.Selected(env); ok && m.sel.Phase == selection.Viewing {
			m.viewer.Show(sel)
			m.sel.ViewOffset = m.viewer.SetOffset(0)
		}
	case key.Matches(msg, m.keys.Copy):
		m.sel, cmd = m.sel.Copy(env)
	case key.Matches(msg, m.keys.OpenURL):
		m.sel, cmd = m.sel.OpenURL(env)
	case key.Matches(msg, m.keys.Exit):
		m.sel = m.sel.Exit()
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		var cmd tea.Cmd
		m.sel, cmd = m.sel.ConfirmDelete(m.env())
		return m, cmd
	case key.Matches(msg, m.keys.Deny):
		m.sel = m.sel.CancelDelete()
	}
	return m, nil
}

func (m Model) handleViewingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sel.ViewOffset = m.viewer.SetOffset(m.sel.ViewOffset - 1)
	case key.Matches(msg, m.keys.Down):
		m.sel.ViewOffset = m.viewer.SetOffset(m.sel.ViewOffset + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.sel.ViewOffset = m.viewer.SetOffset(m.sel.ViewOffset - m.viewer.PageHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.sel.ViewOffset = m.viewer.SetOffset(m.sel.ViewOffset + m.viewer.PageHeight())
	case key.Matches(msg, m.keys.Exit):
		m.sel = m.sel.CloseView()
	}
	return m, nil
}

// pageSize is how many messages a page key skips.
func (m Model) pageSize() int {
	return max(m.height/3, 1)
}

// =============================================================================
// SUBMIT
// =============================================================================

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.editor.Value())
	isCommand := strings.HasPrefix(text, "/") && !strings.HasPrefix(text, "//")
	if !isCommand && m.session.CurrentID() == "" {
		m.status.SetNotice(errNoChannel.Error(), true)
		return m, nil
	}

	sub, ok := m.editor.Submit()
	if !ok {
		return m, nil
	}
	if sub.IsCommand() {
		return m.runCommand(sub.Text)
	}

	text = sub.Text
	if strings.HasPrefix(text, "//") {
		text = text[1:]
	}
	channelID := m.session.CurrentID()

	switch sub.Mode.(type) {
	case editor.Editing:
		postID := sub.PostID
		return m, m.call(func(ctx context.Context, svc Service) tea.Msg {
			p, err := svc.EditPost(ctx, postID, text)
			return PostSavedMsg{Post: p, Err: err}
		})
	default:
		post := model.Post{ChannelID: channelID, RootID: sub.RootID, Message: text}
		return m, m.call(func(ctx context.Context, svc Service) tea.Msg {
			p, err := svc.CreatePost(ctx, post)
			return PostSavedMsg{Post: p, Err: err}
		})
	}
}

// runCommand parses and runs a slash command.
func (m Model) runCommand(text string) (tea.Model, tea.Cmd) {
	res := m.parser.Parse(text)
	if res.Err != nil {
		m.status.SetNotice(res.Err.Error(), true)
		return m, nil
	}
	m.log.Debug("command", zap.String("name", res.Command.Name), zap.Int("args", len(res.Args)))

	ctx := &commands.Context{
		TeamID:    m.session.TeamID,
		ChannelID: m.session.CurrentID(),
		UserID:    m.session.User.ID,
	}
	return m, res.Command.Handler(ctx, res.Args)
}

// errorf builds an ErrorMsg.
func errorf(format string, args ...interface{}) ErrorMsg {
	return ErrorMsg{Err: fmt.Errorf(format, args...)}
}
