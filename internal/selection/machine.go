// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package selection

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/huddle-tui/internal/config"
	"github.com/jeranaias/huddle-tui/internal/editor"
	"github.com/jeranaias/huddle-tui/internal/model"
)

// DefaultActionTimeout bounds a flag or delete request.
const DefaultActionTimeout = 10 * time.Second

// Phase is the interaction mode.
type Phase int

const (
	// Inactive means the user is composing; the editor's Mode says what.
	Inactive Phase = iota
	Selecting
	ConfirmDelete
	Viewing
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Selecting:
		return "selecting"
	case ConfirmDelete:
		return "confirm-delete"
	case Viewing:
		return "viewing"
	default:
		return "composing"
	}
}

// =============================================================================
// COLLABORATORS
// =============================================================================

// Backend performs server-side message actions.
type Backend interface {
	SetFlagged(ctx context.Context, postID string, flagged bool) error
	DeletePost(ctx context.Context, postID string) error
}

// Clipboard writes text to the system clipboard.
type Clipboard func(text string) error

// SystemClipboard writes to the OS clipboard.
func SystemClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// Env is everything a transition reads or drives. It is rebuilt by the
// caller for each transition from the current session.
type Env struct {
	Messages  *model.Messages
	UserID    string
	Editor    *editor.State
	Backend   Backend
	Clipboard Clipboard
	Config    *config.Config
	Log       *zap.Logger
}

func (env Env) log() *zap.Logger {
	if env.Log == nil {
		return zap.NewNop()
	}
	return env.Log
}

// =============================================================================
// RESULT MESSAGES
// =============================================================================

// FlagResultMsg reports a finished flag toggle.
type FlagResultMsg struct {
	PostID  string
	Flagged bool
	Err     error
}

// DeleteResultMsg reports a finished delete.
type DeleteResultMsg struct {
	PostID string
	Err    error
}

// CopiedMsg reports text copied to the clipboard.
type CopiedMsg struct {
	Text string
}

// OpenedURLMsg reports a URL handed to the opener.
type OpenedURLMsg struct {
	URL string
}

// ErrorMsg is a failure to show on the status line.
type ErrorMsg struct {
	Err error
}

// =============================================================================
// MACHINE
// =============================================================================

// Machine is the selection state. SelectedID is only meaningful outside
// Inactive.
type Machine struct {
	Phase      Phase
	SelectedID string
	// ViewOffset is the scroll position of the message detail view.
	ViewOffset int
}

// Selected returns the selected message if it still exists.
func (m Machine) Selected(env Env) (*model.Message, bool) {
	if m.Phase == Inactive || m.SelectedID == "" || env.Messages == nil {
		return nil, false
	}
	return env.Messages.Get(m.SelectedID)
}

// Reconcile moves a selection whose message has disappeared to the next
// selectable message, else the previous one, else ends selection.
func (m Machine) Reconcile(env Env) Machine {
	if m.Phase == Inactive {
		return m
	}
	if msg, ok := m.Selected(env); ok && msg.IsSelectable() {
		return m
	}
	if env.Messages != nil {
		if next, ok := env.Messages.After(m.SelectedID, (*model.Message).IsSelectable); ok {
			return Machine{Phase: Selecting, SelectedID: next.ID}
		}
		if prev, ok := env.Messages.Before(m.SelectedID, (*model.Message).IsSelectable); ok {
			return Machine{Phase: Selecting, SelectedID: prev.ID}
		}
	}
	return Machine{}
}

// Enter starts selecting at the newest selectable message. With no such
// message nothing changes.
func (m Machine) Enter(env Env) Machine {
	if m.Phase != Inactive || env.Messages == nil {
		return m
	}
	latest, ok := env.Messages.Latest((*model.Message).IsSelectable)
	if !ok {
		return m
	}
	return Machine{Phase: Selecting, SelectedID: latest.ID}
}

// Exit leaves selection, viewing or the delete prompt.
func (m Machine) Exit() Machine {
	return Machine{}
}

// MoveUp selects the nearest older selectable message.
func (m Machine) MoveUp(env Env) Machine {
	return m.MoveUpBy(env, 1)
}

// MoveDown selects the nearest newer selectable message.
func (m Machine) MoveDown(env Env) Machine {
	return m.MoveDownBy(env, 1)
}

// MoveUpBy moves up n times, one step at a time.
func (m Machine) MoveUpBy(env Env, n int) Machine {
	for i := 0; i < n; i++ {
		m = m.step(env, env.Messages.Before)
	}
	return m
}

// MoveDownBy moves down n times, one step at a time.
func (m Machine) MoveDownBy(env Env, n int) Machine {
	for i := 0; i < n; i++ {
		m = m.step(env, env.Messages.After)
	}
	return m
}

func (m Machine) step(env Env, neighbor func(string, func(*model.Message) bool) (*model.Message, bool)) Machine {
	if m.Phase != Selecting {
		return m
	}
	m = m.Reconcile(env)
	if m.Phase != Selecting {
		return m
	}
	if next, ok := neighbor(m.SelectedID, (*model.Message).IsSelectable); ok {
		m.SelectedID = next.ID
	}
	return m
}

// current returns the selected message when in phase p, reconciling first.
func (m Machine) current(env Env, p Phase) (Machine, *model.Message, bool) {
	if m.Phase != p {
		return m, nil, false
	}
	m = m.Reconcile(env)
	msg, ok := m.Selected(env)
	return m, msg, ok && m.Phase == p
}

// =============================================================================
// ACTIONS
// =============================================================================

// Flag toggles the flag on the selected post. The request runs in the
// background and reports a FlagResultMsg.
func (m Machine) Flag(env Env) (Machine, tea.Cmd) {
	next, msg, ok := m.current(env, Selecting)
	if !ok || !msg.IsFlaggable() || env.Backend == nil {
		return m, nil
	}

	postID := msg.PostID()
	flagged := !msg.Flagged
	backend := env.Backend
	return next, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultActionTimeout)
		defer cancel()
		err := backend.SetFlagged(ctx, postID, flagged)
		return FlagResultMsg{PostID: postID, Flagged: flagged, Err: err}
	}
}

// HandleFlagResult records a successful flag change on the message.
func (m Machine) HandleFlagResult(env Env, res FlagResultMsg) Machine {
	if res.Err != nil {
		env.log().Warn("flag failed", zap.String("post", res.PostID), zap.Error(res.Err))
		return m
	}
	if env.Messages != nil {
		if msg, ok := env.Messages.Get(res.PostID); ok {
			msg.Flagged = res.Flagged
		}
	}
	return m
}

// Delete asks for confirmation before deleting the selected message. Only
// the author's own deletable messages qualify.
func (m Machine) Delete(env Env) Machine {
	next, msg, ok := m.current(env, Selecting)
	if !ok || !msg.IsOwnedBy(env.UserID) || !msg.IsDeletable() {
		return m
	}
	next.Phase = ConfirmDelete
	return next
}

// ConfirmDelete deletes the message awaiting confirmation. Selection stays
// on it until the DeleteResultMsg arrives.
func (m Machine) ConfirmDelete(env Env) (Machine, tea.Cmd) {
	next, msg, ok := m.current(env, ConfirmDelete)
	if !ok || env.Backend == nil {
		return m, nil
	}

	postID := msg.PostID()
	backend := env.Backend
	next.Phase = Selecting
	return next, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultActionTimeout)
		defer cancel()
		return DeleteResultMsg{PostID: postID, Err: backend.DeletePost(ctx, postID)}
	}
}

// CancelDelete returns from the delete prompt to selecting.
func (m Machine) CancelDelete() Machine {
	if m.Phase != ConfirmDelete {
		return m
	}
	m.Phase = Selecting
	return m
}

// HandleDeleteResult finishes a delete: the message is removed and, if the
// selection is still on it, the user is returned to composing a new post.
// A reply or edit targeting the deleted post is always dropped. A selection
// the user has since moved elsewhere is kept.
func (m Machine) HandleDeleteResult(env Env, res DeleteResultMsg) Machine {
	if res.Err != nil {
		env.log().Warn("delete failed", zap.String("post", res.PostID), zap.Error(res.Err))
		return m
	}
	if env.Messages != nil {
		env.Messages.Remove(res.PostID)
	}

	onDeleted := m.Phase != Inactive && m.SelectedID == res.PostID
	if env.Editor != nil && (onDeleted || composesOn(env.Editor.Mode(), res.PostID)) {
		env.Editor.CancelCompose()
	}
	if onDeleted {
		return Machine{}
	}
	return m.Reconcile(env)
}

// composesOn reports whether mode is a reply to or an edit of postID.
func composesOn(mode editor.Mode, postID string) bool {
	switch md := mode.(type) {
	case editor.Replying:
		return md.Post.ID == postID || md.RootID() == postID
	case editor.Editing:
		return md.Post.ID == postID
	default:
		return false
	}
}

// Reply starts a reply to the selected message and leaves selection.
func (m Machine) Reply(env Env) Machine {
	_, msg, ok := m.current(env, Selecting)
	if !ok || env.Editor == nil || !env.Editor.BeginReply(msg) {
		return m
	}
	return Machine{}
}

// Edit loads the selected message into the editor and leaves selection.
// Only the author's own editable messages qualify.
func (m Machine) Edit(env Env) Machine {
	_, msg, ok := m.current(env, Selecting)
	if !ok || env.Editor == nil || !msg.IsOwnedBy(env.UserID) {
		return m
	}
	if !env.Editor.BeginEdit(msg) {
		return m
	}
	return Machine{}
}

// CancelCompose drops a reply or edit in progress. It is a no-op while
// composing a new post or outside the composing phase.
func (m Machine) CancelCompose(env Env) Machine {
	if m.Phase != Inactive || env.Editor == nil {
		return m
	}
	env.Editor.CancelCompose()
	return m
}

// View opens the selected message in the detail view, scrolled to the top.
func (m Machine) View(env Env) Machine {
	next, _, ok := m.current(env, Selecting)
	if !ok {
		return m
	}
	next.Phase = Viewing
	next.ViewOffset = 0
	return next
}

// CloseView returns from the detail view to selecting.
func (m Machine) CloseView() Machine {
	if m.Phase != Viewing {
		return m
	}
	m.Phase = Selecting
	return m
}

// Copy copies the selected message text and leaves selection.
func (m Machine) Copy(env Env) (Machine, tea.Cmd) {
	_, msg, ok := m.current(env, Selecting)
	if !ok {
		return m, nil
	}
	write := env.Clipboard
	if write == nil {
		write = SystemClipboard
	}
	text := msg.Text
	if msg.Type == model.MessageTypeEmote {
		text = model.StripEmote(text)
	}
	return Machine{}, func() tea.Msg {
		if err := write(text); err != nil {
			return ErrorMsg{Err: err}
		}
		return CopiedMsg{Text: text}
	}
}

// OpenURL opens the first link in the selected message with the configured
// url_open_command. A missing setting yields an ErrorMsg carrying a
// *config.MissingSettingError.
func (m Machine) OpenURL(env Env) (Machine, tea.Cmd) {
	_, msg, ok := m.current(env, Selecting)
	if !ok {
		return m, nil
	}
	urls := msg.URLs()
	if len(urls) == 0 {
		return m, nil
	}

	cfg := env.Config
	if cfg == nil {
		cfg = config.Default()
	}
	command, err := cfg.Require("commands.url_open_command", "open links")
	if err != nil {
		return m, func() tea.Msg { return ErrorMsg{Err: err} }
	}

	url := urls[0]
	return Machine{}, func() tea.Msg {
		if err := OpenURL(context.Background(), command, url); err != nil {
			return ErrorMsg{Err: err}
		}
		return OpenedURLMsg{URL: url}
	}
}
