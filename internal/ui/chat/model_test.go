// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/huddle-tui/internal/autocomplete"
	"github.com/jeranaias/huddle-tui/internal/commands"
	"github.com/jeranaias/huddle-tui/internal/config"
	"github.com/jeranaias/huddle-tui/internal/directory"
	"github.com/jeranaias/huddle-tui/internal/editor"
	"github.com/jeranaias/huddle-tui/internal/model"
	"github.com/jeranaias/huddle-tui/internal/selection"
	"github.com/jeranaias/huddle-tui/internal/ui/styles"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeService struct {
	channels map[string]model.Channel
	users    map[string]model.User

	created []model.Post
	edited  map[string]string
	deleted []string
	joined  []string
	left    []string
	flagged map[string]bool
	header  map[string]string
}

func newFakeService() *fakeService {
	return &fakeService{
		channels: map[string]model.Channel{
			"town": {ID: "c1", TeamID: "t1", Name: "town", Type: model.ChannelOpen},
			"dev":  {ID: "c2", TeamID: "t1", Name: "dev", Type: model.ChannelOpen},
		},
		users: map[string]model.User{
			"bob": {ID: "u2", Username: "bob"},
		},
		edited:  map[string]string{},
		flagged: map[string]bool{},
		header:  map[string]string{},
	}
}

var errNotFound = errors.New("not found")

func (f *fakeService) SetFlagged(_ context.Context, postID string, flagged bool) error {
	f.flagged[postID] = flagged
	return nil
}

func (f *fakeService) DeletePost(_ context.Context, postID string) error {
	f.deleted = append(f.deleted, postID)
	return nil
}

func (f *fakeService) MyChannels(context.Context, string) ([]model.Channel, error) {
	return []model.Channel{f.channels["town"]}, nil
}

func (f *fakeService) ChannelByName(_ context.Context, _ string, name string) (model.Channel, error) {
	ch, ok := f.channels[name]
	if !ok {
		return model.Channel{}, errNotFound
	}
	return ch, nil
}

func (f *fakeService) ChannelPosts(context.Context, string, int) ([]model.Post, error) {
	return nil, nil
}

func (f *fakeService) JoinChannel(_ context.Context, channelID string) error {
	f.joined = append(f.joined, channelID)
	return nil
}

func (f *fakeService) LeaveChannel(_ context.Context, channelID string) error {
	f.left = append(f.left, channelID)
	return nil
}

func (f *fakeService) ChannelMembers(context.Context, string) ([]model.User, error) {
	return []model.User{{ID: "me", Username: "alice"}, f.users["bob"]}, nil
}

func (f *fakeService) AddChannelMember(context.Context, string, string) error { return nil }

func (f *fakeService) SetChannelHeader(_ context.Context, channelID, header string) error {
	f.header[channelID] = header
	return nil
}

func (f *fakeService) DirectChannel(_ context.Context, otherUserID string) (model.Channel, error) {
	return model.Channel{ID: "d1", Name: "me__" + otherUserID, Type: model.ChannelDirect}, nil
}

func (f *fakeService) UsersByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeService) UserByUsername(_ context.Context, username string) (model.User, error) {
	u, ok := f.users[username]
	if !ok {
		return model.User{}, errNotFound
	}
	return u, nil
}

func (f *fakeService) CreatePost(_ context.Context, p model.Post) (model.Post, error) {
	p.ID = "new" + string(rune('0'+len(f.created)))
	p.UserID = "me"
	p.CreateAt = time.Now().UnixMilli()
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakeService) EditPost(_ context.Context, postID, message string) (model.Post, error) {
	f.edited[postID] = message
	return model.Post{ID: postID, ChannelID: "c1", UserID: "me", Message: message, EditAt: 1}, nil
}

func (f *fakeService) FlaggedPosts(context.Context) ([]model.Post, error) {
	return nil, nil
}

type stubDirectory struct{}

func (stubDirectory) SearchUsers(context.Context, string, string, string) (directory.UserResults, error) {
	return directory.UserResults{}, nil
}

func (stubDirectory) SearchChannels(context.Context, string, string) ([]model.Channel, error) {
	return nil, nil
}

func (stubDirectory) SearchEmoji(context.Context, string) ([]string, error) {
	return nil, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func newTestModel(t *testing.T, svc *fakeService) Model {
	t.Helper()
	cfg := config.Default()
	m := New(Options{
		Config:    cfg,
		Service:   svc,
		Directory: stubDirectory{},
		User:      model.User{ID: "me", Username: "alice"},
		TeamID:    "t1",
		Theme:     styles.NewTheme("dark"),
		Clipboard: func(string) error { return nil },
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

// withChannel loads ~town with a few posts: p1 by me, p2 by bob, p3 by me.
func withChannel(t *testing.T, m Model) Model {
	t.Helper()
	m = update(t, m, ChannelsLoadedMsg{Channels: []model.Channel{{ID: "c1", Name: "town", Type: model.ChannelOpen}}})
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	posts := []model.Post{
		{ID: "p1", ChannelID: "c1", UserID: "me", Message: "see https://example.com", CreateAt: base},
		{ID: "p2", ChannelID: "c1", UserID: "u2", Message: "hello", CreateAt: base + 60000},
		{ID: "p3", ChannelID: "c1", UserID: "me", Message: "*waves*", Type: model.PostTypeEmote, CreateAt: base + 120000},
	}
	m = update(t, m, PostsLoadedMsg{ChannelID: "c1", Posts: posts})
	return update(t, m, UsersLoadedMsg{Users: []model.User{{ID: "u2", Username: "bob"}}})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = update(t, m, runes(string(r)))
	}
	return m
}

// =============================================================================
// COMPLETION
// =============================================================================

func TestModel_TabCompletesCommand(t *testing.T) {
	m := newTestModel(t, newFakeService())
	m = typeText(t, m, "/leaveal")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "/leaveall ", m.Editor().Value())
	assert.Nil(t, m.Editor().Engine().State())
}

func TestModel_TypingIssuesUserQuery(t *testing.T) {
	m := newTestModel(t, newFakeService())
	m = typeText(t, m, "hi @bo")

	kind, search, ok := m.Editor().Engine().Pending()
	require.True(t, ok)
	assert.Equal(t, autocomplete.KindUser, kind)
	assert.Equal(t, "bo", search)
	assert.True(t, m.searching())

	// A late answer for an older search is ignored.
	m = update(t, m, autocomplete.ResultsMsg{Kind: autocomplete.KindUser, Search: "b"})
	assert.Nil(t, m.Editor().Engine().State())

	alts := []autocomplete.Alternative{
		autocomplete.UserCompletion{User: model.User{ID: "u2", Username: "bob"}},
		autocomplete.UserCompletion{User: model.User{ID: "u3", Username: "bobby"}, OutOfChannel: true},
	}
	m = update(t, m, autocomplete.ResultsMsg{Kind: autocomplete.KindUser, Search: "bo", Alternatives: alts, Label: "Users"})
	require.True(t, m.Editor().Engine().Active())
	assert.False(t, m.searching())
	assert.Contains(t, m.View(), "@bobby")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "hi @bob", m.Editor().Value())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.Editor().Engine().State())
}

// =============================================================================
// SELECTION
// =============================================================================

func TestModel_SelectReplyAndSend(t *testing.T) {
	svc := newFakeService()
	m := withChannel(t, newTestModel(t, svc))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, selection.Selecting, m.Selection().Phase)
	assert.Equal(t, "p3", m.Selection().SelectedID)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "p2", m.Selection().SelectedID)

	m = update(t, m, runes("r"))
	assert.Equal(t, selection.Inactive, m.Selection().Phase)
	_, ok := m.Editor().Mode().(editor.Replying)
	require.True(t, ok)

	m = typeText(t, m, "sure")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	require.Len(t, svc.created, 1)
	assert.Equal(t, "p2", svc.created[0].RootID)
	assert.Equal(t, "sure", svc.created[0].Message)
	_, ok = m.Session().Messages("c1").Get(svc.created[0].ID)
	assert.True(t, ok)
	assert.Equal(t, editor.NewPost{}, m.Editor().Mode())
}

func TestModel_DeleteOwnMessage(t *testing.T) {
	svc := newFakeService()
	m := withChannel(t, newTestModel(t, svc))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = update(t, m, runes("d"))
	assert.Equal(t, selection.ConfirmDelete, m.Selection().Phase)
	assert.Contains(t, m.View(), "Delete this message?")

	m, cmd := updateCmd(t, m, runes("y"))
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	assert.Equal(t, []string{"p3"}, svc.deleted)
	assert.Equal(t, selection.Inactive, m.Selection().Phase)
	_, ok := m.Session().Messages("c1").Get("p3")
	assert.False(t, ok)
}

func TestModel_DeleteOthersMessageIgnored(t *testing.T) {
	m := withChannel(t, newTestModel(t, newFakeService()))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, runes("d"))
	assert.Equal(t, selection.Selecting, m.Selection().Phase)
	assert.Equal(t, "p2", m.Selection().SelectedID)
}

func TestModel_EditEmoteRoundTrip(t *testing.T) {
	svc := newFakeService()
	m := withChannel(t, newTestModel(t, svc))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = update(t, m, runes("e"))
	assert.Equal(t, "waves", m.Editor().Value())

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	update(t, m, cmd())
	assert.Equal(t, "*waves*", svc.edited["p3"])
}

func TestModel_EscCancelsReply(t *testing.T) {
	m := withChannel(t, newTestModel(t, newFakeService()))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = update(t, m, runes("r"))
	m = typeText(t, m, "draft")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, editor.NewPost{}, m.Editor().Mode())
	assert.Empty(t, m.Editor().Value())
}

func TestModel_FlagToggle(t *testing.T) {
	svc := newFakeService()
	m := withChannel(t, newTestModel(t, svc))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, cmd := updateCmd(t, m, runes("f"))
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	assert.True(t, svc.flagged["p3"])
	msg, ok := m.Session().Messages("c1").Get("p3")
	require.True(t, ok)
	assert.True(t, msg.Flagged)
}

func TestModel_ViewAndClose(t *testing.T) {
	m := withChannel(t, newTestModel(t, newFakeService()))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, runes("v"))
	assert.Equal(t, selection.Viewing, m.Selection().Phase)
	assert.Equal(t, 0, m.Selection().ViewOffset)
	assert.Contains(t, m.View(), "bob")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, selection.Selecting, m.Selection().Phase)
}

func TestModel_OpenURLWithoutCommand(t *testing.T) {
	m := withChannel(t, newTestModel(t, newFakeService()))
	m.cfg.Commands.URLOpenCommand = ""

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, "p1", m.Selection().SelectedID)

	m, cmd := updateCmd(t, m, runes("o"))
	require.NotNil(t, cmd)
	msg := cmd()
	errMsg, ok := msg.(selection.ErrorMsg)
	require.True(t, ok)
	var missing *config.MissingSettingError
	assert.ErrorAs(t, errMsg.Err, &missing)

	m = update(t, m, msg)
	assert.True(t, m.status.IsError)
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestModel_JoinCommand(t *testing.T) {
	svc := newFakeService()
	m := withChannel(t, newTestModel(t, svc))

	m.Editor().Buffer().SetValue("/join ~dev")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	joinMsg := cmd()
	require.IsType(t, commands.JoinChannelMsg{}, joinMsg)
	m, cmd = updateCmd(t, m, joinMsg)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	assert.Equal(t, []string{"c2"}, svc.joined)
	assert.Equal(t, "c2", m.Session().CurrentID())
	assert.Contains(t, m.View(), "~dev")
}

func TestModel_UnknownCommand(t *testing.T) {
	m := newTestModel(t, newFakeService())

	m.Editor().Buffer().SetValue("/nope")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.status.IsError)
	assert.Contains(t, m.status.Notice, "unknown command")
}

func TestModel_PostWithoutChannel(t *testing.T) {
	svc := newFakeService()
	m := newTestModel(t, svc)

	m = typeText(t, m, "hello")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "hello", m.Editor().Value())
	assert.True(t, m.status.IsError)
	assert.Empty(t, svc.created)
}

func TestModel_HeaderAndMembers(t *testing.T) {
	svc := newFakeService()
	m := withChannel(t, newTestModel(t, svc))

	m.Editor().Buffer().SetValue("/header release day")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd = updateCmd(t, m, cmd())
	m = update(t, m, cmd())
	assert.Equal(t, "release day", svc.header["c1"])
	ch, ok := m.Session().Current()
	require.True(t, ok)
	assert.Equal(t, "release day", ch.Header)

	m.Editor().Buffer().SetValue("/members")
	m, cmd = updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd = updateCmd(t, m, cmd())
	m = update(t, m, cmd())
	all := m.Session().Messages("c1").All()
	last := all[len(all)-1]
	assert.Equal(t, model.MessageTypeClient, last.Type)
	assert.Contains(t, last.Text, "@bob")
}

func TestModel_ConfigReload(t *testing.T) {
	m := newTestModel(t, newFakeService())
	cfg := config.Default()
	cfg.Autocomplete.EmojiManualOnly = false

	m = update(t, m, ConfigReloadedMsg{Config: cfg})
	m = typeText(t, m, ":smi")
	kind, _, ok := m.Editor().Engine().Pending()
	require.True(t, ok)
	assert.Equal(t, autocomplete.KindEmoji, kind)
}
