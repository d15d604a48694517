// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package selection

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/huddle-tui/internal/config"
	"github.com/jeranaias/huddle-tui/internal/editor"
	"github.com/jeranaias/huddle-tui/internal/model"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeBackend struct {
	mu      sync.Mutex
	flagged map[string]bool
	deleted []string
	err     error
}

func (b *fakeBackend) SetFlagged(ctx context.Context, postID string, flagged bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.flagged == nil {
		b.flagged = make(map[string]bool)
	}
	b.flagged[postID] = flagged
	return b.err
}

func (b *fakeBackend) DeletePost(ctx context.Context, postID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, postID)
	return b.err
}

func newPost(id, user, text string, minute int) *model.Message {
	return model.NewPostMessage(model.Post{
		ID:       id,
		UserID:   user,
		Message:  text,
		CreateAt: base.Add(time.Duration(minute) * time.Minute).UnixMilli(),
	}, user)
}

func newSystem(minute int) *model.Message {
	m := model.NewClientMessage("someone joined")
	m.Timestamp = base.Add(time.Duration(minute) * time.Minute)
	return m
}

// testEnv builds a channel of: p1(me) sys p3(bob) p4(me) sys.
func testEnv() (Env, *fakeBackend) {
	backend := &fakeBackend{}
	msgs := model.NewMessages(
		newPost("p1", "me", "first https://example.com/a.", 1),
		newSystem(2),
		newPost("p3", "bob", "from bob", 3),
		newPost("p4", "me", "latest", 4),
		newSystem(5),
	)
	return Env{
		Messages: msgs,
		UserID:   "me",
		Editor:   editor.New(editor.NewLineBuffer("", 0), nil),
		Backend:  backend,
		Config:   config.Default(),
	}, backend
}

func selecting(id string) Machine {
	return Machine{Phase: Selecting, SelectedID: id}
}

func TestEnter(t *testing.T) {
	env, _ := testEnv()
	m := Machine{}.Enter(env)
	assert.Equal(t, selecting("p4"), m, "newest user post, skipping system messages")

	empty := env
	empty.Messages = model.NewMessages(newSystem(1))
	assert.Equal(t, Machine{}, Machine{}.Enter(empty))
}

func TestMove(t *testing.T) {
	env, _ := testEnv()

	assert.Equal(t, selecting("p3"), selecting("p4").MoveUp(env))
	assert.Equal(t, selecting("p1"), selecting("p4").MoveUpBy(env, 2))
	assert.Equal(t, selecting("p1"), selecting("p4").MoveUpBy(env, 10), "stops at the oldest")
	assert.Equal(t, selecting("p4"), selecting("p4").MoveDown(env), "stays at the newest")
	assert.Equal(t, Machine{}, Machine{}.MoveUp(env), "inactive ignores movement")
}

func TestMove_RoundTrip(t *testing.T) {
	env, _ := testEnv()
	for _, id := range []string{"p1", "p3"} {
		start := selecting(id)
		assert.Equal(t, start, start.MoveDown(env).MoveUp(env), "from %s", id)
	}
}

func TestReconcile_AfterRemoval(t *testing.T) {
	env, _ := testEnv()

	env.Messages.Remove("p3")
	assert.Equal(t, selecting("p4"), selecting("p3").Reconcile(env))
	assert.Equal(t, selecting("p1"), selecting("p3").MoveUp(env), "moves from the replacement")

	env.Messages.Remove("p4")
	assert.Equal(t, selecting("p1"), selecting("p4").Reconcile(env))

	env.Messages.Remove("p1")
	assert.Equal(t, Machine{}, selecting("p1").Reconcile(env))
}

func TestDelete_NotOwnedIsNoop(t *testing.T) {
	env, backend := testEnv()
	start := selecting("p3")

	m := start.Delete(env)
	assert.Equal(t, start, m)
	assert.Equal(t, editor.NewPost{}, env.Editor.Mode())

	m, cmd := m.ConfirmDelete(env)
	assert.Nil(t, cmd)
	assert.Equal(t, start, m)
	assert.Empty(t, backend.deleted)
}

func TestDelete_Owned(t *testing.T) {
	env, backend := testEnv()

	m := selecting("p4").Delete(env)
	require.Equal(t, ConfirmDelete, m.Phase)
	assert.Equal(t, selecting("p4"), m.CancelDelete())

	m, cmd := m.ConfirmDelete(env)
	require.NotNil(t, cmd)
	res := cmd().(DeleteResultMsg)
	assert.NoError(t, res.Err)
	assert.Equal(t, []string{"p4"}, backend.deleted)

	m = m.HandleDeleteResult(env, res)
	assert.Equal(t, Machine{}, m)
	_, ok := env.Messages.Get("p4")
	assert.False(t, ok)
}

func TestDelete_FailureKeepsSelection(t *testing.T) {
	env, backend := testEnv()
	backend.err = errors.New("forbidden")

	m, cmd := selecting("p4").Delete(env).ConfirmDelete(env)
	require.NotNil(t, cmd)
	m = m.HandleDeleteResult(env, cmd().(DeleteResultMsg))
	assert.Equal(t, selecting("p4"), m)
	_, ok := env.Messages.Get("p4")
	assert.True(t, ok)
}

func TestDelete_WhileEditingReturnsToNewPost(t *testing.T) {
	env, _ := testEnv()
	require.Equal(t, Machine{}, selecting("p4").Edit(env))
	require.IsType(t, editor.Editing{}, env.Editor.Mode())

	m := Machine{}.HandleDeleteResult(env, DeleteResultMsg{PostID: "p4"})
	assert.Equal(t, Machine{}, m)
	assert.Equal(t, editor.NewPost{}, env.Editor.Mode())
}

func TestDelete_RepliedPostReturnsToNewPost(t *testing.T) {
	env, _ := testEnv()
	require.Equal(t, Machine{}, selecting("p4").Reply(env))
	require.IsType(t, editor.Replying{}, env.Editor.Mode())

	m := Machine{}.Enter(env)
	require.Equal(t, selecting("p4"), m)
	m, cmd := m.Delete(env).ConfirmDelete(env)
	require.NotNil(t, cmd)

	m = m.HandleDeleteResult(env, cmd().(DeleteResultMsg))
	assert.Equal(t, Machine{}, m)
	assert.Equal(t, editor.NewPost{}, env.Editor.Mode())
}

func TestDelete_LateResultKeepsOtherSelection(t *testing.T) {
	env, _ := testEnv()
	require.Equal(t, Machine{}, selecting("p3").Reply(env))

	_, cmd := selecting("p4").Delete(env).ConfirmDelete(env)
	require.NotNil(t, cmd)

	// The user moved on before the server answered.
	m := selecting("p1")
	m = m.HandleDeleteResult(env, cmd().(DeleteResultMsg))
	assert.Equal(t, selecting("p1"), m)
	reply, ok := env.Editor.Mode().(editor.Replying)
	require.True(t, ok, "reply to another post survives")
	assert.Equal(t, "p3", reply.Post.ID)

	viewing := Machine{Phase: Viewing, SelectedID: "p1"}
	assert.Equal(t, viewing, viewing.HandleDeleteResult(env, DeleteResultMsg{PostID: "p4"}))
}

func TestReconcile_SkipsDeletedPosts(t *testing.T) {
	env, _ := testEnv()
	msg, ok := env.Messages.Get("p3")
	require.True(t, ok)
	msg.Deleted = true

	assert.Equal(t, selecting("p1"), selecting("p4").MoveUp(env))
	assert.Equal(t, selecting("p4"), selecting("p3").Reconcile(env))
}

func TestFlag(t *testing.T) {
	env, backend := testEnv()

	m, cmd := selecting("p3").Flag(env)
	assert.Equal(t, selecting("p3"), m)
	require.NotNil(t, cmd)

	res := cmd().(FlagResultMsg)
	assert.True(t, res.Flagged)
	assert.True(t, backend.flagged["p3"])

	m.HandleFlagResult(env, res)
	msg, _ := env.Messages.Get("p3")
	assert.True(t, msg.Flagged)

	_, cmd = selecting("p3").Flag(env)
	require.NotNil(t, cmd)
	assert.False(t, cmd().(FlagResultMsg).Flagged, "second flag unflags")

	_, cmd = Machine{}.Flag(env)
	assert.Nil(t, cmd)
}

func TestReply(t *testing.T) {
	env, _ := testEnv()

	m := selecting("p3").Reply(env)
	assert.Equal(t, Machine{}, m)
	reply, ok := env.Editor.Mode().(editor.Replying)
	require.True(t, ok)
	assert.Equal(t, "p3", reply.Post.ID)
}

func TestEdit(t *testing.T) {
	env, _ := testEnv()

	assert.Equal(t, selecting("p3"), selecting("p3").Edit(env), "not the author")
	assert.Equal(t, editor.NewPost{}, env.Editor.Mode())

	assert.Equal(t, Machine{}, selecting("p4").Edit(env))
	assert.Equal(t, "latest", env.Editor.Value())
}

func TestEdit_Emote(t *testing.T) {
	env, _ := testEnv()
	emote := model.NewPostMessage(model.Post{
		ID: "e1", UserID: "me", Message: "*dances*", Type: model.PostTypeEmote,
		CreateAt: base.Add(10 * time.Minute).UnixMilli(),
	}, "me")
	env.Messages.Add(emote)

	require.Equal(t, Machine{}, selecting("e1").Edit(env))
	assert.Equal(t, "dances", env.Editor.Value())

	sub, ok := env.Editor.Submit()
	require.True(t, ok)
	assert.Equal(t, "*dances*", sub.Text)
}

func TestCancelCompose(t *testing.T) {
	env, _ := testEnv()
	env.Editor.Buffer().SetValue("draft")

	m := Machine{}.CancelCompose(env)
	assert.Equal(t, Machine{}, m)
	assert.Equal(t, editor.NewPost{}, env.Editor.Mode())
	assert.Equal(t, "draft", env.Editor.Value(), "no-op from a new post")

	selecting("p3").Reply(env)
	Machine{}.CancelCompose(env)
	assert.Equal(t, editor.NewPost{}, env.Editor.Mode())
	assert.Empty(t, env.Editor.Value())
}

func TestView(t *testing.T) {
	env, _ := testEnv()
	start := selecting("p3")
	start.ViewOffset = 7

	m := start.View(env)
	assert.Equal(t, Viewing, m.Phase)
	assert.Equal(t, "p3", m.SelectedID)
	assert.Zero(t, m.ViewOffset)
	assert.Equal(t, Selecting, m.CloseView().Phase)
	assert.Equal(t, Machine{}, m.Exit())
}

func TestCopy(t *testing.T) {
	env, _ := testEnv()
	var copied string
	env.Clipboard = func(s string) error { copied = s; return nil }

	m, cmd := selecting("p3").Copy(env)
	assert.Equal(t, Machine{}, m)
	require.NotNil(t, cmd)
	assert.Equal(t, CopiedMsg{Text: "from bob"}, cmd())
	assert.Equal(t, "from bob", copied)

	env.Clipboard = func(string) error { return errors.New("no clipboard") }
	_, cmd = selecting("p3").Copy(env)
	assert.IsType(t, ErrorMsg{}, cmd())
}

func TestOpenURL_MissingSetting(t *testing.T) {
	env, _ := testEnv()
	env.Config.Commands.URLOpenCommand = ""

	m, cmd := selecting("p1").OpenURL(env)
	assert.Equal(t, selecting("p1"), m)
	require.NotNil(t, cmd)

	errMsg, ok := cmd().(ErrorMsg)
	require.True(t, ok)
	var missing *config.MissingSettingError
	require.ErrorAs(t, errMsg.Err, &missing)
	assert.Equal(t, "commands.url_open_command", missing.Key)

	_, cmd = selecting("p3").OpenURL(env)
	assert.Nil(t, cmd, "no links in message")
}

func TestOpenURL_RunsCommand(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true(1) not available")
	}
	env, _ := testEnv()
	env.Config.Commands.URLOpenCommand = "true"

	m, cmd := selecting("p1").OpenURL(env)
	assert.Equal(t, Machine{}, m)
	require.NotNil(t, cmd)
	assert.Equal(t, OpenedURLMsg{URL: "https://example.com/a"}, cmd())
}

func TestOpenURL_EmptyCommand(t *testing.T) {
	assert.ErrorIs(t, OpenURL(context.Background(), "  ", "https://x"), ErrEmptyCommand)
}
