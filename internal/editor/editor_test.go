// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/huddle-tui/internal/autocomplete"
	"github.com/jeranaias/huddle-tui/internal/model"
)

func postMessage(id, user, text string, typ string) *model.Message {
	return model.NewPostMessage(model.Post{ID: id, UserID: user, Message: text, Type: typ, CreateAt: 1}, user)
}

func newSyntaxEditor(text string, names ...string) *State {
	engine := autocomplete.NewEngine([]autocomplete.Resolver{autocomplete.NewSyntaxResolver(names)})
	return New(NewLineBuffer(text, len([]rune(text))), engine)
}

func TestLineBuffer_ReplaceWordBeforeCursor(t *testing.T) {
	b := NewLineBuffer("hi @al there", 6)
	assert.Equal(t, "hi @al there", b.Line())
	assert.Equal(t, 6, b.Column())

	b.ReplaceWordBeforeCursor("@alice")
	assert.Equal(t, "hi @alice there", b.Value())
	assert.Equal(t, 9, b.Cursor())

	multi := NewLineBuffer("first\nsecond ~to", 16)
	assert.Equal(t, "second ~to", multi.Line())
	assert.Equal(t, 10, multi.Column())
	multi.ReplaceWordBeforeCursor("~town")
	assert.Equal(t, "first\nsecond ~town", multi.Value())
}

func TestCompletion_CycleAndReplace(t *testing.T) {
	s := newSyntaxEditor("```c", "c", "cpp", "csharp")

	assert.Nil(t, s.CheckCompletion(autocomplete.Context{}))
	require.True(t, s.Engine().Active())

	require.True(t, s.Complete(Forward))
	assert.Equal(t, "```c", s.Value())
	require.True(t, s.Complete(Forward))
	assert.Equal(t, "```cpp", s.Value())
	require.True(t, s.Complete(Backward))
	assert.Equal(t, "```c", s.Value())

	assert.True(t, s.CancelCompletion())
	assert.False(t, s.Complete(Forward))
}

func TestCompletion_FirstMatchAppliesSoleCandidate(t *testing.T) {
	s := newSyntaxEditor("```pyt", "python", "rust")

	s.CheckCompletion(autocomplete.Context{Manual: true, FirstMatch: true})
	assert.Equal(t, "```python ", s.Value())
	assert.Nil(t, s.Engine().State(), "sole candidate ends the session")
}

// userResolver answers @mentions asynchronously from a fixed list.
type userResolver struct {
	users []model.User
}

func (userResolver) Kind() autocomplete.Kind { return autocomplete.KindUser }

func (r userResolver) Resolve(ctx autocomplete.Context, search string) tea.Cmd {
	return func() tea.Msg {
		alts := make([]autocomplete.Alternative, 0, len(r.users))
		for _, u := range r.users {
			alts = append(alts, autocomplete.UserCompletion{User: u})
		}
		return autocomplete.ResultsMsg{Context: ctx, Kind: autocomplete.KindUser, Search: search, Alternatives: alts}
	}
}

func TestCompletion_ApplyResultsFirstMatch(t *testing.T) {
	engine := autocomplete.NewEngine([]autocomplete.Resolver{
		userResolver{users: []model.User{{ID: "u1", Username: "bob"}}},
	})
	s := New(NewLineBuffer("hey @bo", 7), engine)

	cmd := s.CheckCompletion(autocomplete.Context{Manual: true, FirstMatch: true})
	require.NotNil(t, cmd)
	assert.Equal(t, "hey @bo", s.Value(), "nothing applied before results arrive")

	require.True(t, s.ApplyResults(cmd().(autocomplete.ResultsMsg)))
	assert.Equal(t, "hey @bob ", s.Value())
}

func TestCompletion_TabWhileQueryInFlight(t *testing.T) {
	engine := autocomplete.NewEngine([]autocomplete.Resolver{
		userResolver{users: []model.User{{ID: "u1", Username: "bob"}}},
	})
	s := New(NewLineBuffer("hey @bo", 7), engine)

	cmd := s.CheckCompletion(autocomplete.Context{})
	require.NotNil(t, cmd)
	assert.Nil(t, s.CheckCompletion(autocomplete.Context{Manual: true, FirstMatch: true}))

	require.True(t, s.ApplyResults(cmd().(autocomplete.ResultsMsg)))
	assert.Equal(t, "hey @bob ", s.Value())
}

func TestCompletion_StaleResultsLeaveBufferAlone(t *testing.T) {
	engine := autocomplete.NewEngine([]autocomplete.Resolver{
		userResolver{users: []model.User{{ID: "u1", Username: "bob"}}},
	})
	s := New(NewLineBuffer("hey @bo", 7), engine)

	cmd := s.CheckCompletion(autocomplete.Context{FirstMatch: true})
	require.NotNil(t, cmd)
	s.Buffer().SetValue("hey")
	s.CheckCompletion(autocomplete.Context{})

	assert.False(t, s.ApplyResults(cmd().(autocomplete.ResultsMsg)))
	assert.Equal(t, "hey", s.Value())
}

func TestBeginEdit_StripsAndRestoresEmote(t *testing.T) {
	s := New(NewLineBuffer("", 0), nil)
	msg := postMessage("p1", "me", "*waves*", model.PostTypeEmote)

	require.True(t, s.BeginEdit(msg))
	assert.Equal(t, "waves", s.Value())
	assert.IsType(t, Editing{}, s.Mode())

	s.Buffer().SetValue("waves back")
	sub, ok := s.Submit()
	require.True(t, ok)
	assert.Equal(t, "*waves back*", sub.Text)
	assert.Equal(t, "p1", sub.PostID)
	assert.Equal(t, NewPost{}, s.Mode())
	assert.Empty(t, s.Value())
}

func TestBeginReply(t *testing.T) {
	s := New(NewLineBuffer("", 0), nil)

	sys := model.NewClientMessage("joined")
	assert.False(t, s.BeginReply(sys))
	assert.Equal(t, NewPost{}, s.Mode())

	threaded := postMessage("p2", "bob", "in thread", "")
	threaded.Post.RootID = "p1"
	require.True(t, s.BeginReply(threaded))

	s.Buffer().SetValue("agreed")
	sub, ok := s.Submit()
	require.True(t, ok)
	assert.Equal(t, "p1", sub.RootID)
	assert.Empty(t, sub.PostID)
}

func TestCancelCompose(t *testing.T) {
	s := New(NewLineBuffer("draft", 5), nil)

	assert.False(t, s.CancelCompose(), "no-op from NewPost")
	assert.Equal(t, "draft", s.Value())
	assert.Equal(t, NewPost{}, s.Mode())

	require.True(t, s.BeginReply(postMessage("p1", "bob", "hi", "")))
	assert.True(t, s.CancelCompose())
	assert.Equal(t, NewPost{}, s.Mode())
	assert.Empty(t, s.Value())
}

func TestSubmit_Blank(t *testing.T) {
	s := New(NewLineBuffer("   \n", 4), nil)
	_, ok := s.Submit()
	assert.False(t, ok)
}

func TestSubmission_IsCommand(t *testing.T) {
	assert.True(t, Submission{Text: "/join ~town"}.IsCommand())
	assert.False(t, Submission{Text: "//not a command"}.IsCommand())
	assert.False(t, Submission{Text: "hello /join"}.IsCommand())
}

func TestHistory(t *testing.T) {
	s := New(NewLineBuffer("", 0), nil)
	for _, text := range []string{"one", "two", "two"} {
		s.Buffer().SetValue(text)
		_, ok := s.Submit()
		require.True(t, ok)
	}

	s.Buffer().SetValue("draft")
	require.True(t, s.HistoryPrev())
	assert.Equal(t, "two", s.Value())
	require.True(t, s.HistoryPrev())
	assert.Equal(t, "one", s.Value())
	assert.False(t, s.HistoryPrev())

	require.True(t, s.HistoryNext())
	assert.Equal(t, "two", s.Value())
	require.True(t, s.HistoryNext())
	assert.Equal(t, "draft", s.Value())
	assert.False(t, s.HistoryNext())
}

func TestHistory_Bounded(t *testing.T) {
	h := NewHistory(2)
	h.Add("a")
	h.Add("b")
	h.Add("c")
	assert.Equal(t, 2, h.Len())
	got, ok := h.Prev("")
	require.True(t, ok)
	assert.Equal(t, "c", got)
	got, _ = h.Prev("")
	assert.Equal(t, "b", got)
}

func TestMultilineToggle(t *testing.T) {
	s := New(NewLineBuffer("", 0), nil, WithMultiline(true))
	assert.True(t, s.Multiline())
	assert.False(t, s.ToggleMultiline())
}
