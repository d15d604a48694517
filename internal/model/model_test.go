// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func post(id, user string, minute int) Post {
	return Post{
		ID:        id,
		ChannelID: "chan",
		UserID:    user,
		Message:   "message " + id,
		CreateAt:  base.Add(time.Duration(minute) * time.Minute).UnixMilli(),
	}
}

func system(minute int) *Message {
	m := NewClientMessage("joined")
	m.Timestamp = base.Add(time.Duration(minute) * time.Minute)
	return m
}

func sampleMessages() *Messages {
	return NewMessages(
		NewPostMessage(post("p1", "alice", 1), "alice"),
		system(2),
		NewPostMessage(post("p3", "bob", 3), "bob"),
		NewPostMessage(post("p4", "alice", 4), "alice"),
		system(5),
	)
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewPostMessage_Types(t *testing.T) {
	tests := []struct {
		name     string
		postType string
		want     MessageType
	}{
		{"regular", "", MessageTypePost},
		{"emote", PostTypeEmote, MessageTypeEmote},
		{"join", "system_join_channel", MessageTypeSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := post("x", "alice", 0)
			p.Type = tt.postType
			if got := NewPostMessage(p, "alice").Type; got != tt.want {
				t.Errorf("Type = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessage_Predicates(t *testing.T) {
	live := NewPostMessage(post("p1", "alice", 0), "alice")
	deleted := NewPostMessage(post("p2", "alice", 0), "alice")
	deleted.Deleted = true
	client := NewClientMessage("hello")

	assert.True(t, live.IsSelectable())
	assert.True(t, live.IsFlaggable())
	assert.True(t, live.IsReplyable())
	assert.True(t, live.IsEditable())
	assert.True(t, live.IsDeletable())
	assert.True(t, live.IsOwnedBy("alice"))
	assert.False(t, live.IsOwnedBy("bob"))
	assert.False(t, live.IsOwnedBy(""))

	assert.False(t, deleted.IsSelectable())
	assert.False(t, deleted.IsReplyable())
	assert.False(t, deleted.IsEditable())
	assert.False(t, deleted.IsDeletable())
	assert.True(t, deleted.IsFlaggable())

	assert.False(t, client.IsSelectable())
	assert.False(t, client.IsFlaggable())
	assert.Empty(t, client.PostID())
}

func TestMessage_URLs(t *testing.T) {
	m := &Message{Text: "see https://example.com/a, and (http://x.io/b?c=1)."}
	assert.Equal(t, []string{"https://example.com/a", "http://x.io/b?c=1"}, m.URLs())

	assert.Empty(t, (&Message{Text: "no links here"}).URLs())
}

func TestEmoteRoundTrip(t *testing.T) {
	assert.Equal(t, "waves", StripEmote("*waves*"))
	assert.Equal(t, "plain", StripEmote("plain"))
	assert.Equal(t, "*", StripEmote("*"))
	assert.Equal(t, "*waves*", AddEmote(StripEmote("*waves*")))
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Bobby", User{Username: "bob", Nickname: "Bobby", FirstName: "Bob"}.DisplayName())
	assert.Equal(t, "Bob Smith", User{Username: "bob", FirstName: "Bob", LastName: "Smith"}.DisplayName())
	assert.Equal(t, "bob", User{Username: "bob"}.DisplayName())
	assert.False(t, User{DeleteAt: 1}.Active())
}

// =============================================================================
// MESSAGES COLLECTION TESTS
// =============================================================================

func TestMessages_OrderedByTimestamp(t *testing.T) {
	ms := NewMessages(
		NewPostMessage(post("late", "a", 9), "a"),
		NewPostMessage(post("early", "a", 1), "a"),
	)
	require.Equal(t, 2, ms.Len())
	assert.Equal(t, "early", ms.All()[0].ID)
	assert.Equal(t, "late", ms.All()[1].ID)
}

func TestMessages_AddReplacesSameID(t *testing.T) {
	ms := sampleMessages()
	edited := NewPostMessage(post("p3", "bob", 3), "bob")
	edited.Text = "edited"
	ms.Add(edited)

	got, ok := ms.Get("p3")
	require.True(t, ok)
	assert.Equal(t, "edited", got.Text)
	assert.Equal(t, 5, ms.Len())
}

func TestMessages_LatestSkipsSystem(t *testing.T) {
	ms := sampleMessages()
	got, ok := ms.Latest((*Message).IsSelectable)
	require.True(t, ok)
	assert.Equal(t, "p4", got.ID)

	empty := NewMessages(system(1))
	_, ok = empty.Latest((*Message).IsSelectable)
	assert.False(t, ok)
}

func TestMessages_Neighbours(t *testing.T) {
	ms := sampleMessages()
	sel := (*Message).IsSelectable

	prev, ok := ms.Before("p3", sel)
	require.True(t, ok)
	assert.Equal(t, "p1", prev.ID)

	next, ok := ms.After("p3", sel)
	require.True(t, ok)
	assert.Equal(t, "p4", next.ID)

	_, ok = ms.Before("p1", sel)
	assert.False(t, ok)
	_, ok = ms.After("p4", sel)
	assert.False(t, ok)
	_, ok = ms.After("unknown", sel)
	assert.False(t, ok)
}

func TestMessages_NeighboursOfRemoved(t *testing.T) {
	ms := sampleMessages()
	sel := (*Message).IsSelectable
	require.True(t, ms.Remove("p3"))
	assert.False(t, ms.Remove("p3"))

	prev, ok := ms.Before("p3", sel)
	require.True(t, ok)
	assert.Equal(t, "p1", prev.ID)

	next, ok := ms.After("p3", sel)
	require.True(t, ok)
	assert.Equal(t, "p4", next.ID)
}
