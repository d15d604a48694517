// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/jeranaias/huddle-tui/internal/model"
)

// fakeDirectory is a scripted remote.
type fakeDirectory struct {
	users    UserResults
	channels []model.Channel
	emoji    []string
	err      error
	calls    int
}

func (f *fakeDirectory) SearchUsers(ctx context.Context, teamID, channelID, query string) (UserResults, error) {
	f.calls++
	return f.users, f.err
}

func (f *fakeDirectory) SearchChannels(ctx context.Context, teamID, query string) ([]model.Channel, error) {
	f.calls++
	return f.channels, f.err
}

func (f *fakeDirectory) SearchEmoji(ctx context.Context, query string) ([]string, error) {
	f.calls++
	return f.emoji, f.err
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "directory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func usernames(users []model.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}

const snapshotJSON = `{
  "users": [
    {"id": "u1", "username": "alice", "first_name": "Alice", "last_name": "Liddell"},
    {"id": "u2", "username": "albert", "first_name": "Albert"},
    {"id": "u3", "username": "bob"},
    {"id": "u4", "username": "alfred", "delete_at": 1700000000000}
  ],
  "channels": [
    {"id": "c1", "team_id": "t1", "name": "town-square", "display_name": "Town Square", "type": "O"},
    {"id": "c2", "team_id": "t1", "name": "off-topic", "display_name": "Off-Topic", "type": "O"},
    {"id": "c3", "team_id": "t2", "name": "town-hall", "display_name": "Town Hall", "type": "O"}
  ],
  "channel_members": {"c1": ["u1", "u3"]},
  "emoji": ["partyparrot", "shipit"]
}`

func TestStore_ImportAndStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	st, err := s.Import(ctx, strings.NewReader(snapshotJSON))
	require.NoError(t, err)
	assert.Equal(t, Stats{Users: 4, Channels: 3, Emoji: 2}, st)

	got, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, st, got)

	// Importing again upserts rather than duplicating.
	_, err = s.Import(ctx, strings.NewReader(snapshotJSON))
	require.NoError(t, err)
	got, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestStore_Import_BadJSON(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Import(context.Background(), strings.NewReader("{"))
	assert.Error(t, err)
}

func TestStore_SearchUsers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.Import(ctx, strings.NewReader(snapshotJSON))
	require.NoError(t, err)

	res, err := s.SearchUsers(ctx, "t1", "c1", "AL")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, usernames(res.InChannel))
	// alfred is deactivated.
	assert.Equal(t, []string{"albert"}, usernames(res.OutOfChannel))

	res, err = s.SearchUsers(ctx, "t1", "c1", "ddell")
	require.NoError(t, err)
	assert.Zero(t, res.Len(), "prefix match only")

	res, err = s.SearchUsers(ctx, "t1", "c1", "Liddell")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, usernames(res.InChannel))
}

func TestStore_SearchUsers_TeamScoped(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.Import(ctx, strings.NewReader(snapshotJSON))
	require.NoError(t, err)
	require.NoError(t, s.PutTeamMembers(ctx, "t1", []string{"u2"}))

	res, err := s.SearchUsers(ctx, "t1", "", "al")
	require.NoError(t, err)
	assert.Equal(t, []string{"albert"}, usernames(res.OutOfChannel))
	assert.Empty(t, res.InChannel)
}

func TestStore_SearchUsers_EscapesWildcards(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.PutUsers(ctx, []model.User{
		{ID: "a", Username: "a_b"},
		{ID: "b", Username: "axb"},
	}))

	res, err := s.SearchUsers(ctx, "", "", "a_")
	require.NoError(t, err)
	assert.Equal(t, []string{"a_b"}, usernames(res.OutOfChannel))
}

func TestStore_SearchChannels(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.Import(ctx, strings.NewReader(snapshotJSON))
	require.NoError(t, err)

	chans, err := s.SearchChannels(ctx, "t1", "town")
	require.NoError(t, err)
	require.Len(t, chans, 1)
	assert.Equal(t, "town-square", chans[0].Name)
	assert.Equal(t, model.ChannelOpen, chans[0].Type)

	chans, err = s.SearchChannels(ctx, "t1", "topic")
	require.NoError(t, err)
	require.Len(t, chans, 1)
	assert.Equal(t, "off-topic", chans[0].Name)
}

func TestStore_SearchEmoji(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.PutEmoji(ctx, []string{"partyparrot", "shipit", "party_blob"}))

	names, err := s.SearchEmoji(ctx, "party")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"party_blob", "partyparrot"}, names); diff != "" {
		t.Errorf("SearchEmoji mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Closed(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.SearchEmoji(context.Background(), "x")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.PutEmoji(context.Background(), []string{"x"}), ErrClosed)
}

func TestCached_WritesThrough(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	remote := &fakeDirectory{
		users: UserResults{
			InChannel:    []model.User{{ID: "u1", Username: "alice"}},
			OutOfChannel: []model.User{{ID: "u2", Username: "albert"}},
		},
	}
	c := NewCached(remote, s, nil)

	res, err := c.SearchUsers(ctx, "t1", "c1", "al")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Len())

	cached, err := s.SearchUsers(ctx, "t1", "c1", "al")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, usernames(cached.InChannel))
	assert.Equal(t, []string{"albert"}, usernames(cached.OutOfChannel))
}

func TestCached_FallsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.Import(ctx, strings.NewReader(snapshotJSON))
	require.NoError(t, err)

	remote := &fakeDirectory{err: errors.New("connection refused")}
	c := NewCached(remote, s, nil)

	chans, err := c.SearchChannels(ctx, "t1", "town")
	require.NoError(t, err)
	require.Len(t, chans, 1)
	assert.Equal(t, "town-square", chans[0].Name)

	names, err := c.SearchEmoji(ctx, "ship")
	require.NoError(t, err)
	assert.Equal(t, []string{"shipit"}, names)

	_, err = c.SearchChannels(ctx, "t1", "nothing-like-this")
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestCached_CanceledContextSkipsCache(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	remote := &fakeDirectory{err: context.Canceled}
	c := NewCached(remote, s, nil)

	_, err := c.SearchEmoji(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCached_NilStorePassesThrough(t *testing.T) {
	ctx := context.Background()
	remote := &fakeDirectory{
		users:    UserResults{InChannel: []model.User{{ID: "u1", Username: "alice"}}},
		channels: []model.Channel{{ID: "c1", Name: "town-square"}},
		emoji:    []string{"parrot"},
	}
	c := NewCached(remote, nil, nil)

	res, err := c.SearchUsers(ctx, "t1", "c1", "al")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len())

	chans, err := c.SearchChannels(ctx, "t1", "town")
	require.NoError(t, err)
	assert.Len(t, chans, 1)

	names, err := c.SearchEmoji(ctx, "par")
	require.NoError(t, err)
	assert.Equal(t, []string{"parrot"}, names)

	remote.err = errors.New("connection refused")
	_, err = c.SearchEmoji(ctx, "par")
	assert.EqualError(t, err, "connection refused")
}

func TestLimited(t *testing.T) {
	remote := &fakeDirectory{emoji: []string{"smile"}}
	l := NewLimited(remote, rate.Limit(1), 1)

	names, err := l.SearchEmoji(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"smile"}, names)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.SearchEmoji(ctx, "s")
	assert.Error(t, err)
	assert.Equal(t, 1, remote.calls)
}

func TestEmojiIndex_Search(t *testing.T) {
	idx := NewEmojiIndex([]string{":partyparrot:", "smile"})

	assert.Equal(t, len(builtinEmoji)+1, idx.Len(), "duplicates and colons are normalised")

	got := idx.Search("smi")
	assert.Contains(t, got, "smile")
	assert.Contains(t, got, "smiley")
	assert.NotContains(t, got, "zzz")

	got = idx.Search("parrot")
	assert.Equal(t, []string{"partyparrot"}, got)

	all := idx.Search("")
	assert.Len(t, all, DefaultEmojiLimit)
	assert.Equal(t, "+1", all[0])
}

func TestWithEmoji_MergesCustom(t *testing.T) {
	remote := &fakeDirectory{emoji: []string{"shipit"}}
	d := WithEmoji(remote, NewEmojiIndex(nil))

	names, err := d.SearchEmoji(context.Background(), "shipit")
	require.NoError(t, err)
	assert.Contains(t, names, "shipit")

	// A failing remote still yields local matches.
	remote.err = errors.New("boom")
	remote.emoji = nil
	names, err = d.SearchEmoji(context.Background(), "thumbsup")
	require.NoError(t, err)
	assert.Contains(t, names, "thumbsup")
}
