// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sort"

	"github.com/jeranaias/huddle-tui/internal/autocomplete"
	"github.com/jeranaias/huddle-tui/internal/model"
	"github.com/jeranaias/huddle-tui/internal/selection"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service is the chat server API the screen drives. *client.Client
// implements it.
type Service interface {
	selection.Backend

	MyChannels(ctx context.Context, teamID string) ([]model.Channel, error)
	ChannelByName(ctx context.Context, teamID, name string) (model.Channel, error)
	ChannelPosts(ctx context.Context, channelID string, perPage int) ([]model.Post, error)
	JoinChannel(ctx context.Context, channelID string) error
	LeaveChannel(ctx context.Context, channelID string) error
	ChannelMembers(ctx context.Context, channelID string) ([]model.User, error)
	AddChannelMember(ctx context.Context, channelID, userID string) error
	SetChannelHeader(ctx context.Context, channelID, header string) error
	DirectChannel(ctx context.Context, otherUserID string) (model.Channel, error)

	UsersByIDs(ctx context.Context, ids []string) ([]model.User, error)
	UserByUsername(ctx context.Context, username string) (model.User, error)

	CreatePost(ctx context.Context, p model.Post) (model.Post, error)
	EditPost(ctx context.Context, postID, message string) (model.Post, error)
	FlaggedPosts(ctx context.Context) ([]model.Post, error)
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the logged-in user's view of the server: joined channels,
// their messages, and known users. It is owned by the event loop.
type Session struct {
	User   model.User
	TeamID string

	channels map[string]model.Channel
	messages map[string]*model.Messages
	users    map[string]model.User
	current  string
}

// NewSession creates an empty session for user in team.
func NewSession(user model.User, teamID string) *Session {
	s := &Session{
		User:     user,
		TeamID:   teamID,
		channels: make(map[string]model.Channel),
		messages: make(map[string]*model.Messages),
		users:    make(map[string]model.User),
	}
	s.users[user.ID] = user
	return s
}

// Scope is the autocomplete scope for the focused channel.
func (s *Session) Scope() autocomplete.Scope {
	return autocomplete.Scope{TeamID: s.TeamID, ChannelID: s.current, UserID: s.User.ID}
}

// Joined returns a snapshot of joined channel IDs.
func (s *Session) Joined() map[string]bool {
	out := make(map[string]bool, len(s.channels))
	for id := range s.channels {
		out[id] = true
	}
	return out
}

// SetChannels replaces the joined channel list. Focus moves to the first
// channel by name if the focused one is gone.
func (s *Session) SetChannels(chs []model.Channel) {
	s.channels = make(map[string]model.Channel, len(chs))
	for _, ch := range chs {
		s.channels[ch.ID] = ch
	}
	if _, ok := s.channels[s.current]; !ok {
		s.current = ""
		if names := s.Channels(); len(names) > 0 {
			s.current = names[0].ID
		}
	}
}

// Channels returns joined channels sorted by name.
func (s *Session) Channels() []model.Channel {
	out := make([]model.Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddChannel records a joined channel.
func (s *Session) AddChannel(ch model.Channel) {
	s.channels[ch.ID] = ch
}

// RemoveChannel forgets a channel and its messages.
func (s *Session) RemoveChannel(id string) {
	delete(s.channels, id)
	delete(s.messages, id)
	if s.current == id {
		s.current = ""
		if chs := s.Channels(); len(chs) > 0 {
			s.current = chs[0].ID
		}
	}
}

// ChannelByName finds a joined channel.
func (s *Session) ChannelByName(name string) (model.Channel, bool) {
	for _, ch := range s.channels {
		if ch.Name == name {
			return ch, true
		}
	}
	return model.Channel{}, false
}

// Focus makes a joined channel current.
func (s *Session) Focus(id string) bool {
	if _, ok := s.channels[id]; !ok {
		return false
	}
	s.current = id
	return true
}

// Current returns the focused channel.
func (s *Session) Current() (model.Channel, bool) {
	ch, ok := s.channels[s.current]
	return ch, ok
}

// CurrentID returns the focused channel ID, "" when none.
func (s *Session) CurrentID() string {
	return s.current
}

// Messages returns the message list of a channel, creating it.
func (s *Session) Messages(channelID string) *model.Messages {
	ms, ok := s.messages[channelID]
	if !ok {
		ms = model.NewMessages()
		s.messages[channelID] = ms
	}
	return ms
}

// AddUsers records users for author names.
func (s *Session) AddUsers(users []model.User) {
	for _, u := range users {
		s.users[u.ID] = u
	}
}

// Author returns the display name for a user ID.
func (s *Session) Author(userID string) string {
	if u, ok := s.users[userID]; ok {
		return u.Username
	}
	return "unknown"
}

// UnknownAuthors lists post authors without a user record.
func (s *Session) UnknownAuthors(posts []model.Post) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range posts {
		if p.UserID == "" || seen[p.UserID] {
			continue
		}
		seen[p.UserID] = true
		if _, ok := s.users[p.UserID]; !ok {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

// AddPost adds or replaces a post in its channel and returns the message.
func (s *Session) AddPost(p model.Post) *model.Message {
	msg := model.NewPostMessage(p, s.Author(p.UserID))
	if prev, ok := s.Messages(p.ChannelID).Get(p.ID); ok {
		msg.Flagged = prev.Flagged
	}
	s.Messages(p.ChannelID).Add(msg)
	return msg
}

// Notice appends a client-side line to the focused channel.
func (s *Session) Notice(text string) {
	s.Messages(s.current).Add(model.NewClientMessage(text))
}
