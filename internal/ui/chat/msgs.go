// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/huddle-tui/internal/config"
	"github.com/jeranaias/huddle-tui/internal/model"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// ChannelsLoadedMsg carries the user's joined channels.
type ChannelsLoadedMsg struct {
	Channels []model.Channel
	Err      error
}

// PostsLoadedMsg carries a channel's recent posts.
type PostsLoadedMsg struct {
	ChannelID string
	Posts     []model.Post
	Err       error
}

// UsersLoadedMsg carries user records for message authors.
type UsersLoadedMsg struct {
	Users []model.User
	Err   error
}

// PostSavedMsg reports a created or edited post.
type PostSavedMsg struct {
	Post model.Post
	Err  error
}

// ChannelJoinedMsg reports a channel to add and focus.
type ChannelJoinedMsg struct {
	Channel model.Channel
	Err     error
}

// ChannelsLeftMsg reports channels that were left.
type ChannelsLeftMsg struct {
	ChannelIDs []string
	Err        error
}

// HeaderChangedMsg reports a new channel header.
type HeaderChangedMsg struct {
	ChannelID string
	Header    string
	Err       error
}

// MembersMsg carries a channel's member list.
type MembersMsg struct {
	ChannelID string
	Users     []model.User
	Err       error
}

// FlaggedMsg carries the user's flagged posts.
type FlaggedMsg struct {
	Posts []model.Post
	Err   error
}

// ConfigReloadedMsg is posted by the config watcher.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// InfoMsg is a transient notice for the status line.
type InfoMsg struct {
	Text string
}

// ErrorMsg is a failure shown on the status line.
type ErrorMsg struct {
	Err error
}
