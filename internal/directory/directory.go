// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory provides the user, channel and emoji lookups that back
// autocompletion.
//
// Directory is implemented by the remote API client and by the local SQLite
// Store. The wrappers in this package compose them:
//
//	dir := directory.NewLimited(
//	    directory.NewCached(apiClient, store, log),
//	    rate.Limit(5), 3)
//	dir = directory.WithEmoji(dir, directory.NewEmojiIndex(nil))
package directory

import (
	"context"
	"errors"

	"github.com/jeranaias/huddle-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotCached is returned by the Store when it holds nothing for a team.
	ErrNotCached = errors.New("directory not cached")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("directory closed")
)

// =============================================================================
// INTERFACE
// =============================================================================

// UserResults splits user matches by channel membership.
type UserResults struct {
	InChannel    []model.User
	OutOfChannel []model.User
}

// Len returns the total number of users.
func (r UserResults) Len() int {
	return len(r.InChannel) + len(r.OutOfChannel)
}

// Directory searches users, channels and emoji. Implementations may block on
// I/O and must honour ctx.
type Directory interface {
	SearchUsers(ctx context.Context, teamID, channelID, query string) (UserResults, error)
	SearchChannels(ctx context.Context, teamID, query string) ([]model.Channel, error)
	SearchEmoji(ctx context.Context, query string) ([]string, error)
}
