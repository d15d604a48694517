// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/huddle-tui/internal/model"
)

// Cached queries a remote Directory first and falls back to a Store when the
// remote call fails. Successful remote results are written through to the
// store.
type Cached struct {
	remote Directory
	store  *Store
	log    *zap.Logger
}

// NewCached wraps remote with store. A nil store passes calls straight
// through; a nil logger disables logging.
func NewCached(remote Directory, store *Store, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{remote: remote, store: store, log: log}
}

// SearchUsers implements Directory.
func (c *Cached) SearchUsers(ctx context.Context, teamID, channelID, query string) (UserResults, error) {
	res, err := c.remote.SearchUsers(ctx, teamID, channelID, query)
	if err == nil {
		c.writeUsers(ctx, teamID, channelID, res)
		return res, nil
	}
	if !c.fallback(ctx, "users", query, err) {
		return UserResults{}, err
	}

	cached, serr := c.store.SearchUsers(ctx, teamID, channelID, query)
	if serr != nil {
		return UserResults{}, fmt.Errorf("%w (cache: %v)", err, serr)
	}
	if cached.Len() == 0 {
		return UserResults{}, fmt.Errorf("%w: %v", ErrNotCached, err)
	}
	return cached, nil
}

// SearchChannels implements Directory.
func (c *Cached) SearchChannels(ctx context.Context, teamID, query string) ([]model.Channel, error) {
	chans, err := c.remote.SearchChannels(ctx, teamID, query)
	if err == nil {
		if c.store != nil {
			if werr := c.store.PutChannels(ctx, chans); werr != nil {
				c.log.Debug("channel write-through failed", zap.Error(werr))
			}
		}
		return chans, nil
	}
	if !c.fallback(ctx, "channels", query, err) {
		return nil, err
	}

	cached, serr := c.store.SearchChannels(ctx, teamID, query)
	if serr != nil {
		return nil, fmt.Errorf("%w (cache: %v)", err, serr)
	}
	if len(cached) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNotCached, err)
	}
	return cached, nil
}

// SearchEmoji implements Directory.
func (c *Cached) SearchEmoji(ctx context.Context, query string) ([]string, error) {
	names, err := c.remote.SearchEmoji(ctx, query)
	if err == nil {
		if c.store != nil {
			if werr := c.store.PutEmoji(ctx, names); werr != nil {
				c.log.Debug("emoji write-through failed", zap.Error(werr))
			}
		}
		return names, nil
	}
	if !c.fallback(ctx, "emoji", query, err) {
		return nil, err
	}

	cached, serr := c.store.SearchEmoji(ctx, query)
	if serr != nil {
		return nil, fmt.Errorf("%w (cache: %v)", err, serr)
	}
	if len(cached) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNotCached, err)
	}
	return cached, nil
}

// fallback reports whether a remote failure should be answered from the
// store. Cancellation is passed through.
func (c *Cached) fallback(ctx context.Context, what, query string, err error) bool {
	if c.store == nil || ctx.Err() != nil ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	c.log.Debug("remote directory failed, using cache",
		zap.String("kind", what),
		zap.String("query", query),
		zap.Error(err))
	return true
}

func (c *Cached) writeUsers(ctx context.Context, teamID, channelID string, res UserResults) {
	if c.store == nil || res.Len() == 0 {
		return
	}
	all := make([]model.User, 0, res.Len())
	all = append(all, res.InChannel...)
	all = append(all, res.OutOfChannel...)

	ids := make([]string, 0, len(all))
	for _, u := range all {
		ids = append(ids, u.ID)
	}
	members := make([]string, 0, len(res.InChannel))
	for _, u := range res.InChannel {
		members = append(members, u.ID)
	}

	err := c.store.PutUsers(ctx, all)
	if err == nil && teamID != "" {
		err = c.store.PutTeamMembers(ctx, teamID, ids)
	}
	if err == nil && channelID != "" {
		err = c.store.PutChannelMembers(ctx, channelID, members)
	}
	if err != nil {
		c.log.Debug("user write-through failed", zap.Error(err))
	}
}
