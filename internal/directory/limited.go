// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/jeranaias/huddle-tui/internal/model"
)

// Limited throttles calls to an underlying Directory. Every keystroke can
// start a search, so this keeps a fast typist from flooding the server.
type Limited struct {
	next    Directory
	limiter *rate.Limiter
}

// NewLimited allows r searches per second with the given burst.
// A non-positive r disables limiting.
func NewLimited(next Directory, r rate.Limit, burst int) *Limited {
	if r <= 0 {
		r = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Limited{next: next, limiter: rate.NewLimiter(r, burst)}
}

// SearchUsers implements Directory.
func (l *Limited) SearchUsers(ctx context.Context, teamID, channelID, query string) (UserResults, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return UserResults{}, err
	}
	return l.next.SearchUsers(ctx, teamID, channelID, query)
}

// SearchChannels implements Directory.
func (l *Limited) SearchChannels(ctx context.Context, teamID, query string) ([]model.Channel, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.next.SearchChannels(ctx, teamID, query)
}

// SearchEmoji implements Directory.
func (l *Limited) SearchEmoji(ctx context.Context, query string) ([]string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.next.SearchEmoji(ctx, query)
}
