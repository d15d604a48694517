// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package client talks to the chat server's v4 REST API.
//
// Only the calls the client needs are implemented: login (with optional
// TOTP second factor), directory autocomplete for users, channels and
// emoji, channel membership, post history, posting, editing, deleting and
// flagging.
//
// # Key Types
//
//   - Client: authenticated API client, safe for concurrent use
//   - APIError: non-2xx response, matched with errors.Is against
//     ErrUnauthorized, ErrNotFound, ErrRateLimited
//
// # Usage
//
//	c := client.New(cfg.Server.URL, client.WithTimeout(cfg.Server.Timeout()))
//	me, err := c.Login(ctx, user, password, mfaSecret)
//	res, err := c.SearchUsers(ctx, teamID, channelID, "bo")
package client
