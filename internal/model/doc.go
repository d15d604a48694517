// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the chat domain types shared by the editor,
// the completion engine and the selection state machine.
//
// # Key Types
//
//   - User, Channel: directory entities returned by the server
//   - Post: the server-side record a displayed message is backed by
//   - Message: a displayed entry in a channel, optionally backed by a Post
//   - Messages: the ordered message collection of one channel
//
// # Usage
//
//	msgs := model.NewMessages()
//	msgs.Add(model.NewPostMessage(post, "bob"))
//	latest := msgs.Latest((*model.Message).IsSelectable)
package model
