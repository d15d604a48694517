// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import "github.com/jeranaias/huddle-tui/internal/model"

// Mode is what a submit will do. Implementations are NewPost, Replying and
// Editing.
type Mode interface {
	// Prompt is the short status shown above the input.
	Prompt() string

	mode()
}

// NewPost posts a new message to the channel.
type NewPost struct{}

// Replying posts into the thread of Message.
type Replying struct {
	Message *model.Message
	Post    model.Post
}

// RootID returns the thread root to reply under.
func (r Replying) RootID() string {
	if r.Post.RootID != "" {
		return r.Post.RootID
	}
	return r.Post.ID
}

// Editing replaces the text of Post. Type records whether the original was
// an emote, whose formatting is restored on submit.
type Editing struct {
	Post model.Post
	Type model.MessageType
}

func (NewPost) Prompt() string { return "" }

func (r Replying) Prompt() string {
	if r.Message != nil && r.Message.Author != "" {
		return "Replying to @" + r.Message.Author
	}
	return "Replying"
}

func (Editing) Prompt() string { return "Editing message" }

func (NewPost) mode()  {}
func (Replying) mode() {}
func (Editing) mode()  {}
