// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// POST
// =============================================================================

// Post is the server-side record backing a user message.
type Post struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
	RootID    string `json:"root_id,omitempty"`
	Message   string `json:"message"`
	// Type is empty for regular posts and "me" for emotes.
	Type     string `json:"type,omitempty"`
	CreateAt int64  `json:"create_at"`
	EditAt   int64  `json:"edit_at,omitempty"`
	DeleteAt int64  `json:"delete_at,omitempty"`
}

// PostTypeEmote marks a /me post.
const PostTypeEmote = "me"

// Created returns the creation time.
func (p Post) Created() time.Time {
	return time.UnixMilli(p.CreateAt)
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// MessageType classifies a displayed message.
type MessageType int

const (
	// MessageTypePost is an ordinary user post.
	MessageTypePost MessageType = iota
	// MessageTypeEmote is a /me post, shown as "* bob waves".
	MessageTypeEmote
	// MessageTypeSystem is server-generated (joins, header changes).
	MessageTypeSystem
	// MessageTypeClient is an informational line produced locally.
	MessageTypeClient
)

// String returns the string representation of the type.
func (t MessageType) String() string {
	switch t {
	case MessageTypePost:
		return "post"
	case MessageTypeEmote:
		return "emote"
	case MessageTypeSystem:
		return "system"
	case MessageTypeClient:
		return "client"
	default:
		return "unknown"
	}
}

// IsUserPost reports whether the type is authored by a person.
func (t MessageType) IsUserPost() bool {
	return t == MessageTypePost || t == MessageTypeEmote
}

// =============================================================================
// MESSAGE
// =============================================================================

// Message is one displayed entry of a channel.
type Message struct {
	ID        string
	Type      MessageType
	UserID    string
	Author    string
	Text      string
	Timestamp time.Time

	// Post is the backing server record, nil for client-side messages.
	Post *Post

	Deleted bool
	Flagged bool
}

// NewPostMessage wraps a server post. System posts (type starting with
// "system_") become MessageTypeSystem.
func NewPostMessage(p Post, author string) *Message {
	msgType := MessageTypePost
	text := p.Message
	switch {
	case p.Type == PostTypeEmote:
		msgType = MessageTypeEmote
	case strings.HasPrefix(p.Type, "system_"):
		msgType = MessageTypeSystem
	}

	post := p
	return &Message{
		ID:        p.ID,
		Type:      msgType,
		UserID:    p.UserID,
		Author:    author,
		Text:      text,
		Timestamp: p.Created(),
		Post:      &post,
		Deleted:   p.DeleteAt != 0,
	}
}

// NewClientMessage creates a local informational message with a fresh ID.
func NewClientMessage(text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Type:      MessageTypeClient,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// PostID returns the backing post ID, or "" if there is none.
func (m *Message) PostID() string {
	if m.Post == nil {
		return ""
	}
	return m.Post.ID
}

// =============================================================================
// ACTION PREDICATES
// =============================================================================

// IsSelectable reports whether the message can be targeted in selection mode.
func (m *Message) IsSelectable() bool {
	return m.Type.IsUserPost() && m.Post != nil && !m.Deleted
}

// IsFlaggable reports whether the message can be flagged.
func (m *Message) IsFlaggable() bool {
	return m.Type.IsUserPost() && m.PostID() != ""
}

// IsReplyable reports whether a reply can be threaded under the message.
func (m *Message) IsReplyable() bool {
	return m.Type.IsUserPost() && m.Post != nil && !m.Deleted
}

// IsEditable reports whether the message body can be edited.
func (m *Message) IsEditable() bool {
	return m.Type.IsUserPost() && m.Post != nil && !m.Deleted
}

// IsDeletable reports whether the message can be deleted.
func (m *Message) IsDeletable() bool {
	return m.Type.IsUserPost() && m.Post != nil && !m.Deleted
}

// IsOwnedBy reports whether userID authored the message.
func (m *Message) IsOwnedBy(userID string) bool {
	return userID != "" && m.UserID == userID
}

// =============================================================================
// CONTENT HELPERS
// =============================================================================

var urlPattern = regexp.MustCompile(`https?://[^\s<>()\[\]]+`)

// URLs returns the links in the message in order of appearance.
func (m *Message) URLs() []string {
	found := urlPattern.FindAllString(m.Text, -1)
	for i, u := range found {
		found[i] = strings.TrimRight(u, ".,;:!?'\"")
	}
	return found
}

// StripEmote removes the "*...*" wrapping emote posts are stored with.
func StripEmote(text string) string {
	if len(text) >= 2 && strings.HasPrefix(text, "*") && strings.HasSuffix(text, "*") {
		return text[1 : len(text)-1]
	}
	return text
}

// AddEmote wraps text the way emote posts are stored.
func AddEmote(text string) string {
	return "*" + text + "*"
}
