// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// USER
// =============================================================================

// User is a directory entry for a chat account.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	// DeleteAt is non-zero for deactivated accounts (milliseconds since epoch).
	DeleteAt int64 `json:"delete_at,omitempty"`
}

// Active reports whether the account has not been deactivated.
func (u User) Active() bool {
	return u.DeleteAt == 0
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName returns the nickname, the full name or the username, in that order.
func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Username
}

// =============================================================================
// CHANNEL
// =============================================================================

// ChannelType mirrors the server's one-letter channel type codes.
type ChannelType string

const (
	ChannelOpen    ChannelType = "O"
	ChannelPrivate ChannelType = "P"
	ChannelDirect  ChannelType = "D"
	ChannelGroup   ChannelType = "G"
)

// Channel is a directory entry for a conversation.
type Channel struct {
	ID          string      `json:"id"`
	TeamID      string      `json:"team_id"`
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	Type        ChannelType `json:"type"`
	Header      string      `json:"header,omitempty"`
	Purpose     string      `json:"purpose,omitempty"`
}

// Title returns the display name, falling back to the URL name.
func (c Channel) Title() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}
