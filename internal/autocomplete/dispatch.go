// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package autocomplete

import "strings"

// Sigils that start a completable token.
const (
	UserSigil    = "@"
	ChannelSigil = "~"
	EmojiSigil   = ":"
	FenceSigil   = "```"
	CommandSigil = "/"
)

// Context describes how a completion check was triggered.
type Context struct {
	// Manual is set when the user explicitly asked for completion (Tab)
	// rather than by typing.
	Manual bool
	// FirstMatch applies the first candidate as soon as results arrive.
	FirstMatch bool
}

// merge combines two triggers for the same search, keeping the stronger of
// each flag.
func (c Context) merge(o Context) Context {
	return Context{Manual: c.Manual || o.Manual, FirstMatch: c.FirstMatch || o.FirstMatch}
}

// Kind identifies a resolver.
type Kind int

const (
	KindNone Kind = iota
	KindUser
	KindChannel
	KindEmoji
	KindSyntax
	KindCommand
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindChannel:
		return "channel"
	case KindEmoji:
		return "emoji"
	case KindSyntax:
		return "syntax"
	case KindCommand:
		return "command"
	default:
		return "none"
	}
}

// Label returns the list heading shown above candidates of this kind.
func (k Kind) Label() string {
	switch k {
	case KindUser:
		return "Users"
	case KindChannel:
		return "Channels"
	case KindEmoji:
		return "Emoji"
	case KindSyntax:
		return "Languages"
	case KindCommand:
		return "Commands"
	default:
		return ""
	}
}

// Classify picks the resolver for tok and extracts its search string.
// Rules are tried in order and the first match wins. Emoji only complete on a
// manual trigger, and commands only at the start of a line.
func Classify(ctx Context, tok Token) (Kind, string, bool) {
	text := tok.Text
	switch {
	case strings.HasPrefix(text, UserSigil):
		return KindUser, strings.TrimPrefix(text, UserSigil), true
	case strings.HasPrefix(text, ChannelSigil):
		return KindChannel, strings.TrimPrefix(text, ChannelSigil), true
	case strings.HasPrefix(text, EmojiSigil) && ctx.Manual:
		return KindEmoji, strings.TrimPrefix(text, EmojiSigil), true
	case strings.HasPrefix(text, FenceSigil):
		return KindSyntax, strings.TrimPrefix(text, FenceSigil), true
	case strings.HasPrefix(text, CommandSigil) && tok.Col == 0:
		return KindCommand, strings.TrimPrefix(text, CommandSigil), true
	}
	return KindNone, "", false
}
