// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package autocomplete

import (
	"github.com/jeranaias/huddle-tui/internal/model"
)

// Alternative is one completion candidate. The set of implementations is
// closed; switch on the concrete type to render one.
type Alternative interface {
	// Label is the text shown in the candidate list.
	Label() string
	// Detail is secondary text shown beside the label, may be empty.
	Detail() string
	// Replacement is the text inserted in place of the token.
	Replacement() string

	alternative()
}

// UserCompletion is a user mention.
type UserCompletion struct {
	User         model.User
	OutOfChannel bool
}

func (u UserCompletion) Label() string { return UserSigil + u.User.Username }

func (u UserCompletion) Detail() string {
	d := u.User.FullName()
	if u.User.Nickname != "" {
		if d != "" {
			d += " "
		}
		d += "(" + u.User.Nickname + ")"
	}
	if u.OutOfChannel {
		if d != "" {
			d += " "
		}
		d += "[not in channel]"
	}
	return d
}

func (u UserCompletion) Replacement() string { return UserSigil + u.User.Username }

func (UserCompletion) alternative() {}

// ChannelCompletion is a channel reference.
type ChannelCompletion struct {
	Channel model.Channel
	Member  bool
}

func (c ChannelCompletion) Label() string { return ChannelSigil + c.Channel.Name }

func (c ChannelCompletion) Detail() string {
	if c.Channel.DisplayName == "" || c.Channel.DisplayName == c.Channel.Name {
		return ""
	}
	return c.Channel.DisplayName
}

func (c ChannelCompletion) Replacement() string { return ChannelSigil + c.Channel.Name }

func (ChannelCompletion) alternative() {}

// EmojiCompletion is an emoji short name.
type EmojiCompletion struct {
	Name string
}

func (e EmojiCompletion) Label() string       { return ":" + e.Name + ":" }
func (e EmojiCompletion) Detail() string      { return "" }
func (e EmojiCompletion) Replacement() string { return ":" + e.Name + ":" }

func (EmojiCompletion) alternative() {}

// SyntaxCompletion is a code fence language.
type SyntaxCompletion struct {
	Language string
}

func (s SyntaxCompletion) Label() string       { return s.Language }
func (s SyntaxCompletion) Detail() string      { return "" }
func (s SyntaxCompletion) Replacement() string { return FenceSigil + s.Language }

func (SyntaxCompletion) alternative() {}

// CommandCompletion is a slash command.
type CommandCompletion struct {
	Name        string
	Args        string
	Description string
}

func (c CommandCompletion) Label() string {
	if c.Args == "" {
		return CommandSigil + c.Name
	}
	return CommandSigil + c.Name + " " + c.Args
}

func (c CommandCompletion) Detail() string      { return c.Description }
func (c CommandCompletion) Replacement() string { return CommandSigil + c.Name }

func (CommandCompletion) alternative() {}

// MentionKind is a group mention.
type MentionKind int

const (
	MentionAll MentionKind = iota
	MentionChannel
	MentionHere
)

// Name returns the mention without its sigil.
func (k MentionKind) Name() string {
	switch k {
	case MentionChannel:
		return "channel"
	case MentionHere:
		return "here"
	default:
		return "all"
	}
}

// Description explains who gets notified.
func (k MentionKind) Description() string {
	switch k {
	case MentionChannel:
		return "Notifies everyone in this channel"
	case MentionHere:
		return "Notifies everyone online in this channel"
	default:
		return "Notifies every member of this channel"
	}
}

// SpecialMentions lists the group mentions in the order they are offered.
var SpecialMentions = []MentionKind{MentionAll, MentionChannel, MentionHere}

// SpecialMention is a group mention such as @all.
type SpecialMention struct {
	Kind MentionKind
}

func (s SpecialMention) Label() string       { return UserSigil + s.Kind.Name() }
func (s SpecialMention) Detail() string      { return s.Kind.Description() }
func (s SpecialMention) Replacement() string { return UserSigil + s.Kind.Name() }

func (SpecialMention) alternative() {}
