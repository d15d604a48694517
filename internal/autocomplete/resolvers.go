// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package autocomplete

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/lexers"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/jeranaias/huddle-tui/internal/commands"
	"github.com/jeranaias/huddle-tui/internal/directory"
	"github.com/jeranaias/huddle-tui/internal/model"
)

// DefaultQueryTimeout bounds a single remote directory query.
const DefaultQueryTimeout = 5 * time.Second

// =============================================================================
// RESOLVER CONTRACT
// =============================================================================

// ResultsMsg carries resolved alternatives back to the event loop.
type ResultsMsg struct {
	Context      Context
	Kind         Kind
	Search       string
	Alternatives []Alternative
	Label        string
}

// Resolver turns a search string into alternatives. Resolve never returns
// results directly; the returned command produces a ResultsMsg.
type Resolver interface {
	Kind() Kind
	Resolve(ctx Context, search string) tea.Cmd
}

// Lookup is implemented by resolvers backed by in-memory tables. The engine
// applies their results immediately instead of scheduling a command.
type Lookup interface {
	Lookup(search string) []Alternative
}

// Scope identifies who is completing where.
type Scope struct {
	TeamID    string
	ChannelID string
	UserID    string
}

// ScopeFunc returns the current scope. It is called on the event loop when a
// query is issued, never from the query goroutine.
type ScopeFunc func() Scope

// JoinedFunc returns the IDs of channels the current user belongs to. It is
// called on the event loop and the returned map is only read afterwards.
type JoinedFunc func() map[string]bool

// =============================================================================
// USER
// =============================================================================

// UserResolver completes @mentions from the directory.
type UserResolver struct {
	dir     directory.Directory
	scope   ScopeFunc
	timeout time.Duration
	log     *zap.Logger
}

// NewUserResolver returns a user resolver.
func NewUserResolver(dir directory.Directory, scope ScopeFunc, log *zap.Logger) *UserResolver {
	return &UserResolver{dir: dir, scope: scope, timeout: DefaultQueryTimeout, log: orNop(log)}
}

func (r *UserResolver) Kind() Kind { return KindUser }

func (r *UserResolver) Resolve(ctx Context, search string) tea.Cmd {
	scope := r.scope()
	return func() tea.Msg {
		qctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		res, err := r.dir.SearchUsers(qctx, scope.TeamID, scope.ChannelID, search)
		if err != nil {
			r.log.Debug("user search failed", zap.String("search", search), zap.Error(err))
			res = directory.UserResults{}
		}
		return ResultsMsg{
			Context:      ctx,
			Kind:         KindUser,
			Search:       search,
			Alternatives: userAlternatives(res, scope.UserID, search),
			Label:        KindUser.Label(),
		}
	}
}

// userAlternatives lists in-channel users, then out-of-channel users, then
// matching group mentions. The requesting user and deactivated accounts are
// left out.
func userAlternatives(res directory.UserResults, self, search string) []Alternative {
	keep := func(u model.User) bool { return u.ID != self && u.Active() }

	alts := make([]Alternative, 0, res.Len()+len(SpecialMentions))
	for _, u := range res.InChannel {
		if keep(u) {
			alts = append(alts, UserCompletion{User: u})
		}
	}
	for _, u := range res.OutOfChannel {
		if keep(u) {
			alts = append(alts, UserCompletion{User: u, OutOfChannel: true})
		}
	}

	fold := cases.Fold()
	q := fold.String(search)
	for _, k := range SpecialMentions {
		if strings.Contains(k.Name(), q) {
			alts = append(alts, SpecialMention{Kind: k})
		}
	}
	return alts
}

// =============================================================================
// CHANNEL
// =============================================================================

// ChannelResolver completes ~channel references from the directory.
type ChannelResolver struct {
	dir     directory.Directory
	scope   ScopeFunc
	joined  JoinedFunc
	timeout time.Duration
	log     *zap.Logger
}

// NewChannelResolver returns a channel resolver. A nil joined treats every
// channel as not joined.
func NewChannelResolver(dir directory.Directory, scope ScopeFunc, joined JoinedFunc, log *zap.Logger) *ChannelResolver {
	if joined == nil {
		joined = func() map[string]bool { return nil }
	}
	return &ChannelResolver{dir: dir, scope: scope, joined: joined, timeout: DefaultQueryTimeout, log: orNop(log)}
}

func (r *ChannelResolver) Kind() Kind { return KindChannel }

func (r *ChannelResolver) Resolve(ctx Context, search string) tea.Cmd {
	scope := r.scope()
	joined := r.joined()
	return func() tea.Msg {
		qctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		chans, err := r.dir.SearchChannels(qctx, scope.TeamID, search)
		if err != nil {
			r.log.Debug("channel search failed", zap.String("search", search), zap.Error(err))
			chans = nil
		}
		return ResultsMsg{
			Context:      ctx,
			Kind:         KindChannel,
			Search:       search,
			Alternatives: channelAlternatives(chans, joined),
			Label:        KindChannel.Label(),
		}
	}
}

// channelAlternatives keeps the remote order but groups joined channels
// before the rest.
func channelAlternatives(chans []model.Channel, joined map[string]bool) []Alternative {
	var members, other []Alternative
	for _, ch := range chans {
		if ch.Type == model.ChannelDirect || ch.Type == model.ChannelGroup {
			continue
		}
		if joined[ch.ID] {
			members = append(members, ChannelCompletion{Channel: ch, Member: true})
		} else {
			other = append(other, ChannelCompletion{Channel: ch})
		}
	}
	return append(members, other...)
}

// =============================================================================
// EMOJI
// =============================================================================

// EmojiResolver completes :emoji: names.
type EmojiResolver struct {
	dir     directory.Directory
	timeout time.Duration
	log     *zap.Logger
}

// NewEmojiResolver returns an emoji resolver.
func NewEmojiResolver(dir directory.Directory, log *zap.Logger) *EmojiResolver {
	return &EmojiResolver{dir: dir, timeout: DefaultQueryTimeout, log: orNop(log)}
}

func (r *EmojiResolver) Kind() Kind { return KindEmoji }

func (r *EmojiResolver) Resolve(ctx Context, search string) tea.Cmd {
	return func() tea.Msg {
		qctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		names, err := r.dir.SearchEmoji(qctx, search)
		if err != nil {
			r.log.Debug("emoji search failed", zap.String("search", search), zap.Error(err))
			names = nil
		}
		alts := make([]Alternative, 0, len(names))
		for _, n := range names {
			alts = append(alts, EmojiCompletion{Name: n})
		}
		return ResultsMsg{
			Context:      ctx,
			Kind:         KindEmoji,
			Search:       search,
			Alternatives: alts,
			Label:        KindEmoji.Label(),
		}
	}
}

// =============================================================================
// SYNTAX
// =============================================================================

// SyntaxResolver completes code fence languages from a fixed table.
type SyntaxResolver struct {
	names []string
}

// NewSyntaxResolver returns a resolver over names. Names are lower-cased,
// de-duplicated, and names containing whitespace are dropped since a fence
// tag cannot hold them.
func NewSyntaxResolver(names []string) *SyntaxResolver {
	seen := make(map[string]struct{}, len(names))
	clean := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || strings.ContainsAny(n, " \t") {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		clean = append(clean, n)
	}
	sort.Strings(clean)
	return &SyntaxResolver{names: clean}
}

// DefaultSyntaxNames returns the languages and aliases known to the chroma
// lexer registry.
func DefaultSyntaxNames() []string {
	return lexers.Names(true)
}

func (r *SyntaxResolver) Kind() Kind { return KindSyntax }

// Lookup matches names containing search, prefix matches first.
func (r *SyntaxResolver) Lookup(search string) []Alternative {
	fold := cases.Fold()
	q := fold.String(search)

	var prefix, interior []Alternative
	for _, n := range r.names {
		name := fold.String(n)
		switch {
		case strings.HasPrefix(name, q):
			prefix = append(prefix, SyntaxCompletion{Language: n})
		case strings.Contains(name, q):
			interior = append(interior, SyntaxCompletion{Language: n})
		}
	}
	return append(prefix, interior...)
}

func (r *SyntaxResolver) Resolve(ctx Context, search string) tea.Cmd {
	alts := r.Lookup(search)
	return func() tea.Msg {
		return ResultsMsg{Context: ctx, Kind: KindSyntax, Search: search, Alternatives: alts, Label: KindSyntax.Label()}
	}
}

// =============================================================================
// COMMAND
// =============================================================================

// CommandSource searches registered commands.
type CommandSource interface {
	Search(query string) []*commands.Command
}

// CommandResolver completes /commands from the registry.
type CommandResolver struct {
	source CommandSource
}

// NewCommandResolver returns a command resolver.
func NewCommandResolver(source CommandSource) *CommandResolver {
	return &CommandResolver{source: source}
}

func (r *CommandResolver) Kind() Kind { return KindCommand }

// Lookup returns commands whose name or description contains search.
func (r *CommandResolver) Lookup(search string) []Alternative {
	cmds := r.source.Search(search)
	alts := make([]Alternative, 0, len(cmds))
	for _, c := range cmds {
		alts = append(alts, CommandCompletion{Name: c.Name, Args: c.ArgSpec(), Description: c.Description})
	}
	return alts
}

func (r *CommandResolver) Resolve(ctx Context, search string) tea.Cmd {
	alts := r.Lookup(search)
	return func() tea.Msg {
		return ResultsMsg{Context: ctx, Kind: KindCommand, Search: search, Alternatives: alts, Label: KindCommand.Label()}
	}
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
