// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package autocomplete

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Engine owns the completion session of one editor. It is not safe for
// concurrent use; call it only from the program's Update.
type Engine struct {
	resolvers  map[Kind]Resolver
	state      *State
	pending    *pending
	maxResults int
	height     int
	// emojiManualOnly keeps ":" tokens behind a manual trigger.
	emojiManualOnly bool
	log             *zap.Logger

	// resolved counts resolver invocations, for tests and debug logging.
	resolved int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxResults caps how many candidates a list shows. Zero means no cap.
func WithMaxResults(n int) EngineOption {
	return func(e *Engine) { e.maxResults = n }
}

// WithListHeight sets the visible rows of new lists.
func WithListHeight(h int) EngineOption {
	return func(e *Engine) { e.height = h }
}

// WithEmojiManualOnly controls whether emoji complete while typing.
func WithEmojiManualOnly(on bool) EngineOption {
	return func(e *Engine) { e.emojiManualOnly = on }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) EngineOption {
	return func(e *Engine) { e.log = orNop(log) }
}

// NewEngine returns an engine dispatching to resolvers by kind.
func NewEngine(resolvers []Resolver, opts ...EngineOption) *Engine {
	e := &Engine{
		resolvers:       make(map[Kind]Resolver, len(resolvers)),
		height:          DefaultListHeight,
		emojiManualOnly: true,
		log:             zap.NewNop(),
	}
	for _, r := range resolvers {
		e.resolvers[r.Kind()] = r
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetLimits changes the result cap and list height for new lists.
func (e *Engine) SetLimits(maxResults, height int) {
	e.maxResults = maxResults
	if height > 0 {
		e.height = height
	}
}

// SetEmojiManualOnly changes whether emoji complete while typing.
func (e *Engine) SetEmojiManualOnly(on bool) {
	e.emojiManualOnly = on
}

// State returns the active session, or nil.
func (e *Engine) State() *State { return e.state }

// Active reports whether a session with candidates is showing.
func (e *Engine) Active() bool {
	return e.state != nil && e.state.List != nil && e.state.List.Len() > 0
}

// Pending returns the most recently issued search.
func (e *Engine) Pending() (Kind, string, bool) {
	if e.pending == nil {
		return KindNone, "", false
	}
	return e.pending.kind, e.pending.search, true
}

// Resolved returns how many times a resolver has been invoked.
func (e *Engine) Resolved() int { return e.resolved }

// Clear ends the session and forgets the pending search, so late results
// are dropped.
func (e *Engine) Clear() {
	e.state = nil
	e.pending = nil
}

// Check inspects the token under the cursor and starts or updates the
// session. Cached and table-backed results are applied before Check returns;
// remote lookups are returned as a command. The returned bool reports
// whether results were applied synchronously, so the caller can honour
// ctx.FirstMatch.
func (e *Engine) Check(ctx Context, col int, line string) (tea.Cmd, bool) {
	tok, ok := Scan(col, line)
	if !ok {
		e.Clear()
		return nil, false
	}
	classify := ctx
	if !e.emojiManualOnly {
		classify.Manual = true
	}
	kind, search, ok := Classify(classify, tok)
	if !ok {
		e.Clear()
		return nil, false
	}
	r, ok := e.resolvers[kind]
	if !ok {
		e.Clear()
		return nil, false
	}

	if e.state != nil && e.state.Kind != kind {
		e.Clear()
	}
	if e.state != nil && e.state.PreviousSearch == search {
		return nil, false
	}
	if e.pending != nil && e.pending.kind == kind && e.pending.search == search && e.state == nil {
		// Already in flight; the results pick up this trigger.
		e.pending.ctx = e.pending.ctx.merge(ctx)
		return nil, false
	}

	e.pending = &pending{kind: kind, search: search, ctx: ctx}

	if alts, hit := e.state.Cached(search); hit {
		e.log.Debug("completion cache hit", zap.Stringer("kind", kind), zap.String("search", search))
		return nil, e.SetAlternatives(ctx, kind, search, alts, e.state.Label)
	}

	e.resolved++
	if l, ok := r.(Lookup); ok {
		return nil, e.SetAlternatives(ctx, kind, search, l.Lookup(search), kind.Label())
	}
	e.log.Debug("completion query", zap.Stringer("kind", kind), zap.String("search", search))
	return r.Resolve(ctx, search), false
}

// Apply installs a ResultsMsg. It reports whether the results were current.
func (e *Engine) Apply(msg ResultsMsg) bool {
	_, ok := e.ApplyResults(msg)
	return ok
}

// ApplyResults installs a ResultsMsg and returns the context the results
// should be handled with: the message's own context merged with any
// trigger that arrived while the search was in flight.
func (e *Engine) ApplyResults(msg ResultsMsg) (Context, bool) {
	ctx := msg.Context
	if p := e.pending; p != nil && p.kind == msg.Kind && p.search == msg.Search {
		ctx = ctx.merge(p.ctx)
	}
	return ctx, e.SetAlternatives(ctx, msg.Kind, msg.Search, msg.Alternatives, msg.Label)
}

// SetAlternatives installs results for search if it is still the pending
// search, merging them into the session cache and resetting the list
// scroll. Stale results are discarded and false is returned.
func (e *Engine) SetAlternatives(ctx Context, kind Kind, search string, alts []Alternative, label string) bool {
	if e.pending == nil || e.pending.kind != kind || e.pending.search != search {
		e.log.Debug("discarding stale completion results",
			zap.Stringer("kind", kind),
			zap.String("search", search))
		return false
	}

	visible := alts
	if e.maxResults > 0 && len(visible) > e.maxResults {
		visible = visible[:e.maxResults]
	}
	list := NewList(visible)
	list.SetHeight(e.height)

	if e.state == nil {
		e.state = &State{Kind: kind, Cache: make(map[string][]Alternative)}
	}
	e.state.Cache[search] = alts
	e.state.PreviousSearch = search
	e.state.List = list
	e.state.Label = label
	e.state.List.ResetScroll()
	return true
}

// Next selects the next candidate and returns it.
func (e *Engine) Next() (Alternative, bool) {
	if !e.Active() {
		return nil, false
	}
	e.state.List.Next()
	return e.state.List.Selected()
}

// Prev selects the previous candidate and returns it.
func (e *Engine) Prev() (Alternative, bool) {
	if !e.Active() {
		return nil, false
	}
	e.state.List.Prev()
	return e.state.List.Selected()
}
