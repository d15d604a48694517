// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/huddle-tui/internal/autocomplete"
	"github.com/jeranaias/huddle-tui/internal/model"
)

// Direction is a completion cycling direction.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Submission is the result of submitting the buffer.
type Submission struct {
	Text string
	// PostID is set when editing.
	PostID string
	// RootID is set when replying.
	RootID string
	Mode   Mode
}

// IsCommand reports whether the text is a slash command.
func (s Submission) IsCommand() bool {
	return strings.HasPrefix(s.Text, "/") && !strings.HasPrefix(s.Text, "//")
}

// State is the composer. Only its methods mutate it.
type State struct {
	buf       Buffer
	engine    *autocomplete.Engine
	history   *History
	mode      Mode
	multiline bool
	log       *zap.Logger
}

// Option configures a State.
type Option func(*State)

// WithMultiline starts the composer in multiline mode.
func WithMultiline(on bool) Option {
	return func(s *State) { s.multiline = on }
}

// WithHistory sets the input history.
func WithHistory(h *History) Option {
	return func(s *State) { s.history = h }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *State) {
		if log != nil {
			s.log = log
		}
	}
}

// New returns a composer over buf. A nil engine disables completion.
func New(buf Buffer, engine *autocomplete.Engine, opts ...Option) *State {
	if engine == nil {
		engine = autocomplete.NewEngine(nil)
	}
	s := &State{
		buf:     buf,
		engine:  engine,
		history: NewHistory(DefaultHistorySize),
		mode:    NewPost{},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Buffer returns the text buffer.
func (s *State) Buffer() Buffer { return s.buf }

// Engine returns the autocomplete engine.
func (s *State) Engine() *autocomplete.Engine { return s.engine }

// Mode returns the compose mode.
func (s *State) Mode() Mode { return s.mode }

// Value returns the buffer text.
func (s *State) Value() string { return s.buf.Value() }

// Clear empties the buffer and ends completion.
func (s *State) Clear() {
	s.buf.SetValue("")
	s.engine.Clear()
}

// Multiline reports whether Enter inserts a newline rather than submitting.
func (s *State) Multiline() bool { return s.multiline }

// ToggleMultiline flips multiline mode and returns the new setting.
func (s *State) ToggleMultiline() bool {
	s.multiline = !s.multiline
	return s.multiline
}

// =============================================================================
// COMPOSE MODE
// =============================================================================

// BeginReply switches to replying to msg. It reports false and changes
// nothing when msg cannot be replied to.
func (s *State) BeginReply(msg *model.Message) bool {
	if msg == nil || !msg.IsReplyable() {
		return false
	}
	s.mode = Replying{Message: msg, Post: *msg.Post}
	s.engine.Clear()
	return true
}

// BeginEdit loads msg into the buffer for editing. Emote formatting is
// stripped and put back by Submit.
func (s *State) BeginEdit(msg *model.Message) bool {
	if msg == nil || !msg.IsEditable() {
		return false
	}
	s.mode = Editing{Post: *msg.Post, Type: msg.Type}

	text := msg.Post.Message
	if msg.Type == model.MessageTypeEmote {
		text = model.StripEmote(text)
	}
	s.buf.SetValue(text)
	s.engine.Clear()
	return true
}

// CancelCompose returns from replying or editing to a new post, clearing the
// buffer. From NewPost it does nothing and reports false.
func (s *State) CancelCompose() bool {
	switch s.mode.(type) {
	case Replying, Editing:
		s.mode = NewPost{}
		s.Clear()
		return true
	default:
		return false
	}
}

// Submit consumes the buffer. It reports false for blank input. The mode
// returns to NewPost.
func (s *State) Submit() (Submission, bool) {
	text := strings.TrimRight(s.buf.Value(), " \t\n")
	if strings.TrimSpace(text) == "" {
		return Submission{}, false
	}

	sub := Submission{Text: text, Mode: s.mode}
	switch m := s.mode.(type) {
	case Replying:
		sub.RootID = m.RootID()
	case Editing:
		sub.PostID = m.Post.ID
		if m.Type == model.MessageTypeEmote {
			sub.Text = model.AddEmote(text)
		}
	case NewPost:
	}

	s.log.Debug("submit",
		zap.Int("length", len(sub.Text)),
		zap.String("post", sub.PostID),
		zap.String("root", sub.RootID))

	s.history.Add(text)
	s.mode = NewPost{}
	s.Clear()
	return sub, true
}

// =============================================================================
// HISTORY
// =============================================================================

// HistoryPrev replaces the buffer with the previous history entry.
func (s *State) HistoryPrev() bool {
	entry, ok := s.history.Prev(s.buf.Value())
	if ok {
		s.buf.SetValue(entry)
		s.engine.Clear()
	}
	return ok
}

// HistoryNext replaces the buffer with the next history entry.
func (s *State) HistoryNext() bool {
	entry, ok := s.history.Next()
	if ok {
		s.buf.SetValue(entry)
		s.engine.Clear()
	}
	return ok
}

// =============================================================================
// COMPLETION
// =============================================================================

// CheckCompletion looks for a completable token at the cursor. Remote
// lookups are returned as a command whose ResultsMsg goes to ApplyResults.
func (s *State) CheckCompletion(ctx autocomplete.Context) tea.Cmd {
	cmd, applied := s.engine.Check(ctx, s.buf.Column(), s.buf.Line())
	if applied && ctx.FirstMatch {
		s.Complete(Forward)
	}
	return cmd
}

// ApplyResults installs resolver results if they are still current.
func (s *State) ApplyResults(msg autocomplete.ResultsMsg) bool {
	ctx, ok := s.engine.ApplyResults(msg)
	if !ok {
		return false
	}
	if ctx.FirstMatch {
		s.Complete(Forward)
	}
	return true
}

// Complete moves the completion selection and writes the selected
// candidate into the buffer. A sole candidate is inserted with a trailing
// space and ends the session.
func (s *State) Complete(dir Direction) bool {
	if !s.engine.Active() {
		return false
	}

	var alt autocomplete.Alternative
	var ok bool
	if dir == Backward {
		alt, ok = s.engine.Prev()
	} else {
		alt, ok = s.engine.Next()
	}
	if !ok {
		return false
	}

	if s.engine.State().List.Len() == 1 {
		s.buf.ReplaceWordBeforeCursor(alt.Replacement() + " ")
		s.engine.Clear()
		return true
	}
	s.buf.ReplaceWordBeforeCursor(alt.Replacement())
	return true
}

// CancelCompletion ends the completion session.
func (s *State) CancelCompletion() bool {
	if s.engine.State() == nil {
		return false
	}
	s.engine.Clear()
	return true
}
