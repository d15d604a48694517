// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// Buffer is the text primitive the composer edits through. Columns count
// runes within the cursor line.
type Buffer interface {
	Value() string
	SetValue(s string)
	// Line returns the text of the line holding the cursor.
	Line() string
	// Column returns the cursor position within Line.
	Column() int
	// ReplaceWordBeforeCursor replaces the non-whitespace run ending at the
	// cursor with s and leaves the cursor after it.
	ReplaceWordBeforeCursor(s string)
}

// wordStart returns the start of the non-whitespace run ending at col.
func wordStart(line []rune, col int) int {
	start := col
	for start > 0 && !unicode.IsSpace(line[start-1]) {
		start--
	}
	return start
}

// =============================================================================
// TEXTAREA ADAPTER
// =============================================================================

// maxCursorSteps bounds cursor repositioning loops.
const maxCursorSteps = 10000

// TextArea adapts a bubbles textarea to Buffer.
type TextArea struct {
	Model textarea.Model
}

// NewTextArea returns a focused textarea with chat defaults.
func NewTextArea() *TextArea {
	ta := textarea.New()
	ta.Placeholder = "Type a message, / for commands"
	ta.ShowLineNumbers = false
	ta.Prompt = "> "
	ta.CharLimit = 0
	ta.SetHeight(1)
	// Enter submits; newlines are inserted by the composer in multiline mode.
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()
	return &TextArea{Model: ta}
}

// Update forwards a message to the textarea.
func (t *TextArea) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return cmd
}

// View renders the textarea.
func (t *TextArea) View() string { return t.Model.View() }

func (t *TextArea) Value() string { return t.Model.Value() }

func (t *TextArea) SetValue(s string) { t.Model.SetValue(s) }

func (t *TextArea) lines() []string {
	return strings.Split(t.Model.Value(), "\n")
}

func (t *TextArea) row() int {
	row := t.Model.Line()
	if n := len(t.lines()); row >= n {
		row = n - 1
	}
	return row
}

func (t *TextArea) Line() string {
	return t.lines()[t.row()]
}

func (t *TextArea) Column() int {
	info := t.Model.LineInfo()
	col := info.StartColumn + info.ColumnOffset
	if n := len([]rune(t.Line())); col > n {
		col = n
	}
	return col
}

// InsertNewline inserts a line break at the cursor.
func (t *TextArea) InsertNewline() {
	t.Model.InsertString("\n")
}

func (t *TextArea) ReplaceWordBeforeCursor(s string) {
	lines := t.lines()
	row := t.row()
	line := []rune(lines[row])
	col := min(t.Column(), len(line))
	start := wordStart(line, col)

	updated := string(line[:start]) + s + string(line[col:])
	lines[row] = updated
	t.Model.SetValue(strings.Join(lines, "\n"))
	t.moveTo(row, start+len([]rune(s)))
}

// moveTo places the cursor at (row, col). SetValue leaves the cursor at the
// end of the text, so walk back up to row.
func (t *TextArea) moveTo(row, col int) {
	for i := 0; i < maxCursorSteps && t.Model.Line() > row; i++ {
		t.Model.CursorUp()
	}
	t.Model.SetCursor(col)
}

// =============================================================================
// LINE BUFFER
// =============================================================================

// LineBuffer is a plain in-memory Buffer. It backs line mode, where the
// terminal line editor owns the screen.
type LineBuffer struct {
	text []rune
	pos  int
}

// NewLineBuffer returns a buffer holding s with the cursor at pos (in runes).
func NewLineBuffer(s string, pos int) *LineBuffer {
	b := &LineBuffer{text: []rune(s)}
	b.SetCursor(pos)
	return b
}

func (b *LineBuffer) Value() string { return string(b.text) }

func (b *LineBuffer) SetValue(s string) {
	b.text = []rune(s)
	b.pos = len(b.text)
}

// Cursor returns the cursor offset in runes from the start of the text.
func (b *LineBuffer) Cursor() int { return b.pos }

// SetCursor moves the cursor, clamped to the text.
func (b *LineBuffer) SetCursor(pos int) {
	b.pos = max(0, min(pos, len(b.text)))
}

func (b *LineBuffer) lineStart() int {
	i := b.pos
	for i > 0 && b.text[i-1] != '\n' {
		i--
	}
	return i
}

func (b *LineBuffer) Line() string {
	start := b.lineStart()
	end := b.pos
	for end < len(b.text) && b.text[end] != '\n' {
		end++
	}
	return string(b.text[start:end])
}

func (b *LineBuffer) Column() int { return b.pos - b.lineStart() }

func (b *LineBuffer) ReplaceWordBeforeCursor(s string) {
	start := wordStart(b.text, b.pos)
	rest := append([]rune(s), b.text[b.pos:]...)
	b.text = append(b.text[:start:start], rest...)
	b.pos = start + len([]rune(s))
}
