// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

// DefaultHistorySize is how many submitted inputs are remembered.
const DefaultHistorySize = 100

// History is an in-memory list of submitted inputs with a browse cursor.
type History struct {
	entries []string
	max     int
	// cursor indexes entries while browsing; len(entries) means "not browsing".
	cursor int
	draft  string
}

// NewHistory returns an empty history holding at most size entries.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{max: size}
}

// Add records an entry and stops browsing. Consecutive duplicates are
// collapsed.
func (h *History) Add(s string) {
	if s != "" && (len(h.entries) == 0 || h.entries[len(h.entries)-1] != s) {
		h.entries = append(h.entries, s)
		if len(h.entries) > h.max {
			h.entries = h.entries[len(h.entries)-h.max:]
		}
	}
	h.Reset()
}

// Reset stops browsing.
func (h *History) Reset() {
	h.cursor = len(h.entries)
	h.draft = ""
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Prev returns the entry before the cursor. current is saved as the draft
// when browsing starts.
func (h *History) Prev(current string) (string, bool) {
	if h.cursor == 0 || len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == len(h.entries) {
		h.draft = current
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Next returns the entry after the cursor, or the saved draft when moving
// past the newest entry.
func (h *History) Next() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.cursor], true
}
