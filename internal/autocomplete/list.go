// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package autocomplete

// DefaultListHeight is the number of rows the candidate popup shows.
const DefaultListHeight = 8

// List is the visible candidate list: items, a selection cursor and a
// scroll offset. A new list has no selection.
type List struct {
	items    []Alternative
	selected int
	offset   int
	height   int
}

// NewList returns a list over items with nothing selected.
func NewList(items []Alternative) *List {
	return &List{items: items, selected: -1, height: DefaultListHeight}
}

// Items returns all candidates.
func (l *List) Items() []Alternative { return l.items }

// Len returns the number of candidates.
func (l *List) Len() int { return len(l.items) }

// Index returns the selected index, or -1.
func (l *List) Index() int { return l.selected }

// Offset returns the first visible index.
func (l *List) Offset() int { return l.offset }

// Selected returns the selected candidate.
func (l *List) Selected() (Alternative, bool) {
	if l.selected < 0 || l.selected >= len(l.items) {
		return nil, false
	}
	return l.items[l.selected], true
}

// SetHeight sets the number of visible rows.
func (l *List) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	l.height = h
	l.ensureVisible()
}

// Next moves the selection forward, wrapping to the first item.
func (l *List) Next() {
	if len(l.items) == 0 {
		return
	}
	if l.selected < 0 || l.selected >= len(l.items)-1 {
		l.selected = 0
	} else {
		l.selected++
	}
	l.ensureVisible()
}

// Prev moves the selection backward, wrapping to the last item.
func (l *List) Prev() {
	if len(l.items) == 0 {
		return
	}
	if l.selected <= 0 {
		l.selected = len(l.items) - 1
	} else {
		l.selected--
	}
	l.ensureVisible()
}

// ResetScroll scrolls back to the top.
func (l *List) ResetScroll() {
	l.offset = 0
	l.ensureVisible()
}

// Visible returns the items in the scroll window and the selected index
// relative to it (-1 if the selection is outside or unset).
func (l *List) Visible() ([]Alternative, int) {
	end := min(l.offset+l.height, len(l.items))
	if l.offset >= end {
		return nil, -1
	}
	sel := l.selected - l.offset
	if l.selected < 0 || sel < 0 || sel >= end-l.offset {
		sel = -1
	}
	return l.items[l.offset:end], sel
}

func (l *List) ensureVisible() {
	if l.selected < 0 {
		return
	}
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+l.height {
		l.offset = l.selected - l.height + 1
	}
}
