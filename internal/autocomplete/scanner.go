// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package autocomplete

import "unicode"

// Token is a run of non-whitespace runes and the column it starts at.
type Token struct {
	Col  int
	Text string
}

// End returns the column just past the token.
func (t Token) End() int {
	return t.Col + len([]rune(t.Text))
}

// Scan returns the non-whitespace run of line touching cursor column col.
// Columns count runes and sit between characters, so a cursor directly after
// a word belongs to that word. A cursor surrounded by whitespace, or past
// the end of the line, has no token.
func Scan(col int, line string) (Token, bool) {
	if col < 0 {
		return Token{}, false
	}

	runes := []rune(line)
	start := 0
	for start < len(runes) {
		space := unicode.IsSpace(runes[start])
		end := start + 1
		for end < len(runes) && unicode.IsSpace(runes[end]) == space {
			end++
		}
		if col < start {
			break
		}
		if !space && col <= end {
			return Token{Col: start, Text: string(runes[start:end])}, true
		}
		start = end
	}
	return Token{}, false
}
