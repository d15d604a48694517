// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme_ExplicitModes(t *testing.T) {
	dark := NewTheme("dark")
	require.NotNil(t, dark)
	assert.True(t, dark.IsDark)
	assert.Equal(t, "dark", dark.GlamourStyle())

	light := NewTheme("LIGHT")
	assert.False(t, light.IsDark)
	assert.Equal(t, "light", light.GlamourStyle())
	assert.False(t, lipgloss.HasDarkBackground())
}

func TestTheme_StylesRender(t *testing.T) {
	theme := NewTheme("dark")

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"MessageText", theme.MessageText},
		{"MessageSelected", theme.MessageSelected},
		{"CompletionPopup", theme.CompletionPopup},
		{"CompletionSelected", theme.CompletionSelected},
		{"StatusBar", theme.StatusBar},
		{"Viewer", theme.Viewer},
	}
	for _, s := range styles {
		assert.Contains(t, s.style.Render("test"), "test", s.name)
	}
}

func TestTheme_SetSize(t *testing.T) {
	theme := NewTheme("light")
	theme.SetSize(120, 40)
	assert.Equal(t, 120, theme.Width)
	assert.Equal(t, 40, theme.Height)
}

// =============================================================================
// AUTHOR COLOR TESTS
// =============================================================================

func TestAuthorColor_Stable(t *testing.T) {
	assert.Equal(t, AuthorColor("u1"), AuthorColor("u1"))
	assert.Contains(t, authorColors, AuthorColor(""))

	seen := map[lipgloss.AdaptiveColor]bool{}
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		seen[AuthorColor(id)] = true
	}
	assert.Greater(t, len(seen), 1)
}
