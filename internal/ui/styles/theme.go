// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	HeaderDetail lipgloss.Style

	// ==========================================================================
	// MESSAGE LIST
	// ==========================================================================

	MessageTime     lipgloss.Style
	MessageAuthor   lipgloss.Style
	MessageText     lipgloss.Style
	MessageEmote    lipgloss.Style
	MessageSystem   lipgloss.Style
	MessageDeleted  lipgloss.Style
	MessageEdited   lipgloss.Style
	MessageFlag     lipgloss.Style
	MessageSelected lipgloss.Style
	MessageReply    lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	InputMode      lipgloss.Style

	// ==========================================================================
	// COMPLETION POPUP
	// ==========================================================================

	CompletionPopup    lipgloss.Style
	CompletionLabel    lipgloss.Style
	CompletionItem     lipgloss.Style
	CompletionSelected lipgloss.Style
	CompletionDetail   lipgloss.Style
	CompletionDim      lipgloss.Style

	// ==========================================================================
	// VIEWER AND CONFIRMATION
	// ==========================================================================

	Viewer        lipgloss.Style
	ViewerTitle   lipgloss.Style
	ConfirmDelete lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusError  lipgloss.Style
	StatusInfo   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// NewTheme creates a theme for the given mode. Any mode other than "dark" or
// "light" asks the terminal for its background.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// GlamourStyle returns the glamour standard style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return ModeDark
	}
	return ModeLight
}

// SetSize records the terminal dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderDetail = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Messages
	t.MessageTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.MessageAuthor = lipgloss.NewStyle().
		Bold(true)

	t.MessageText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.MessageEmote = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.MessageSystem = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.MessageDeleted = lipgloss.NewStyle().
		Foreground(TextMuted).
		Strikethrough(true)

	t.MessageEdited = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.MessageFlag = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.MessageSelected = lipgloss.NewStyle().
		Background(Purple).
		Foreground(TextInverse)

	t.MessageReply = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Overlay).
		PaddingLeft(1)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputMode = lipgloss.NewStyle().
		Foreground(Amber)

	// Completion popup
	t.CompletionPopup = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.CompletionLabel = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.CompletionItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.CompletionSelected = lipgloss.NewStyle().
		Background(Purple).
		Foreground(TextInverse).
		Bold(true)

	t.CompletionDetail = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.CompletionDim = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Viewer
	t.Viewer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.ViewerTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.ConfirmDelete = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose)

	t.StatusInfo = lipgloss.NewStyle().
		Foreground(Emerald)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
}
