// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/huddle-tui/internal/model"
	"github.com/jeranaias/huddle-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE VIEWER COMPONENT
// =============================================================================

// Viewer shows one message in full, rendered as markdown and scrollable.
type Viewer struct {
	viewport viewport.Model
	title    string
	width    int
	height   int
	theme    *styles.Theme
}

// NewViewer creates a new Viewer.
func NewViewer(theme *styles.Theme) *Viewer {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()
	return &Viewer{
		viewport: vp,
		width:    80,
		height:   20,
		theme:    theme,
	}
}

// SetSize updates the viewer dimensions, border included.
func (v *Viewer) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = maxInt(width-4, 10)
	v.viewport.Height = maxInt(height-3, 1)
}

// Show loads a message. Markdown that fails to render is shown verbatim.
func (v *Viewer) Show(m *model.Message) {
	v.title = m.Author
	if !m.Timestamp.IsZero() {
		v.title += "  " + m.Timestamp.Format("2006-01-02 15:04")
	}
	v.viewport.SetContent(v.render(m.Text))
	v.viewport.GotoTop()
}

// render converts markdown to styled terminal text.
func (v *Viewer) render(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(v.theme.GlamourStyle()),
		glamour.WithWordWrap(v.viewport.Width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// SetOffset scrolls to line n, clamped to the content.
func (v *Viewer) SetOffset(n int) int {
	v.viewport.SetYOffset(n)
	return v.viewport.YOffset
}

// Offset returns the current scroll line.
func (v *Viewer) Offset() int {
	return v.viewport.YOffset
}

// PageHeight is the number of content lines visible at once.
func (v *Viewer) PageHeight() int {
	return v.viewport.Height
}

// View renders the viewer.
func (v *Viewer) View() string {
	body := v.theme.ViewerTitle.Render(v.title) + "\n" + v.viewport.View()
	return v.theme.Viewer.
		Width(maxInt(v.width-2, 10)).
		Render(body)
}
