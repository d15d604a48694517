// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/huddle-tui/internal/selection"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat screen. Which bindings
// are live depends on the selection phase.
type KeyMap struct {
	// Composing
	Submit       key.Binding
	Newline      key.Binding
	Complete     key.Binding
	CompletePrev key.Binding
	Cancel       key.Binding
	HistoryPrev  key.Binding
	HistoryNext  key.Binding
	Select       key.Binding
	Multiline    key.Binding

	// Selecting
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Flag     key.Binding
	Reply    key.Binding
	Edit     key.Binding
	Delete   key.Binding
	View     key.Binding
	Copy     key.Binding
	OpenURL  key.Binding
	Exit     key.Binding

	// Confirm delete
	Confirm key.Binding
	Deny    key.Binding

	// Global
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings. With vim set, j and k
// also move in selection and viewing.
func DefaultKeyMap(vim bool) KeyMap {
	up := []string{"up"}
	down := []string{"down"}
	upHelp, downHelp := "up", "down"
	if vim {
		up = append(up, "k")
		down = append(down, "j")
		upHelp, downHelp = "up/k", "down/j"
	}

	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter"),
			key.WithHelp("M-Enter", "newline / send in multi-line"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "complete"),
		),
		CompletePrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "previous completion"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		HistoryPrev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "previous input"),
		),
		HistoryNext: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "next input"),
		),
		Select: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "select messages"),
		),
		Multiline: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "multi-line mode"),
		),
		Up: key.NewBinding(
			key.WithKeys(up...),
			key.WithHelp(upHelp, "older"),
		),
		Down: key.NewBinding(
			key.WithKeys(down...),
			key.WithHelp(downHelp, "newer"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page older"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page newer"),
		),
		Flag: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "flag"),
		),
		Reply: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reply"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		View: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "view"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		OpenURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open link"),
		),
		Exit: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("Esc/q", "back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "delete"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/Esc", "keep"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// =============================================================================
// CONTEXT HELP
// =============================================================================

// phaseKeys is the help.KeyMap for one selection phase.
type phaseKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (p phaseKeys) ShortHelp() []key.Binding  { return p.short }
func (p phaseKeys) FullHelp() [][]key.Binding { return p.full }

// ForPhase returns the bindings live in phase.
func (k KeyMap) ForPhase(phase selection.Phase) help.KeyMap {
	switch phase {
	case selection.Selecting:
		return phaseKeys{
			short: []key.Binding{k.Reply, k.Edit, k.Flag, k.Delete, k.View, k.Exit},
			full: [][]key.Binding{
				{k.Up, k.Down, k.PageUp, k.PageDown},
				{k.Reply, k.Edit, k.Flag, k.Delete},
				{k.View, k.Copy, k.OpenURL, k.Exit},
			},
		}
	case selection.ConfirmDelete:
		return phaseKeys{
			short: []key.Binding{k.Confirm, k.Deny},
			full:  [][]key.Binding{{k.Confirm, k.Deny}},
		}
	case selection.Viewing:
		return phaseKeys{
			short: []key.Binding{k.Up, k.Down, k.Exit},
			full:  [][]key.Binding{{k.Up, k.Down, k.PageUp, k.PageDown, k.Exit}},
		}
	default:
		return phaseKeys{
			short: []key.Binding{k.Submit, k.Complete, k.Select, k.Help, k.Quit},
			full: [][]key.Binding{
				{k.Submit, k.Newline, k.Multiline, k.Cancel},
				{k.Complete, k.CompletePrev, k.HistoryPrev, k.HistoryNext},
				{k.Select, k.Help, k.Quit},
			},
		}
	}
}
