// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat screen of the huddle TUI.

The Model is a Bubble Tea model that owns one editor.State (text buffer,
compose mode, history and autocomplete engine), one selection.Machine and the
Session holding joined channels and their messages. Everything runs on the
Bubble Tea event loop; server calls and directory lookups are tea.Cmds whose
results come back as messages.

# Files

  - model.go: Model, Options and wiring of resolvers to the directory
  - update.go: key handling per selection phase, completion, submit
  - actions.go: server round trips and slash command messages
  - view.go: layout, completion popup, status line, help screen
  - keys.go: key bindings and per-phase help
  - session.go: Service interface and Session state
  - msgs.go: message types

# Keys

While composing, Tab completes the token at the cursor (the first candidate
is inserted at once), Tab and Shift-Tab cycle candidates, and Esc drops the
popup or a reply/edit in progress. Ctrl-S enters message selection, where
r replies, e edits, f flags, d deletes after confirmation, v views, y copies
and o opens the first link.
*/
package chat
