// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package selection implements message selection: picking a message in the
// channel and acting on it (flag, delete, reply, edit, view, copy, open
// links).
//
// Machine is a value. Every transition returns the next Machine, plus a
// tea.Cmd for work that talks to the server. A transition whose
// precondition fails returns the machine unchanged and a nil command.
package selection
