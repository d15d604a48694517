// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces of the huddle chat screen.

# Components

MessageList (message.go) - Channel messages, bottom-aligned, with the
selected message highlighted and kept in view.

CompletionPopup (completion.go) - The visible window of an autocomplete
session. Users outside the channel and channels the user has not joined are
dimmed.

Viewer (viewer.go) - A single message rendered as markdown with glamour
inside a scrollable bubbles viewport.

Components hold no session state. The chat model passes in what to draw on
every View call.
*/
package components
