// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor holds the message composer: the text buffer, the compose
// mode (new post, reply, edit), multiline input, input history and the
// autocomplete session bound to the buffer.
package editor
