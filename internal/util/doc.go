// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared across huddle.
//
// # Key Functions
//
// Text:
//   - Truncate: display-width truncation with an ellipsis
//   - PadRight: pad to a display width
//   - CursorLine: split a buffer into the line holding a rune offset
//
// Files:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	label := util.Truncate(user.DisplayName(), 24)
//	err := util.AtomicWriteFile(path, data, 0o600)
package util
