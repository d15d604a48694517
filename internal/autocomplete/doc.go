// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package autocomplete detects the completable token under the cursor and
// resolves it into candidate alternatives.
//
// The flow on every edit is:
//
//	tok, ok := Scan(col, line)         // word under the cursor
//	kind, search, ok := Classify(ctx, tok)
//	cmd := engine.Check(ctx, col, line) // cache hit, sync lookup, or tea.Cmd
//
// Remote resolvers run as tea.Cmds and return a ResultsMsg. The program's
// Update passes it to Engine.SetAlternatives, which drops it unless its
// search string is still the pending one. All state lives in the Engine and
// is only touched from Update.
package autocomplete
