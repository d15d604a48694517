// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command table of the chat client.
//
// The registry is read-only after startup. It feeds three consumers: the
// parser that runs a submitted "/name args" line, the help screen, and the
// command completion resolver, which ranks entries with Search.
//
// # Key Types
//
//   - Command: name, argument spec, description and handler
//   - Registry: name and alias lookup over all commands
//   - Parser / ParseResult: split and validate a submitted command line
//
// # Usage
//
//	reg := commands.NewRegistry()
//	matches := reg.Search("lea") // leave, leaveall
//
//	res := commands.NewParser(reg).Parse("/join ~town-square")
//	if res.Err == nil {
//	    cmd := res.Command.Handler(ctx, res.Args)
//	}
package commands
