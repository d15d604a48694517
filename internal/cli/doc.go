// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires huddle's command line.
//
// Running huddle with no subcommand opens the full-screen chat client.
// The subcommands are:
//
//	huddle compose --channel town     line-mode composer with Tab completion
//	huddle config show|get|set|path|keys
//	huddle directory import|stats     offline directory cache
//	huddle version
package cli
