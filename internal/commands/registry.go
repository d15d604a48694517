// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command is a client-side slash command.
type Command struct {
	// Name is the command name without the leading slash (e.g., "join").
	Name string

	// Aliases are alternative names, also without a slash.
	Aliases []string

	// Description is shown in help and completion.
	Description string

	// Args defines the expected arguments.
	Args []ArgDef

	// Handler executes the command. It never blocks; work happens in the
	// returned tea.Cmd.
	Handler func(ctx *Context, args []string) tea.Cmd

	// Hidden commands don't appear in help or completion.
	Hidden bool

	// Category for grouping in help display.
	Category string
}

// ArgSpec renders the argument list, e.g. "<channel>" or "<user> [message...]".
func (c *Command) ArgSpec() string {
	parts := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

// Usage renders "/name argspec".
func (c *Command) Usage() string {
	if spec := c.ArgSpec(); spec != "" {
		return "/" + c.Name + " " + spec
	}
	return "/" + c.Name
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name     string
	Type     ArgType
	Required bool
	// Rest consumes all remaining words as one value.
	Rest   bool
	Values []string
}

// String renders the argument as it appears in an ArgSpec.
func (a ArgDef) String() string {
	name := a.Name
	if a.Rest {
		name += "..."
	}
	if a.Required {
		return "<" + name + ">"
	}
	return "[" + name + "]"
}

// ArgType indicates what an argument refers to.
type ArgType int

const (
	ArgTypeText    ArgType = iota // Free-form text
	ArgTypeUser                   // @username
	ArgTypeChannel                // ~channel
	ArgTypeEnum                   // One of Values
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a registry with all built-in commands.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.registerBuiltins()
	return r
}

// NewEmptyRegistry creates a registry with no commands.
func NewEmptyRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
}

// Register adds a command to the registry, replacing one with the same name.
func (r *Registry) Register(cmd *Command) {
	name := strings.TrimPrefix(cmd.Name, "/")
	cmd.Name = name
	r.commands[name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[strings.TrimPrefix(alias, "/")] = cmd
	}
}

// Get retrieves a command by name or alias. A leading slash is ignored.
func (r *Registry) Get(name string) *Command {
	name = strings.ToLower(strings.TrimPrefix(name, "/"))
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns the visible commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		if !cmd.Hidden {
			cmds = append(cmds, cmd)
		}
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.All() {
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation
	r.Register(&Command{
		Name:        "help",
		Aliases:     []string{"h", "?"},
		Description: "Show help and available commands",
		Args:        []ArgDef{{Name: "topic", Type: ArgTypeEnum, Values: []string{"commands", "keys", "syntax"}}},
		Category:    "Navigation",
		Handler:     handleHelp,
	})
	r.Register(&Command{
		Name:        "quit",
		Aliases:     []string{"q", "exit"},
		Description: "Exit huddle",
		Category:    "Navigation",
		Handler:     handleQuit,
	})
	r.Register(&Command{
		Name:        "focus",
		Description: "Switch to a channel",
		Args:        []ArgDef{{Name: "channel", Type: ArgTypeChannel, Required: true}},
		Category:    "Navigation",
		Handler:     handleFocus,
	})

	// Channels
	r.Register(&Command{
		Name:        "join",
		Description: "Join a channel",
		Args:        []ArgDef{{Name: "channel", Type: ArgTypeChannel, Required: true}},
		Category:    "Channels",
		Handler:     handleJoin,
	})
	r.Register(&Command{
		Name:        "leave",
		Aliases:     []string{"part"},
		Description: "Leave the current channel",
		Category:    "Channels",
		Handler:     handleLeave,
	})
	r.Register(&Command{
		Name:        "leaveall",
		Description: "Leave every channel except town-square",
		Category:    "Channels",
		Handler:     handleLeaveAll,
	})
	r.Register(&Command{
		Name:        "header",
		Description: "Set the channel header",
		Args:        []ArgDef{{Name: "text", Type: ArgTypeText, Required: true, Rest: true}},
		Category:    "Channels",
		Handler:     handleHeader,
	})
	r.Register(&Command{
		Name:        "members",
		Description: "List channel members",
		Category:    "Channels",
		Handler:     handleMembers,
	})
	r.Register(&Command{
		Name:        "add-user",
		Description: "Add a user to the current channel",
		Args:        []ArgDef{{Name: "user", Type: ArgTypeUser, Required: true}},
		Category:    "Channels",
		Handler:     handleAddUser,
	})

	// Messaging
	r.Register(&Command{
		Name:        "msg",
		Aliases:     []string{"dm"},
		Description: "Send a direct message",
		Args: []ArgDef{
			{Name: "user", Type: ArgTypeUser, Required: true},
			{Name: "message", Type: ArgTypeText, Rest: true},
		},
		Category: "Messaging",
		Handler:  handleDirectMessage,
	})
	r.Register(&Command{
		Name:        "me",
		Description: "Post an emote",
		Args:        []ArgDef{{Name: "action", Type: ArgTypeText, Required: true, Rest: true}},
		Category:    "Messaging",
		Handler:     handleEmote,
	})
	r.Register(&Command{
		Name:        "shrug",
		Description: `Post a message with ¯\_(ツ)_/¯ appended`,
		Args:        []ArgDef{{Name: "message", Type: ArgTypeText, Rest: true}},
		Category:    "Messaging",
		Handler:     handleShrug,
	})
	r.Register(&Command{
		Name:        "flags",
		Description: "Show flagged messages",
		Category:    "Messaging",
		Handler:     handleFlags,
	})

	// Settings
	r.Register(&Command{
		Name:        "theme",
		Description: "Switch the color theme",
		Args:        []ArgDef{{Name: "name", Type: ArgTypeEnum, Required: true, Values: []string{"auto", "dark", "light"}}},
		Category:    "Settings",
		Handler:     handleTheme,
	})
	r.Register(&Command{
		Name:        "multiline",
		Description: "Toggle multi-line editing",
		Category:    "Settings",
		Handler:     handleMultiline,
	})
	r.Register(&Command{
		Name:        "reconnect",
		Description: "Reconnect to the server",
		Category:    "Settings",
		Handler:     handleReconnect,
	})
}
