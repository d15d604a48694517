// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors. Wrapped with the offending command's usage.
var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidArgument = errors.New("invalid argument")
)

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult contains the result of parsing a submitted line.
type ParseResult struct {
	// IsCommand is true if the input starts with "/".
	IsCommand bool

	// Command is the matched command (nil if not found).
	Command *Command

	// Name is the command name as typed, without the slash.
	Name string

	// Args are bound to Command.Args positionally. A Rest argument holds the
	// remaining text verbatim.
	Args []string

	// Err is set when the command is unknown or its arguments don't fit.
	Err error
}

// =============================================================================
// PARSER
// =============================================================================

// Parser turns submitted lines into commands.
type Parser struct {
	registry *Registry
}

// NewParser creates a parser over registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse parses input. Lines not starting with "/" (or starting with "//",
// the escape for a literal slash) are not commands.
func (p *Parser) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") || strings.HasPrefix(input, "//") {
		return ParseResult{}
	}

	tokens := splitCommandLine(input[1:])
	if len(tokens) == 0 {
		return ParseResult{IsCommand: true, Err: fmt.Errorf("%w: empty command", ErrUnknownCommand)}
	}

	result := ParseResult{IsCommand: true, Name: tokens[0].text}
	result.Command = p.registry.Get(result.Name)
	if result.Command == nil {
		result.Err = fmt.Errorf("%w: /%s", ErrUnknownCommand, result.Name)
		return result
	}

	result.Args, result.Err = bindArgs(result.Command, input[1:], tokens[1:])
	return result
}

func bindArgs(cmd *Command, raw string, tokens []token) ([]string, error) {
	var args []string
	for i, def := range cmd.Args {
		if i >= len(tokens) {
			if def.Required {
				return args, fmt.Errorf("%w: %s (usage: %s)", ErrMissingArgument, def.Name, cmd.Usage())
			}
			break
		}
		if def.Rest {
			args = append(args, strings.TrimSpace(raw[tokens[i].start:]))
			return args, nil
		}

		value := tokens[i].text
		if def.Type == ArgTypeEnum && len(def.Values) > 0 && !containsFold(def.Values, value) {
			return args, fmt.Errorf("%w: %s must be one of %s", ErrInvalidArgument, def.Name, strings.Join(def.Values, ", "))
		}
		args = append(args, value)
	}

	if len(tokens) > len(cmd.Args) {
		return args, fmt.Errorf("%w: too many arguments (usage: %s)", ErrInvalidArgument, cmd.Usage())
	}
	return args, nil
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

type token struct {
	text  string
	start int // byte offset of the token in the input
}

// splitCommandLine splits a line into tokens, respecting single and double quotes.
func splitCommandLine(input string) []token {
	var tokens []token
	var current strings.Builder
	var inSingleQuote, inDoubleQuote, escaped bool
	start := -1

	flush := func() {
		if start >= 0 {
			tokens = append(tokens, token{text: current.String(), start: start})
		}
		current.Reset()
		start = -1
	}

	for i, char := range input {
		if escaped {
			current.WriteRune(char)
			escaped = false
			continue
		}

		switch {
		case char == '\\' && (inSingleQuote || inDoubleQuote):
			escaped = true

		case char == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote
			if start < 0 {
				start = i
			}

		case char == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
			if start < 0 {
				start = i
			}

		case unicode.IsSpace(char) && !inSingleQuote && !inDoubleQuote:
			flush()

		default:
			if start < 0 {
				start = i
			}
			current.WriteRune(char)
		}
	}
	flush()

	return tokens
}
