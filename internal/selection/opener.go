// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package selection

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// openTimeout bounds how long the opener may run before it is killed.
const openTimeout = 30 * time.Second

// ErrEmptyCommand is returned for a blank opener command.
var ErrEmptyCommand = errors.New("empty url open command")

// OpenURL runs command with url. A "%s" in command is replaced by the URL,
// otherwise the URL is appended as the last argument.
func OpenURL(ctx context.Context, command, url string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ErrEmptyCommand
	}

	args := fields[1:]
	substituted := false
	for i, a := range args {
		if strings.Contains(a, "%s") {
			args[i] = strings.ReplaceAll(a, "%s", url)
			substituted = true
		}
	}
	if !substituted {
		args = append(args, url)
	}

	ctx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, fields[0], args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("open %s: %w: %s", url, err, msg)
		}
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}
