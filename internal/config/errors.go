// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import "fmt"

// MissingSettingError is returned when an action depends on a setting the
// user has not configured.
type MissingSettingError struct {
	// Key is the dot-notation setting name, e.g. "commands.url_open_command".
	Key    string
	Action string
}

func (e *MissingSettingError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s is not configured", e.Key)
	}
	return fmt.Sprintf("cannot %s: %s is not configured (huddle config set %s <value>)", e.Action, e.Key, e.Key)
}

// Require returns a MissingSettingError when the string at key is empty.
func (c *Config) Require(key, action string) (string, error) {
	v, err := c.Get(key)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	if s == "" {
		return "", &MissingSettingError{Key: key, Action: action}
	}
	return s, nil
}
