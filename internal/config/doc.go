// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for huddle.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServerConfig: Chat server address, team and credentials
//   - AutocompleteConfig: Completion limits and remote query rate
//   - Watcher: Reloads the config file when it changes on disk
//   - MissingSettingError: An action needs a setting that is not configured
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (HUDDLE_*)
//   - ~/.huddle/config.toml (or $HUDDLE_HOME/config.toml)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	limit := cfg.Autocomplete.MaxResults
package config
