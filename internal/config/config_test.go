// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("HUDDLE_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Autocomplete, cfg.Autocomplete)
	assert.Equal(t, "auto", cfg.UI.Theme)
}

func TestLoadFromPath_MergesDefaultsAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[server]
url = "https://chat.example.com"
team = "eng"

[autocomplete]
max_results = 10

[commands]
url_open_command = "xdg-open"
`)
	t.Setenv("HUDDLE_TEAM", "ops")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "https://chat.example.com", cfg.Server.URL)
	assert.Equal(t, "ops", cfg.Server.Team, "env should win over file")
	assert.Equal(t, 10, cfg.Autocomplete.MaxResults)
	assert.Equal(t, Default().Autocomplete.UserSearchLimit, cfg.Autocomplete.UserSearchLimit)
	assert.Equal(t, "xdg-open", cfg.Commands.URLOpenCommand)
	assert.Equal(t, 10*time.Second, cfg.Server.Timeout())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{"defaults", func(*Config) {}, "", false},
		{"bad url", func(c *Config) { c.Server.URL = "chat.example.com" }, "server.url", true},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme", true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level", true},
		{"negative rate", func(c *Config) { c.Autocomplete.RequestsPerSecond = -1 }, "autocomplete.requests_per_second", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("ui.theme", "dark"))
	require.NoError(t, cfg.Set("autocomplete.max_results", "12"))
	require.NoError(t, cfg.Set("autocomplete.emoji_manual_only", "false"))
	require.NoError(t, cfg.Set("commands.url-open-command", "open"))

	v, err := cfg.Get("ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
	assert.Equal(t, 12, cfg.Autocomplete.MaxResults)
	assert.False(t, cfg.Autocomplete.EmojiManualOnly)
	assert.Equal(t, "open", cfg.Commands.URLOpenCommand)

	_, err = cfg.Get("ui.nope")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("ui.theme.deeper", "x"))
	assert.Error(t, cfg.Set("autocomplete.max_results", "many"))
}

func TestGetAllKeys_Resolvable(t *testing.T) {
	cfg := Default()
	keys := GetAllKeys()
	assert.Contains(t, keys, "commands.url_open_command")
	for _, key := range keys {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestRequire(t *testing.T) {
	cfg := Default()
	_, err := cfg.Require("commands.url_open_command", "open URL")

	var missing *MissingSettingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "commands.url_open_command", missing.Key)
	assert.Contains(t, err.Error(), "url_open_command")

	cfg.Commands.URLOpenCommand = "xdg-open"
	v, err := cfg.Require("commands.url_open_command", "open URL")
	require.NoError(t, err)
	assert.Equal(t, "xdg-open", v)
}

func TestSaveTOML_RoundTripAndRedaction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Server.URL = "https://chat.example.com"
	cfg.Server.Token = "secret-token"

	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", loaded.Server.Token)

	assert.NotContains(t, loaded.String(), "secret-token")
	assert.Contains(t, loaded.String(), "[REDACTED]")
}

func TestConfig_ConcurrentAccess(t *testing.T) {
	t.Setenv("HUDDLE_HOME", t.TempDir())
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[ui]\ntheme = \"dark\"\n")

	got := make(chan *Config, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, nil, func(c *Config) { got <- c })
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	defer w.Close()

	writeFile(t, path, "[ui]\ntheme = \"light\"\n")

	select {
	case cfg := <-got:
		assert.Equal(t, "light", cfg.UI.Theme)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}
