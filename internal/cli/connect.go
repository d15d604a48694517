// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/huddle-tui/internal/client"
	"github.com/jeranaias/huddle-tui/internal/config"
	"github.com/jeranaias/huddle-tui/internal/directory"
	"github.com/jeranaias/huddle-tui/internal/model"
)

// connection is a logged-in client and the directory stack built on it.
type connection struct {
	Client    *client.Client
	Directory directory.Directory
	User      model.User
	Team      client.Team

	store *directory.Store
}

// Close releases the directory cache.
func (c *connection) Close() {
	if c.store != nil {
		_ = c.store.Close()
	}
}

// passwordPrompt asks the user for a password.
type passwordPrompt func(prompt string) (string, error)

// connect logs in with the configured token, or with username and password
// when there is none, and resolves the configured team.
func connect(ctx context.Context, cfg *config.Config, log *zap.Logger, prompt passwordPrompt) (*connection, error) {
	serverURL, err := cfg.Require("server.url", "connect")
	if err != nil {
		return nil, err
	}
	teamName, err := cfg.Require("server.team", "connect")
	if err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithTimeout(cfg.Server.Timeout()),
		client.WithLogger(log.Named("client")),
		client.WithSearchLimit(cfg.Autocomplete.UserSearchLimit),
	}
	if cfg.Server.Token != "" {
		opts = append(opts, client.WithToken(cfg.Server.Token))
	}
	api := client.New(serverURL, opts...)

	var user model.User
	if cfg.Server.Token != "" {
		user, err = api.Me(ctx)
	} else {
		user, err = login(ctx, api, cfg, prompt)
	}
	if err != nil {
		return nil, err
	}

	team, err := api.TeamByName(ctx, teamName)
	if err != nil {
		return nil, err
	}

	conn := &connection{Client: api, User: user, Team: team}
	conn.Directory, conn.store = openDirectory(cfg, api, log)
	return conn, nil
}

func login(ctx context.Context, api *client.Client, cfg *config.Config, prompt passwordPrompt) (model.User, error) {
	username, err := cfg.Require("server.username", "log in")
	if err != nil {
		return model.User{}, err
	}
	password := cfg.Server.Password
	if password == "" {
		if prompt == nil {
			return model.User{}, &config.MissingSettingError{Key: "server.password", Action: "log in"}
		}
		password, err = prompt(fmt.Sprintf("Password for %s: ", username))
		if err != nil {
			return model.User{}, err
		}
	}
	return api.Login(ctx, username, password, cfg.Server.MFASecret)
}

// openDirectory stacks the completion directory: the remote client, backed
// by the SQLite cache when enabled, behind a rate limit, with the built-in
// emoji list merged in. A cache that cannot be opened is skipped.
func openDirectory(cfg *config.Config, remote directory.Directory, log *zap.Logger) (directory.Directory, *directory.Store) {
	dir := remote
	var store *directory.Store
	if cfg.Cache.Enabled {
		store = openStore(cfg, log)
		if store != nil {
			dir = directory.NewCached(remote, store, log.Named("directory"))
		}
	}
	dir = directory.NewLimited(dir, rate.Limit(cfg.Autocomplete.RequestsPerSecond), cfg.Autocomplete.Burst)
	return directory.WithEmoji(dir, directory.NewEmojiIndex(nil)), store
}

func openStore(cfg *config.Config, log *zap.Logger) *directory.Store {
	path, err := cfg.CachePath()
	if err != nil {
		log.Warn("directory cache disabled", zap.Error(err))
		return nil
	}
	store, err := directory.OpenStore(path)
	if err != nil {
		log.Warn("directory cache disabled", zap.String("path", path), zap.Error(err))
		return nil
	}
	return store
}
