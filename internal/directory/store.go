// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/huddle-tui/internal/model"
)

// DefaultStoreLimit caps rows returned by a single Store search.
const DefaultStoreLimit = 50

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed Directory. It is filled by write-through from the
// remote directory and by Import, and answers searches when the server is
// unreachable.
type Store struct {
	db     *sql.DB
	limit  int
	mu     sync.RWMutex
	closed bool
}

// Snapshot is the JSON document accepted by Import.
type Snapshot struct {
	Users          []model.User        `json:"users"`
	Channels       []model.Channel     `json:"channels"`
	TeamMembers    map[string][]string `json:"team_members"`
	ChannelMembers map[string][]string `json:"channel_members"`
	Emoji          []string            `json:"emoji"`
}

// Stats counts cached rows.
type Stats struct {
	Users    int
	Channels int
	Emoji    int
}

// OpenStore opens (creating if needed) the cache database at path.
// Use ":memory:" for a throwaway store.
func OpenStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, and ":memory:" databases
	// are per-connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.Exec(
		`INSERT OR REPLACE INTO metadata(key, value) VALUES ('schema_version', ?)`,
		strconv.Itoa(SchemaVersion),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to record schema version: %w", err)
	}

	return &Store{db: db, limit: DefaultStoreLimit}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// =============================================================================
// WRITES
// =============================================================================

// PutUsers upserts users.
func (s *Store) PutUsers(ctx context.Context, users []model.User) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return putUsers(ctx, tx, users)
	})
}

// PutChannels upserts channels.
func (s *Store) PutChannels(ctx context.Context, channels []model.Channel) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return putChannels(ctx, tx, channels)
	})
}

// PutChannelMembers records users as members of a channel.
func (s *Store) PutChannelMembers(ctx context.Context, channelID string, userIDs []string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return putPairs(ctx, tx, "channel_members", "channel_id", channelID, userIDs)
	})
}

// PutTeamMembers records users as members of a team.
func (s *Store) PutTeamMembers(ctx context.Context, teamID string, userIDs []string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return putPairs(ctx, tx, "team_members", "team_id", teamID, userIDs)
	})
}

// PutEmoji upserts custom emoji names.
func (s *Store) PutEmoji(ctx context.Context, names []string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return putEmoji(ctx, tx, names)
	})
}

// Import loads a JSON Snapshot in one transaction.
func (s *Store) Import(ctx context.Context, r io.Reader) (Stats, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Stats{}, fmt.Errorf("decode snapshot: %w", err)
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := putUsers(ctx, tx, snap.Users); err != nil {
			return err
		}
		if err := putChannels(ctx, tx, snap.Channels); err != nil {
			return err
		}
		for team, ids := range snap.TeamMembers {
			if err := putPairs(ctx, tx, "team_members", "team_id", team, ids); err != nil {
				return err
			}
		}
		for ch, ids := range snap.ChannelMembers {
			if err := putPairs(ctx, tx, "channel_members", "channel_id", ch, ids); err != nil {
				return err
			}
		}
		return putEmoji(ctx, tx, snap.Emoji)
	})
	if err != nil {
		return Stats{}, err
	}
	return Stats{Users: len(snap.Users), Channels: len(snap.Channels), Emoji: len(snap.Emoji)}, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func putUsers(ctx context.Context, tx *sql.Tx, users []model.User) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO users(id, username, first_name, last_name, nickname, delete_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			nickname = excluded.nickname,
			delete_at = excluded.delete_at,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare user upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, u := range users {
		if _, err := stmt.ExecContext(ctx, u.ID, u.Username, u.FirstName, u.LastName, u.Nickname, u.DeleteAt, now); err != nil {
			return fmt.Errorf("upsert user %s: %w", u.Username, err)
		}
	}
	return nil
}

func putChannels(ctx context.Context, tx *sql.Tx, channels []model.Channel) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO channels(id, team_id, name, display_name, type, purpose, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			team_id = excluded.team_id,
			name = excluded.name,
			display_name = excluded.display_name,
			type = excluded.type,
			purpose = excluded.purpose,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare channel upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, c := range channels {
		chType := string(c.Type)
		if chType == "" {
			chType = string(model.ChannelOpen)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.TeamID, c.Name, c.DisplayName, chType, c.Purpose, now); err != nil {
			return fmt.Errorf("upsert channel %s: %w", c.Name, err)
		}
	}
	return nil
}

// putPairs inserts membership rows. table and column are constants from
// this file, never user input.
func putPairs(ctx context.Context, tx *sql.Tx, table, column, id string, userIDs []string) error {
	query := fmt.Sprintf(`INSERT OR IGNORE INTO %s(%s, user_id) VALUES (?, ?)`, table, column)
	for _, uid := range userIDs {
		if _, err := tx.ExecContext(ctx, query, id, uid); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

func putEmoji(ctx context.Context, tx *sql.Tx, names []string) error {
	now := time.Now().Unix()
	for _, name := range names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO emoji(name, updated_at) VALUES (?, ?)
			 ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at`,
			name, now,
		); err != nil {
			return fmt.Errorf("upsert emoji %s: %w", name, err)
		}
	}
	return nil
}

// =============================================================================
// SEARCH
// =============================================================================

// likePattern escapes LIKE wildcards in q and wraps it as a prefix or
// substring pattern.
func likePattern(q string, substring bool) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	p := r.Replace(q) + "%"
	if substring {
		p = "%" + p
	}
	return p
}

// SearchUsers matches active users whose username or names start with query.
// When the team has recorded members only they are considered.
func (s *Store) SearchUsers(ctx context.Context, teamID, channelID, query string) (UserResults, error) {
	if err := s.checkOpen(); err != nil {
		return UserResults{}, err
	}

	pattern := likePattern(query, false)
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.first_name, u.last_name, u.nickname, u.delete_at,
		       EXISTS(SELECT 1 FROM channel_members cm WHERE cm.channel_id = ? AND cm.user_id = u.id)
		FROM users u
		WHERE u.delete_at = 0
		  AND (u.username LIKE ? ESCAPE '\' OR u.first_name LIKE ? ESCAPE '\'
		       OR u.last_name LIKE ? ESCAPE '\' OR u.nickname LIKE ? ESCAPE '\')
		  AND (NOT EXISTS(SELECT 1 FROM team_members WHERE team_id = ?)
		       OR EXISTS(SELECT 1 FROM team_members tm WHERE tm.team_id = ? AND tm.user_id = u.id))
		ORDER BY u.username
		LIMIT ?`,
		channelID, pattern, pattern, pattern, pattern, teamID, teamID, s.limit)
	if err != nil {
		return UserResults{}, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var res UserResults
	for rows.Next() {
		var u model.User
		var member bool
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Nickname, &u.DeleteAt, &member); err != nil {
			return UserResults{}, fmt.Errorf("scan user: %w", err)
		}
		if member {
			res.InChannel = append(res.InChannel, u)
		} else {
			res.OutOfChannel = append(res.OutOfChannel, u)
		}
	}
	return res, rows.Err()
}

// SearchChannels matches channels in a team whose name or display name
// contains query.
func (s *Store) SearchChannels(ctx context.Context, teamID, query string) ([]model.Channel, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	pattern := likePattern(query, true)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, team_id, name, display_name, type, purpose
		FROM channels
		WHERE team_id = ? AND type IN ('O', 'P')
		  AND (name LIKE ? ESCAPE '\' OR display_name LIKE ? ESCAPE '\')
		ORDER BY name
		LIMIT ?`,
		teamID, pattern, pattern, s.limit)
	if err != nil {
		return nil, fmt.Errorf("search channels: %w", err)
	}
	defer rows.Close()

	var out []model.Channel
	for rows.Next() {
		var c model.Channel
		var chType string
		if err := rows.Scan(&c.ID, &c.TeamID, &c.Name, &c.DisplayName, &chType, &c.Purpose); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		c.Type = model.ChannelType(chType)
		out = append(out, c)
	}
	return out, rows.Err()
}

// SearchEmoji matches cached custom emoji containing query.
func (s *Store) SearchEmoji(ctx context.Context, query string) ([]string, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM emoji WHERE name LIKE ? ESCAPE '\' ORDER BY name LIMIT ?`,
		likePattern(query, true), s.limit)
	if err != nil {
		return nil, fmt.Errorf("search emoji: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan emoji: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Stats counts cached rows.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	if err := s.checkOpen(); err != nil {
		return Stats{}, err
	}
	var st Stats
	for _, q := range []struct {
		table string
		dst   *int
	}{{"users", &st.Users}, {"channels", &st.Channels}, {"emoji", &st.Emoji}} {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+q.table).Scan(q.dst); err != nil {
			return Stats{}, fmt.Errorf("count %s: %w", q.table, err)
		}
	}
	return st, nil
}
