// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/jeranaias/huddle-tui/internal/model"
)

// DefaultEmojiLimit caps the names returned by EmojiIndex.Search.
const DefaultEmojiLimit = 50

// builtinEmoji are the standard short names every server knows.
var builtinEmoji = []string{
	"+1", "-1", "100", "alarm_clock", "angry", "apple", "arrow_down", "arrow_left",
	"arrow_right", "arrow_up", "astonished", "baby", "balloon", "bangbang", "beer",
	"beers", "bell", "bento", "bike", "bird", "birthday", "blush", "bomb", "book",
	"boom", "bowtie", "broken_heart", "bug", "bulb", "cake", "calendar", "camera",
	"cat", "champagne", "clap", "clipboard", "cloud", "coffee", "computer", "confused",
	"construction", "cookie", "cool", "cry", "crying_cat_face", "dancer", "dart",
	"disappointed", "dog", "dragon", "ear", "email", "eyes", "facepalm", "fire",
	"fireworks", "fish", "flushed", "frowning", "ghost", "gift", "grimacing", "grin",
	"grinning", "hammer", "hand", "hankey", "heart", "heart_eyes", "heavy_check_mark",
	"hourglass", "hugs", "hushed", "innocent", "joy", "key", "kiss", "laughing",
	"lock", "mag", "memo", "metal", "money_with_wings", "monkey", "moon", "muscle",
	"neutral_face", "no_entry", "ok", "ok_hand", "open_mouth", "package", "palm_tree",
	"partying_face", "pencil", "pensive", "pizza", "point_down", "point_left",
	"point_right", "point_up", "pray", "question", "rabbit", "raised_hands",
	"relaxed", "relieved", "rocket", "rofl", "rotating_light", "runner", "scream",
	"see_no_evil", "shrug", "skull", "sleeping", "sleepy", "slightly_smiling_face",
	"smile", "smiley", "smirk", "sob", "sparkles", "star", "star_struck", "stuck_out_tongue",
	"sunglasses", "sunny", "sweat", "sweat_smile", "tada", "taco", "thinking",
	"thumbsdown", "thumbsup", "tired_face", "trophy", "turtle", "umbrella", "unamused",
	"upside_down_face", "v", "warning", "wave", "weary", "white_check_mark", "wink",
	"worried", "x", "yum", "zap", "zzz",
}

// =============================================================================
// EMOJI INDEX
// =============================================================================

// EmojiIndex is an in-memory emoji name table searched with fuzzy matching.
type EmojiIndex struct {
	mu    sync.RWMutex
	names []string
	seen  map[string]struct{}
	limit int
}

// NewEmojiIndex returns an index of the built-in names plus extra.
func NewEmojiIndex(extra []string) *EmojiIndex {
	idx := &EmojiIndex{
		seen:  make(map[string]struct{}, len(builtinEmoji)+len(extra)),
		limit: DefaultEmojiLimit,
	}
	idx.Add(builtinEmoji...)
	idx.Add(extra...)
	return idx
}

// Add inserts names, ignoring duplicates and empty strings.
func (e *EmojiIndex) Add(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range names {
		n = strings.Trim(strings.TrimSpace(n), ":")
		if n == "" {
			continue
		}
		if _, ok := e.seen[n]; ok {
			continue
		}
		e.seen[n] = struct{}{}
		e.names = append(e.names, n)
	}
	sort.Strings(e.names)
}

// Len returns the number of names.
func (e *EmojiIndex) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.names)
}

// Search returns names matching query, best match first. An empty query
// lists names alphabetically.
func (e *EmojiIndex) Search(query string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	query = strings.ToLower(query)
	if query == "" {
		n := min(len(e.names), e.limit)
		return append([]string(nil), e.names[:n]...)
	}

	matches := fuzzy.Find(query, e.names)
	out := make([]string, 0, min(len(matches), e.limit))
	for _, m := range matches {
		if len(out) == e.limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// =============================================================================
// MERGED DIRECTORY
// =============================================================================

// emojiDirectory answers SearchEmoji from the local index merged with the
// server's custom emoji.
type emojiDirectory struct {
	Directory
	index *EmojiIndex
}

// WithEmoji returns a Directory whose SearchEmoji consults index. Custom names
// from next are added to the index as they are seen. A failing server search
// still yields the local matches.
func WithEmoji(next Directory, index *EmojiIndex) Directory {
	return &emojiDirectory{Directory: next, index: index}
}

func (d *emojiDirectory) SearchEmoji(ctx context.Context, query string) ([]string, error) {
	if d.Directory != nil {
		if custom, err := d.Directory.SearchEmoji(ctx, query); err == nil {
			d.index.Add(custom...)
		} else if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return d.index.Search(query), nil
}

// SearchUsers implements Directory.
func (d *emojiDirectory) SearchUsers(ctx context.Context, teamID, channelID, query string) (UserResults, error) {
	if d.Directory == nil {
		return UserResults{}, nil
	}
	return d.Directory.SearchUsers(ctx, teamID, channelID, query)
}

// SearchChannels implements Directory.
func (d *emojiDirectory) SearchChannels(ctx context.Context, teamID, query string) ([]model.Channel, error) {
	if d.Directory == nil {
		return nil, nil
	}
	return d.Directory.SearchChannels(ctx, teamID, query)
}
