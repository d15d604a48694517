// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"time"
)

// MaxMessages is the maximum number of messages kept per channel.
// When exceeded, the oldest messages are pruned.
const MaxMessages = 2000

// =============================================================================
// MESSAGES COLLECTION
// =============================================================================

// Messages is the chronologically ordered message list of one channel.
// Removed messages leave a tombstone holding their timestamp so navigation
// from a vanished ID can still find its neighbours.
type Messages struct {
	items      []*Message
	tombstones map[string]time.Time
}

// NewMessages creates an empty collection.
func NewMessages(msgs ...*Message) *Messages {
	ms := &Messages{tombstones: make(map[string]time.Time)}
	for _, m := range msgs {
		ms.Add(m)
	}
	return ms
}

// Len returns the number of messages.
func (ms *Messages) Len() int {
	return len(ms.items)
}

// All returns the messages oldest first. The slice must not be modified.
func (ms *Messages) All() []*Message {
	return ms.items
}

// Add inserts a message in timestamp order. A message with an existing ID
// replaces the stored one.
func (ms *Messages) Add(m *Message) {
	if i := ms.indexOf(m.ID); i >= 0 {
		ms.items[i] = m
		return
	}
	delete(ms.tombstones, m.ID)

	i := sort.Search(len(ms.items), func(i int) bool {
		return ms.items[i].Timestamp.After(m.Timestamp)
	})
	ms.items = append(ms.items, nil)
	copy(ms.items[i+1:], ms.items[i:])
	ms.items[i] = m

	if len(ms.items) > MaxMessages {
		ms.items = ms.items[len(ms.items)-MaxMessages:]
	}
}

// Get returns the message with the given ID.
func (ms *Messages) Get(id string) (*Message, bool) {
	i := ms.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return ms.items[i], true
}

// Remove drops a message and remembers where it was.
func (ms *Messages) Remove(id string) bool {
	i := ms.indexOf(id)
	if i < 0 {
		return false
	}
	ms.tombstones[id] = ms.items[i].Timestamp
	ms.items = append(ms.items[:i], ms.items[i+1:]...)
	return true
}

// Latest returns the newest message matching pred.
func (ms *Messages) Latest(pred func(*Message) bool) (*Message, bool) {
	for i := len(ms.items) - 1; i >= 0; i-- {
		if pred(ms.items[i]) {
			return ms.items[i], true
		}
	}
	return nil, false
}

// Before returns the nearest message matching pred strictly older than id.
// id may refer to a removed message.
func (ms *Messages) Before(id string, pred func(*Message) bool) (*Message, bool) {
	start, ok := ms.position(id)
	if !ok {
		return nil, false
	}
	for i := start - 1; i >= 0; i-- {
		if pred(ms.items[i]) {
			return ms.items[i], true
		}
	}
	return nil, false
}

// After returns the nearest message matching pred strictly newer than id.
// id may refer to a removed message.
func (ms *Messages) After(id string, pred func(*Message) bool) (*Message, bool) {
	start, ok := ms.position(id)
	if !ok {
		return nil, false
	}
	if i := ms.indexOf(id); i < 0 {
		// Removed: start already points past where the message was.
		start--
	}
	for i := start + 1; i < len(ms.items); i++ {
		if pred(ms.items[i]) {
			return ms.items[i], true
		}
	}
	return nil, false
}

// position returns the index of id, or for a removed id the index of the
// first message newer than it.
func (ms *Messages) position(id string) (int, bool) {
	if i := ms.indexOf(id); i >= 0 {
		return i, true
	}
	ts, ok := ms.tombstones[id]
	if !ok {
		return 0, false
	}
	return sort.Search(len(ms.items), func(i int) bool {
		return ms.items[i].Timestamp.After(ts)
	}), true
}

func (ms *Messages) indexOf(id string) int {
	for i := len(ms.items) - 1; i >= 0; i-- {
		if ms.items[i].ID == id {
			return i
		}
	}
	return -1
}
