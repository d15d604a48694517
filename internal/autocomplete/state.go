// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package autocomplete

// State is an active completion session. It exists from the first
// completable token until the token under the cursor stops being
// completable.
type State struct {
	Kind           Kind
	PreviousSearch string
	List           *List
	Label          string
	// Cache holds every result set received this session, keyed by search
	// string.
	Cache map[string][]Alternative
}

// Cached returns the cached alternatives for search.
func (s *State) Cached(search string) ([]Alternative, bool) {
	if s == nil {
		return nil, false
	}
	alts, ok := s.Cache[search]
	return alts, ok
}

// pending is the most recently issued search. ctx accumulates every trigger
// seen while the search is in flight.
type pending struct {
	kind   Kind
	search string
	ctx    Context
}
