// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Search returns the visible commands whose name or description contains
// query, ignoring case. Commands whose name starts with query come first;
// each group is sorted by name. An empty query matches everything.
func (r *Registry) Search(query string) []*Command {
	fold := cases.Fold()
	q := fold.String(query)

	var prefix, interior []*Command
	for _, cmd := range r.All() {
		name := fold.String(cmd.Name)
		switch {
		case strings.HasPrefix(name, q):
			prefix = append(prefix, cmd)
		case strings.Contains(name, q) || strings.Contains(fold.String(cmd.Description), q):
			interior = append(interior, cmd)
		}
	}

	byName := func(cmds []*Command) {
		sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	}
	byName(prefix)
	byName(interior)
	return append(prefix, interior...)
}
