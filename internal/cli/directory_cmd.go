// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/huddle-tui/internal/directory"
)

func newDirectoryCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Manage the offline directory cache",
		Long: `Manage the SQLite cache that backs completion when the server is slow
or unreachable. The cache fills itself while the client runs; import seeds
it from a JSON snapshot with users, channels, members and emoji.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Load a JSON snapshot into the cache (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			stats, err := store.Import(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d users, %d channels, %d emoji\n",
				stats.Users, stats.Channels, stats.Emoji)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Count cached entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "users:    %d\n", stats.Users)
			fmt.Fprintf(out, "channels: %d\n", stats.Channels)
			fmt.Fprintf(out, "emoji:    %d\n", stats.Emoji)
			return nil
		},
	})

	return cmd
}

// openStore opens the configured cache database.
func (f *globalFlags) openStore() (*directory.Store, error) {
	cfg, _, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	path, err := cfg.CachePath()
	if err != nil {
		return nil, err
	}
	return directory.OpenStore(path)
}
