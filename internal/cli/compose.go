// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/huddle-tui/internal/autocomplete"
	"github.com/jeranaias/huddle-tui/internal/commands"
	"github.com/jeranaias/huddle-tui/internal/config"
	"github.com/jeranaias/huddle-tui/internal/directory"
	"github.com/jeranaias/huddle-tui/internal/editor"
	"github.com/jeranaias/huddle-tui/internal/model"
)

const composeHistoryFile = "compose_history"

func newComposeCmd(flags *globalFlags) *cobra.Command {
	var channelName string
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Post to a channel from a plain line editor",
		Long: `Post to a channel one line at a time, without the full-screen client.

Tab completes the word under the cursor the same way the full-screen client
does. /me and /shrug work; Ctrl-D or /quit exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd.Context(), flags, channelName, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&channelName, "channel", "c", "", "channel to post to (required)")
	_ = cmd.MarkFlagRequired("channel")
	return cmd
}

func runCompose(ctx context.Context, flags *globalFlags, channelName string, out, errOut io.Writer) error {
	cfg, _, err := flags.loadConfig()
	if err != nil {
		return err
	}
	log, _, err := flags.logger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	conn, err := connect(ctx, cfg, log, readPassword)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Client.ChannelByName(ctx, conn.Team.ID, strings.TrimPrefix(channelName, autocomplete.ChannelSigil))
	if err != nil {
		return err
	}
	joined := map[string]bool{}
	if mine, err := conn.Client.MyChannels(ctx, conn.Team.ID); err == nil {
		for _, c := range mine {
			joined[c.ID] = true
		}
	}

	scope := autocomplete.Scope{TeamID: conn.Team.ID, ChannelID: ch.ID, UserID: conn.User.ID}
	registry := commands.NewRegistry()
	completer := NewLineCompleter(
		lineResolvers(registry, conn.Directory, scope, joined, log),
		cfg.Autocomplete.MaxResults,
		log.Named("autocomplete"),
	)
	c := &composer{
		channel: ch,
		scope:   scope,
		svc:     conn.Client,
		parser:  commands.NewParser(registry),
		timeout: cfg.Server.Timeout(),
		out:     out,
		errOut:  errOut,
		log:     log,
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabPrints)
	line.SetWordCompleter(completer.Complete)

	historyPath := ""
	if dir, err := config.ConfigDir(); err == nil {
		historyPath = filepath.Join(dir, composeHistoryFile)
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	defer saveHistory(line, historyPath)

	prompt := autocomplete.ChannelSigil + ch.Name + "> "
	for {
		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if !c.handle(ctx, input) {
			return nil
		}
	}
}

func saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.WriteHistory(f)
}

// lineResolvers builds the same resolver set as the full-screen client, with
// a fixed scope.
func lineResolvers(registry *commands.Registry, dir directory.Directory, scope autocomplete.Scope, joined map[string]bool, log *zap.Logger) []autocomplete.Resolver {
	scopeFn := func() autocomplete.Scope { return scope }
	joinedFn := func() map[string]bool { return joined }
	resolvers := []autocomplete.Resolver{
		autocomplete.NewCommandResolver(registry),
		autocomplete.NewSyntaxResolver(autocomplete.DefaultSyntaxNames()),
	}
	if dir != nil {
		resolvers = append(resolvers,
			autocomplete.NewUserResolver(dir, scopeFn, log),
			autocomplete.NewChannelResolver(dir, scopeFn, joinedFn, log),
			autocomplete.NewEmojiResolver(dir, log),
		)
	}
	return resolvers
}

// =============================================================================
// LINE COMPLETER
// =============================================================================

// LineCompleter adapts the completion engine to a line editor's word
// completer. Remote lookups run synchronously, since the line editor blocks
// on Tab anyway.
type LineCompleter struct {
	engine *autocomplete.Engine
}

// NewLineCompleter returns a completer over resolvers.
func NewLineCompleter(resolvers []autocomplete.Resolver, maxResults int, log *zap.Logger) *LineCompleter {
	return &LineCompleter{
		engine: autocomplete.NewEngine(resolvers,
			autocomplete.WithMaxResults(maxResults),
			autocomplete.WithLogger(log),
		),
	}
}

// Complete returns the text before the token under the cursor, its
// candidate replacements and the text after it. pos counts runes. A sole
// candidate carries a trailing space.
func (c *LineCompleter) Complete(line string, pos int) (head string, completions []string, tail string) {
	buf := editor.NewLineBuffer(line, pos)
	runes := []rune(line)
	pos = buf.Cursor()

	tok, ok := autocomplete.Scan(buf.Column(), buf.Line())
	if !ok {
		return string(runes[:pos]), nil, string(runes[pos:])
	}

	cmd, _ := c.engine.Check(autocomplete.Context{Manual: true}, buf.Column(), buf.Line())
	if cmd != nil {
		if msg, ok := cmd().(autocomplete.ResultsMsg); ok {
			c.engine.Apply(msg)
		}
	}
	if !c.engine.Active() {
		return string(runes[:pos]), nil, string(runes[pos:])
	}

	for _, alt := range c.engine.State().List.Items() {
		completions = append(completions, alt.Replacement())
	}
	if len(completions) == 1 {
		completions[0] += " "
	}
	return string(runes[:tok.Col]), completions, string(runes[tok.End():])
}

// =============================================================================
// COMPOSER
// =============================================================================

// postCreator sends posts.
type postCreator interface {
	CreatePost(ctx context.Context, p model.Post) (model.Post, error)
}

// composer turns input lines into posts.
type composer struct {
	channel model.Channel
	scope   autocomplete.Scope
	svc     postCreator
	parser  *commands.Parser
	timeout time.Duration
	out     io.Writer
	errOut  io.Writer
	log     *zap.Logger
}

// handle processes one line. It reports false when the user asked to quit.
func (c *composer) handle(ctx context.Context, input string) bool {
	text := strings.TrimRight(input, " \t")
	if strings.TrimSpace(text) == "" {
		return true
	}
	if strings.HasPrefix(text, "//") {
		c.post(ctx, text[1:], "")
		return true
	}
	if !strings.HasPrefix(text, autocomplete.CommandSigil) {
		c.post(ctx, text, "")
		return true
	}

	res := c.parser.Parse(text)
	if res.Err != nil {
		fmt.Fprintln(c.errOut, res.Err)
		return true
	}
	run := res.Command.Handler(&commands.Context{
		TeamID:    c.scope.TeamID,
		ChannelID: c.scope.ChannelID,
		UserID:    c.scope.UserID,
	}, res.Args)
	if run == nil {
		return true
	}

	switch msg := run().(type) {
	case tea.QuitMsg:
		return false
	case commands.PostMsg:
		c.post(ctx, msg.Text, msg.Type)
	case commands.ShowHelpMsg:
		fmt.Fprintln(c.out, "Available here: /me, /shrug, /help, /quit. Everything else needs the full-screen client.")
	default:
		fmt.Fprintf(c.errOut, "/%s needs the full-screen client\n", res.Command.Name)
	}
	return true
}

func (c *composer) post(ctx context.Context, text, postType string) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	p, err := c.svc.CreatePost(ctx, model.Post{ChannelID: c.channel.ID, Message: text, Type: postType})
	if err != nil {
		fmt.Fprintf(c.errOut, "send failed: %v\n", err)
		return
	}
	c.log.Debug("posted", zap.String("post", p.ID), zap.String("channel", c.channel.ID))
}
