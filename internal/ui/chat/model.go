// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/huddle-tui/internal/autocomplete"
	"github.com/jeranaias/huddle-tui/internal/commands"
	"github.com/jeranaias/huddle-tui/internal/config"
	"github.com/jeranaias/huddle-tui/internal/directory"
	"github.com/jeranaias/huddle-tui/internal/editor"
	"github.com/jeranaias/huddle-tui/internal/model"
	"github.com/jeranaias/huddle-tui/internal/selection"
	"github.com/jeranaias/huddle-tui/internal/ui/components"
	"github.com/jeranaias/huddle-tui/internal/ui/styles"
)

const (
	// DefaultRequestTimeout bounds server calls when the config has none.
	DefaultRequestTimeout = 10 * time.Second

	postsPerPage    = 60
	multilineHeight = 5
)

// Options wires a chat Model to its collaborators.
type Options struct {
	Config *config.Config
	// Service may be nil for an offline screen; server actions then fail.
	Service Service
	// Directory backs user, channel and emoji completion. Without one only
	// commands and code fence languages complete.
	Directory directory.Directory
	User      model.User
	TeamID    string
	Theme     *styles.Theme
	Clipboard selection.Clipboard
	Log       *zap.Logger
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	cfg       *config.Config
	svc       Service
	log       *zap.Logger
	clipboard selection.Clipboard

	session  *Session
	input    *editor.TextArea
	editor   *editor.State
	registry *commands.Registry
	parser   *commands.Parser
	sel      selection.Machine

	keys      KeyMap
	help      help.Model
	spinner   spinner.Model
	showHelp  bool
	helpTopic string

	header *components.Header
	list   *components.MessageList
	popup  *components.CompletionPopup
	viewer *components.Viewer
	status *components.StatusBar
}

// New creates a new chat model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}

	session := NewSession(opts.User, opts.TeamID)
	registry := commands.NewRegistry()

	resolvers := []autocomplete.Resolver{
		autocomplete.NewCommandResolver(registry),
		autocomplete.NewSyntaxResolver(autocomplete.DefaultSyntaxNames()),
	}
	if opts.Directory != nil {
		acLog := log.Named("autocomplete")
		resolvers = append(resolvers,
			autocomplete.NewUserResolver(opts.Directory, session.Scope, acLog),
			autocomplete.NewChannelResolver(opts.Directory, session.Scope, session.Joined, acLog),
			autocomplete.NewEmojiResolver(opts.Directory, acLog),
		)
	}
	engine := autocomplete.NewEngine(resolvers,
		autocomplete.WithMaxResults(cfg.Autocomplete.MaxResults),
		autocomplete.WithListHeight(cfg.UI.PopupHeight),
		autocomplete.WithEmojiManualOnly(cfg.Autocomplete.EmojiManualOnly),
		autocomplete.WithLogger(log.Named("autocomplete")),
	)

	input := editor.NewTextArea()
	ed := editor.New(input, engine,
		editor.WithMultiline(cfg.UI.MultilineDefault),
		editor.WithLogger(log.Named("editor")),
	)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	list := components.NewMessageList(theme)
	list.SetShowTimestamp(cfg.UI.ShowTimestamps)

	m := Model{
		theme:     theme,
		width:     80,
		height:    24,
		cfg:       cfg,
		svc:       opts.Service,
		log:       log,
		clipboard: opts.Clipboard,
		session:   session,
		input:     input,
		editor:    ed,
		registry:  registry,
		parser:    commands.NewParser(registry),
		keys:      DefaultKeyMap(cfg.UI.VimSelection),
		help:      help.New(),
		spinner:   sp,
		header:    components.NewHeader(theme),
		list:      list,
		popup:     components.NewCompletionPopup(theme),
		viewer:    components.NewViewer(theme),
		status:    components.NewStatusBar(theme),
	}
	m.applyMultiline()
	m.layout()
	return m
}

// Init starts the cursor blink and loads the channel list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.loadChannels())
}

// Session returns the session state.
func (m Model) Session() *Session { return m.session }

// Editor returns the composer.
func (m Model) Editor() *editor.State { return m.editor }

// Selection returns the selection machine.
func (m Model) Selection() selection.Machine { return m.sel }

// =============================================================================
// HELPERS
// =============================================================================

// env assembles what a selection transition needs.
func (m Model) env() selection.Env {
	var backend selection.Backend
	if m.svc != nil {
		backend = m.svc
	}
	return selection.Env{
		Messages:  m.session.Messages(m.session.CurrentID()),
		UserID:    m.session.User.ID,
		Editor:    m.editor,
		Backend:   backend,
		Clipboard: m.clipboard,
		Config:    m.cfg,
		Log:       m.log.Named("selection"),
	}
}

// timeout returns the server request timeout.
func (m Model) timeout() time.Duration {
	if d := m.cfg.Server.Timeout(); d > 0 {
		return d
	}
	return DefaultRequestTimeout
}

// call runs fn in the background with a request timeout.
func (m Model) call(fn func(ctx context.Context, svc Service) tea.Msg) tea.Cmd {
	if m.svc == nil {
		return func() tea.Msg { return ErrorMsg{Err: errOffline} }
	}
	svc := m.svc
	timeout := m.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fn(ctx, svc)
	}
}

// applyMultiline sizes the input for the current multiline setting.
func (m *Model) applyMultiline() {
	if m.editor.Multiline() {
		m.input.Model.SetHeight(multilineHeight)
		return
	}
	m.input.Model.SetHeight(1)
}

// layout distributes the screen between components.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.popup.SetWidth(min(m.width, 60))
	m.input.Model.SetWidth(m.width)
	m.help.Width = m.width

	inputHeight := m.input.Model.Height() + 1
	listHeight := m.height - inputHeight - 2
	if listHeight < 1 {
		listHeight = 1
	}
	m.list.SetSize(m.width, listHeight)
	m.viewer.SetSize(m.width, listHeight)
}
