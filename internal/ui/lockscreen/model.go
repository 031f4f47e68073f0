// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lockscreen

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ttylock/internal/lock"
	"github.com/jeranaias/ttylock/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the lock screen.
type Model struct {
	session *lock.Session
	theme   *styles.Theme
	keys    KeyMap
	log     *zap.Logger

	title          string
	noticeMarkdown string
	notice         string

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithTheme sets the theme; the default is styles.NewTheme().
func WithTheme(t *styles.Theme) Option {
	return func(m *Model) {
		if t != nil {
			m.theme = t
		}
	}
}

// WithKeyMap replaces DefaultKeyMap.
func WithKeyMap(km KeyMap) Option {
	return func(m *Model) { m.keys = km }
}

// WithTitle sets the heading of the lock box.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithNotice sets markdown shown under the prompt.
func WithNotice(markdown string) Option {
	return func(m *Model) { m.noticeMarkdown = markdown }
}

// WithSize sets the screen size used until the first resize message.
func WithSize(width, height int) Option {
	return func(m *Model) {
		if width > 0 && height > 0 {
			m.width, m.height = width, height
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// New returns a Model driving session.
func New(session *lock.Session, opts ...Option) Model {
	m := Model{
		session: session,
		keys:    DefaultKeyMap(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.theme == nil {
		m.theme = styles.NewTheme()
	}
	m.renderNotice()
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Only key messages change the session; the
// program quits once it is unlocked.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		resized := msg.Width != m.width
		m.width = msg.Width
		m.height = msg.Height
		if resized {
			m.renderNotice()
		}

	case tea.KeyMsg:
		before := m.session.Mode()
		for _, ev := range Translate(msg, m.keys) {
			m.session.Handle(ev)
			// Anything after the accepted Enter in the same message is dropped.
			if m.session.Unlocked() {
				break
			}
		}
		if after := m.session.Mode(); after != before {
			m.log.Debug("lock mode changed",
				zap.Stringer("from", before),
				zap.Stringer("to", after),
				zap.Uint("failed", m.session.FailedCount()))
		}
		if m.session.Unlocked() {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return Render(m.session.Snapshot(), Layout{
		Width:  m.width,
		Height: m.height,
		Title:  m.title,
		Notice: m.notice,
		Theme:  m.theme,
	})
}

// Unlocked reports whether the session accepted a credential.
func (m Model) Unlocked() bool {
	return m.session.Unlocked()
}

func (m *Model) renderNotice() {
	width := m.width - 16
	if width > maxBoxWidth-8 || width <= 0 {
		width = maxBoxWidth - 8
	}
	out, err := RenderNotice(m.noticeMarkdown, width, m.theme.GlamourStyle())
	if err != nil {
		m.log.Warn("notice could not be rendered as markdown", zap.Error(err))
		out = m.noticeMarkdown
	}
	m.notice = out
}
