// Package tui provides the terminal chat interface.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kalambet/jobseek/internal/chat"
	"github.com/kalambet/jobseek/internal/session"
	"github.com/kalambet/jobseek/internal/settings"
	"github.com/kalambet/jobseek/internal/theme"
)

// Message types for the tea program
type (
	replyMsg struct {
		msg chat.Message
	}

	testResultMsg struct {
		state settings.DialogState
	}
)

// Deps are the session objects the UI renders and drives.
type Deps struct {
	Session *session.Session
	Dialog  *settings.Dialog
	Themes  *theme.Store
}

// Model represents the TUI state
type Model struct {
	// Components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	urlInput textinput.Model

	sess   *session.Session
	dialog *settings.Dialog
	themes *theme.Store

	appearance theme.Appearance
	styles     theme.Styles

	width  int
	height int
	ready  bool

	showSettings bool
	testing      bool
	// panel is transient output of a slash command, shown above the input.
	panel string
}

// New creates the chat model. The conversation is seeded with its greeting.
func New(d Deps) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe the job you're looking for (type /help for commands)..."
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	ti := textinput.New()
	ti.Placeholder = "https://your-n8n-instance.com/webhook/..."
	ti.Prompt = "URL> "
	ti.CharLimit = 2048
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		textarea: ta,
		spinner:  sp,
		urlInput: ti,
		sess:     d.Session,
		dialog:   d.Dialog,
		themes:   d.Themes,
	}
	m.setAppearance(d.Themes.Load())
	d.Session.Seed()
	return m
}

func (m *Model) setAppearance(a theme.Appearance) {
	m.appearance = a
	m.styles = a.Styles()
	m.spinner.Style = m.styles.Spinner
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case replyMsg:
		m.refresh()
		return m, nil

	case testResultMsg:
		m.testing = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.showSettings {
			return m.updateSettings(msg)
		}
		switch msg.Type {
		case tea.KeyEnter:
			input := m.textarea.Value()
			m.textarea.Reset()
			return m.handleInput(input)
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleInput dispatches slash commands or submits a query.
func (m Model) handleInput(input string) (tea.Model, tea.Cmd) {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "/") {
		return m.executeCommand(trimmed)
	}
	m.panel = ""

	ex, err := m.sess.Submit(input)
	if err != nil {
		m.panel = m.styles.FieldError.Render(err.Error())
		return m, nil
	}
	m.refresh()
	if ex == nil {
		return m, nil
	}
	return m, runExchange(ex)
}

// runExchange performs the webhook call off the UI loop.
func runExchange(ex *session.Exchange) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{msg: ex.Run(context.Background())}
	}
}

// updateSettings handles keys while the settings overlay is open. Enter and
// Esc both close it, committing the draft.
func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		if err := m.dialog.Close(); err != nil {
			return m, nil
		}
		m.closeSettings()
		return m, nil

	case tea.KeyCtrlR:
		if err := m.dialog.Reset(); err != nil {
			m.panel = m.styles.FieldError.Render(err.Error())
		}
		m.closeSettings()
		return m, nil

	case tea.KeyCtrlT:
		if m.testing {
			return m, nil
		}
		m.testing = true
		d := m.dialog
		return m, func() tea.Msg {
			st, _ := d.Test(context.Background())
			return testResultMsg{state: st}
		}
	}

	var cmd tea.Cmd
	before := m.urlInput.Value()
	m.urlInput, cmd = m.urlInput.Update(msg)
	if m.urlInput.Value() != before {
		m.dialog.SetDraft(m.urlInput.Value())
	}
	return m, cmd
}

func (m *Model) openSettings() {
	m.dialog.Open()
	m.urlInput.SetValue(m.dialog.State().Draft)
	m.urlInput.CursorEnd()
	m.urlInput.Focus()
	m.textarea.Blur()
	m.showSettings = true
}

func (m *Model) closeSettings() {
	m.showSettings = false
	m.testing = false
	m.urlInput.Blur()
	m.textarea.Focus()
	m.refresh()
}

// SetSize lays out the viewport and input for the terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	m.textarea.SetWidth(max(width-2, 10))
	m.urlInput.Width = max(width-20, 20)

	vpHeight := max(height-m.textarea.Height()-4, 3)
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.refresh()
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}
