// Package tui is the interactive chat view: a bubbletea model that folds
// streaming session events into renderable state the same way the projector
// does for non-interactive consumers.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tooloo/tooloo-go/pkg/chat"
	"github.com/tooloo/tooloo-go/pkg/store"
	"github.com/tooloo/tooloo-go/pkg/stream"
	"github.com/tooloo/tooloo-go/pkg/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	assistantBoxStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(0, 1).
				Margin(0, 1)

	thoughtStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Foreground(lipgloss.Color("196")).
			Padding(0, 1).
			Margin(0, 1)
)

type (
	streamStartedMsg struct {
		eventCh <-chan tea.Msg
		session *stream.Session
	}
	streamRefreshMsg  struct{}
	streamFinishedMsg struct {
		session *stream.Session
		result  stream.Result
		err     error
	}
)

// turn is one completed exchange in the transcript.
type turn struct {
	question string
	answer   string
	meta     stream.Metadata
	failed   bool
}

// Model is the chat view.
type Model struct {
	client    *chat.Client
	appState  *store.Store
	projector *view.Projector
	sessionID string
	mode      string

	textarea textarea.Model
	spinner  spinner.Model

	history   []turn
	question  string
	streaming bool
	errMsg    string

	session *stream.Session
	eventCh <-chan tea.Msg

	width int
}

// NewModel builds the chat view. appState supplies persona and routing
// defaults and receives routing updates as responses complete.
func NewModel(client *chat.Client, appState *store.Store, sessionID, mode string, thoughtBound int) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask anything..."
	ta.SetHeight(2)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client:    client,
		appState:  appState,
		projector: view.NewProjector(view.NewThoughtLog(thoughtBound)),
		sessionID: sessionID,
		mode:      mode,
		textarea:  ta,
		spinner:   sp,
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.session != nil {
				m.session.Cancel()
			}
			return m, tea.Quit
		case "esc":
			if m.streaming && m.session != nil {
				m.session.Cancel()
			}
			return m, nil
		case "enter":
			question := strings.TrimSpace(m.textarea.Value())
			if question == "" {
				return m, nil
			}
			// A new prompt supersedes any stream still in flight: cancel it
			// so the later request wins the UI slot deterministically.
			if m.streaming && m.session != nil {
				m.session.Cancel()
			}
			m.question = question
			m.streaming = true
			m.errMsg = ""
			m.textarea.Reset()
			return m, tea.Batch(m.spinner.Tick, m.startStreamCmd(question))
		}

	case streamStartedMsg:
		m.session = msg.session
		m.eventCh = msg.eventCh
		return m, tea.Batch(m.spinner.Tick, readEventCmd(m.eventCh))

	case streamRefreshMsg:
		// Projector state changed; keep pumping.
		return m, readEventCmd(m.eventCh)

	case streamFinishedMsg:
		if msg.session != m.session {
			// A superseded session finishing late must not touch the view.
			return m, nil
		}
		m.streaming = false
		m.session = nil
		snap := m.projector.Snapshot()
		if msg.err != nil {
			m.errMsg = snap.ErrText
			if m.errMsg == "" {
				m.errMsg = msg.err.Error()
			}
			m.history = append(m.history, turn{question: m.question, answer: m.errMsg, failed: true})
		} else {
			m.history = append(m.history, turn{question: m.question, answer: msg.result.Content, meta: msg.result.Metadata})
			m.appState.SetRouting(msg.result.Metadata.Provider, msg.result.Metadata.Model)
		}
		m.question = ""
		return m, nil

	case spinner.TickMsg:
		if m.streaming {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// startStreamCmd opens the session on a goroutine and bridges its callbacks
// into the bubbletea loop through a buffered channel.
func (m Model) startStreamCmd(question string) tea.Cmd {
	client := m.client
	projector := m.projector
	req := chat.Request{
		Message:   question,
		Mode:      m.mode,
		SessionID: m.sessionID,
		Provider:  m.appState.Get().Provider,
		Context:   map[string]any{"persona": m.appState.Get().Persona},
	}

	return func() tea.Msg {
		events := make(chan tea.Msg, 64)
		session := client.NewChatSession()

		inner := projector.Begin()
		notify := func() {
			select {
			case events <- streamRefreshMsg{}:
			default:
			}
		}
		cb := stream.Callbacks{
			OnChunk: func(chunk, accumulated string) {
				inner.OnChunk(chunk, accumulated)
				notify()
			},
			OnThought: func(t stream.Thinking) {
				inner.OnThought(t)
				notify()
			},
			OnMetaUpdate: func(meta stream.Meta) {
				inner.OnMetaUpdate(meta)
				notify()
			},
			OnComplete: inner.OnComplete,
			OnError:    inner.OnError,
		}

		go func() {
			res, err := client.StreamWith(context.Background(), session, req, cb)
			events <- streamFinishedMsg{session: session, result: res, err: err}
			close(events)
		}()

		return streamStartedMsg{eventCh: events, session: session}
	}
}

// readEventCmd pulls one bridged event from the channel.
func readEventCmd(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("TOOLOO") + "\n\n")

	for _, t := range m.history {
		b.WriteString(userStyle.Render("you: ") + t.question + "\n")
		if t.failed {
			b.WriteString(errorBoxStyle.Render(t.answer) + "\n")
			continue
		}
		b.WriteString(assistantBoxStyle.Render(t.answer) + "\n")
		if t.meta.Provider != "" {
			b.WriteString(metaStyle.Render(fmt.Sprintf("  via %s/%s ($%.4f)", t.meta.Provider, t.meta.Model, t.meta.CostUSD)) + "\n")
		}
	}

	if m.streaming {
		b.WriteString(userStyle.Render("you: ") + m.question + "\n")
		snap := m.projector.Snapshot()
		body := snap.Content
		if body == "" {
			body = "..."
		}
		b.WriteString(assistantBoxStyle.Render(body) + "\n")
		b.WriteString(m.spinner.View() + metaStyle.Render(" streaming") + "\n")
		for _, e := range m.projector.Thoughts().Entries() {
			b.WriteString(thoughtStyle.Render("  · "+e.Text) + "\n")
		}
	} else if m.errMsg != "" {
		b.WriteString(errorBoxStyle.Render(m.errMsg) + "\n")
	}

	b.WriteString("\n" + m.textarea.View() + "\n")
	b.WriteString(metaStyle.Render("enter send · esc cancel stream · ctrl+c quit"))
	return b.String()
}
