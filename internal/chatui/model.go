// Package chatui provides the Bubble Tea chat interface.
package chatui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qualitydesk/qualitybot/internal/api"
	"github.com/qualitydesk/qualitybot/internal/conversation"
	"github.com/qualitydesk/qualitybot/internal/model"
	"github.com/qualitydesk/qualitybot/internal/quiz"
	"github.com/qualitydesk/qualitybot/internal/storage"
)

const errorReply = "Sorry, I encountered an error while processing your request. Please try again or check your connection."

var (
	userLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	botLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFAF")).Bold(true)
	bodyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type replyMsg struct {
	text string
}

type replyErrMsg struct {
	err error
}

// Model implements the Bubble Tea chat UI.
type Model struct {
	client        *api.Client
	conversations *conversation.Store
	tracker       *quiz.Tracker
	store         storage.Storage
	log           *zap.Logger

	user     model.User
	role     model.Role
	language string

	messages []model.Message
	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	waiting bool
	status  string
	ready   bool

	width  int
	height int
}

// NewModel constructs a chat UI model. A transcript previously stored
// for the role is restored; otherwise the greeting seeds it.
func NewModel(client *api.Client, conversations *conversation.Store, tracker *quiz.Tracker, store storage.Storage, user model.User, role model.Role, language string, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	input := textinput.New()
	input.Placeholder = "Ask about quality tools, Cp/Cpk, or process improvement"
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := &Model{
		client:        client,
		conversations: conversations,
		tracker:       tracker,
		store:         store,
		log:           log,
		user:          user,
		role:          role,
		language:      language,
		input:         input,
		spin:          spin,
	}
	m.messages = m.loadTranscript()
	if len(m.messages) == 0 {
		m.messages = []model.Message{m.greeting()}
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlS:
			m.saveConversation()
			return m, nil
		case tea.KeyEnter:
			return m, m.submit()
		}
	case replyMsg:
		m.waiting = false
		m.append(model.MessageBot, msg.text)
		return m, nil
	case replyErrMsg:
		m.waiting = false
		m.log.Warn("chat request failed", zap.Error(msg.err))
		m.append(model.MessageBot, errorReply)
		return m, nil
	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var inputCmd, viewCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, viewCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, viewCmd)
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	var footer string
	switch {
	case m.waiting:
		footer = m.spin.View() + " thinking..."
	case m.status != "":
		footer = statusStyle.Render(m.status)
	default:
		footer = statusStyle.Render("enter send · ctrl+s save · esc quit")
	}
	return m.viewport.View() + "\n" + m.input.View() + "\n" + footer
}

func (m *Model) layout() {
	inputAndFooter := 2
	height := m.height - inputAndFooter
	if height < 1 {
		height = 1
	}
	if !m.ready {
		m.viewport = viewport.New(m.width, height)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = height
	}
	m.input.Width = m.width - 3
	m.refreshViewport()
}

func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return nil
	}
	m.input.Reset()
	m.status = ""

	// History excludes the message being sent.
	history := append([]model.Message(nil), m.messages...)
	m.append(model.MessageUser, text)
	m.waiting = true

	client := m.client
	role := m.role
	language := m.language
	send := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		reply, err := client.Chat(ctx, text, role, language, history)
		if err != nil {
			return replyErrMsg{err: err}
		}
		return replyMsg{text: reply}
	}
	return tea.Batch(send, m.spin.Tick)
}

func (m *Model) append(kind model.MessageKind, content string) {
	m.messages = append(m.messages, model.Message{
		ID:        uuid.NewString(),
		Type:      kind,
		Content:   content,
		Timestamp: time.Now(),
	})
	m.persistTranscript()
	m.refreshViewport()
}

func (m *Model) saveConversation() {
	conv, err := m.conversations.Save(m.messages)
	if errors.Is(err, conversation.ErrTooShort) {
		m.status = "nothing to save yet"
		return
	}
	if err != nil {
		m.log.Warn("failed to save conversation", zap.Error(err))
		m.status = errorStyle.Render("failed to save conversation")
		return
	}
	if m.tracker != nil {
		if _, err := m.tracker.MarkConversationSaved(); err != nil {
			m.log.Warn("failed to update progress", zap.Error(err))
		}
	}
	m.status = fmt.Sprintf("saved %q", conv.Title)
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderMessages() string {
	width := m.viewport.Width
	if width < 10 {
		width = 10
	}
	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n")
		}
		label := botLabelStyle.Render("QualityBot")
		if msg.Type == model.MessageUser {
			label = userLabelStyle.Render("You")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(bodyStyle.Width(width).Render(msg.Content))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) greeting() model.Message {
	name := m.user.Name
	if name == "" {
		name = "there"
	}
	return model.Message{
		ID:        uuid.NewString(),
		Type:      model.MessageBot,
		Content:   fmt.Sprintf("Hello %s! I'm your AI quality assistant. I can help you with quality tools, process capability, root cause analysis, and continuous improvement.", name),
		Timestamp: time.Now(),
	}
}

func (m *Model) transcriptKey() string {
	return "qualitybot-chat-" + string(m.role)
}

func (m *Model) loadTranscript() []model.Message {
	data, err := m.store.Get(m.transcriptKey())
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		m.log.Warn("failed to load transcript", zap.Error(err))
		return nil
	}
	var messages []model.Message
	if err := json.Unmarshal([]byte(data), &messages); err != nil {
		m.log.Warn("failed to decode transcript", zap.Error(err))
		return nil
	}
	return messages
}

func (m *Model) persistTranscript() {
	data, err := json.Marshal(m.messages)
	if err != nil {
		m.log.Warn("failed to encode transcript", zap.Error(err))
		return
	}
	if err := m.store.Set(m.transcriptKey(), string(data)); err != nil {
		m.log.Warn("failed to store transcript", zap.Error(err))
	}
}
