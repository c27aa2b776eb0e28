// Package quizui provides the Bubble Tea quiz interface.
package quizui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/qualitydesk/qualitybot/internal/model"
	"github.com/qualitydesk/qualitybot/internal/quiz"
)

var (
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	optionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAF5F")).Bold(true)
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	explainStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// Model implements the Bubble Tea quiz UI.
type Model struct {
	tracker *quiz.Tracker
	log     *zap.Logger

	questions []model.QuizQuestion
	answers   []int
	index     int
	selected  int
	answered  bool
	finished  bool
	startedAt time.Time

	finalScore    int
	finalProgress model.Progress
	recordErr     error

	width  int
	height int
}

// NewModel constructs a quiz UI model with a fresh random round.
func NewModel(tracker *quiz.Tracker, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{
		tracker:   tracker,
		log:       log,
		questions: quiz.NewRound(),
		startedAt: time.Now(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.finished {
				return m, tea.Quit
			}
			if m.answered {
				m.advance()
			}
			return m, nil
		}
		if m.finished || m.answered {
			return m, nil
		}
		key := msg.String()
		if len(key) == 1 && key[0] >= 'a' && key[0] <= 'd' {
			m.answer(int(key[0] - 'a'))
		}
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.finished {
		return m.renderSummary()
	}
	q := m.questions[m.index]

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Question %d of %d · %s", m.index+1, len(m.questions), q.Category)))
	b.WriteString("\n\n")
	b.WriteString(questionStyle.Render(q.Question))
	b.WriteString("\n\n")
	for i, option := range q.Options {
		line := fmt.Sprintf("%c) %s", 'a'+i, option)
		style := optionStyle
		if m.answered {
			switch {
			case i == q.Correct:
				style = correctStyle
			case i == m.selected:
				style = wrongStyle
			}
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	if m.answered {
		b.WriteString("\n")
		b.WriteString(explainStyle.Render(q.Explanation))
		b.WriteString("\n\n")
		b.WriteString(footerStyle.Render("enter next · esc quit"))
	} else {
		b.WriteString("\n")
		b.WriteString(footerStyle.Render("press a-d to answer · esc quit"))
	}
	return b.String()
}

func (m *Model) answer(choice int) {
	m.selected = choice
	m.answered = true
	m.answers = append(m.answers, choice)
}

func (m *Model) advance() {
	m.answered = false
	m.selected = 0
	m.index++
	if m.index < len(m.questions) {
		return
	}
	m.finish()
}

func (m *Model) finish() {
	m.finished = true
	m.finalScore = quiz.Score(m.questions, m.answers)
	_, progress, err := m.tracker.RecordAttempt(m.finalScore, len(m.questions), time.Since(m.startedAt))
	if err != nil {
		m.log.Warn("failed to record quiz attempt", zap.Error(err))
		m.recordErr = err
		return
	}
	m.finalProgress = progress
}

func (m *Model) renderSummary() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Quiz Complete"))
	b.WriteString("\n\n")
	b.WriteString(questionStyle.Render(fmt.Sprintf("Score: %d/%d", m.finalScore, len(m.questions))))
	b.WriteString("\n")
	if m.recordErr != nil {
		b.WriteString(wrongStyle.Render("could not save your progress"))
	} else {
		b.WriteString(fmt.Sprintf("+%d XP · Level %d · %d XP total",
			m.finalScore*10, m.finalProgress.Level, m.finalProgress.XP))
	}
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("enter to exit"))
	return b.String()
}
