package quizui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/qualitydesk/qualitybot/internal/quiz"
	"github.com/qualitydesk/qualitybot/internal/storage"
)

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel() *Model {
	return NewModel(quiz.NewTracker(storage.NewMemory(), "u1"), nil)
}

func TestAnswerShowsExplanation(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(keyPress("a"))
	m = updated.(*Model)
	if !m.answered {
		t.Fatal("answer not registered")
	}
	view := m.View()
	if !strings.Contains(view, m.questions[0].Explanation) {
		t.Fatalf("explanation not shown:\n%s", view)
	}
}

func TestSecondAnswerIgnoredUntilAdvance(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(keyPress("a"))
	m = updated.(*Model)
	updated, _ = m.Update(keyPress("b"))
	m = updated.(*Model)
	if len(m.answers) != 1 {
		t.Fatalf("recorded %d answers, want 1", len(m.answers))
	}
}

func TestFullRoundRecordsAttempt(t *testing.T) {
	tracker := quiz.NewTracker(storage.NewMemory(), "u1")
	m := NewModel(tracker, nil)

	for i := 0; i < quiz.RoundSize; i++ {
		choice := string(rune('a' + m.questions[i].Correct))
		updated, _ := m.Update(keyPress(choice))
		m = updated.(*Model)
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(*Model)
	}

	if !m.finished {
		t.Fatal("quiz not finished after all questions")
	}
	if m.finalScore != quiz.RoundSize {
		t.Fatalf("score = %d, want %d", m.finalScore, quiz.RoundSize)
	}
	progress, err := tracker.Progress()
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if progress.XP != quiz.RoundSize*10 {
		t.Fatalf("XP = %d, want %d", progress.XP, quiz.RoundSize*10)
	}
	if progress.QuizzesTaken != 1 {
		t.Fatalf("QuizzesTaken = %d, want 1", progress.QuizzesTaken)
	}
	view := m.View()
	if !strings.Contains(view, "Quiz Complete") {
		t.Fatalf("summary not shown:\n%s", view)
	}
}
