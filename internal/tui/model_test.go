package tui

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/quizpick/internal/model"
	"github.com/verte-zerg/quizpick/internal/quiz"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

// drain runs cmd and any batched commands, returning the first generatedMsg.
func drain(t *testing.T, cmd tea.Cmd) generatedMsg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected command")
	}
	switch msg := cmd().(type) {
	case generatedMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if gm, ok := c().(generatedMsg); ok {
				return gm
			}
		}
	}
	t.Fatalf("no generatedMsg produced")
	return generatedMsg{}
}

func TestCategoryCountKeys(t *testing.T) {
	m := newTestModel(t, stubSource{})
	// cursor starts on General Knowledge
	press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, runes("+"))
	if got := m.session.Selection.Count("General Knowledge"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.session.Selection.Count("General Knowledge"); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}

	press(m, tea.KeyMsg{Type: tea.KeyDown}, runes("4"), runes("2"))
	if got := m.session.Selection.Count("Books"); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	press(m, runes("9"))
	if got := m.session.Selection.Count("Books"); got != 9 {
		t.Fatalf("expected third digit to restart entry, got %d", got)
	}

	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.session.Selection.Count("Books"); got != 0 {
		t.Fatalf("expected backspace to clear, got %d", got)
	}
}

func TestCategoryDecrementStopsAtZero(t *testing.T) {
	m := newTestModel(t, stubSource{})
	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.session.Selection.Count("General Knowledge"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestGenerateAndToggle(t *testing.T) {
	src := stubSource{results: map[int][]model.Question{
		11: {{Category: "Film", Question: "Who directed Jaws?", CorrectAnswer: "Spielberg"}},
	}}
	m := newTestModel(t, src)
	press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, runes("1"))

	cmd := press(m, runes("g"))
	if !m.loading {
		t.Fatalf("expected loading state")
	}
	if again := press(m, runes("g")); again != nil {
		t.Fatalf("expected second generate to be refused while loading")
	}
	press(m, runes("R"))
	if got := m.session.Selection.Count("Film"); got != 1 {
		t.Fatalf("reset must be refused while loading, count=%d", got)
	}

	press(m, drain(t, cmd))
	if m.loading {
		t.Fatalf("expected loading cleared")
	}
	if m.focus != paneQuestions {
		t.Fatalf("expected focus on questions pane")
	}
	if len(m.session.Fetcher.Questions()) != 1 {
		t.Fatalf("expected one question")
	}

	press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.session.Curator.IsSelected("Who directed Jaws?") {
		t.Fatalf("expected question selected")
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.session.Curator.IsSelected("Who directed Jaws?") {
		t.Fatalf("expected question deselected")
	}
}

func TestGenerateFailureShowsMessage(t *testing.T) {
	m := newTestModel(t, stubSource{})
	press(m, generatedMsg{err: fmt.Errorf("%w: %w", quiz.ErrFetchFailure, errors.New("boom"))})
	if m.errMsg != "Failed to load questions." {
		t.Fatalf("unexpected error message %q", m.errMsg)
	}
	if m.loading {
		t.Fatalf("expected loading cleared")
	}
}

func TestTabCyclesPanes(t *testing.T) {
	m := newTestModel(t, stubSource{})
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != paneQuestions {
		t.Fatalf("expected questions pane, got %d", m.focus)
	}
	press(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != paneCategories {
		t.Fatalf("expected wrap to categories, got %d", m.focus)
	}
	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != paneSelected {
		t.Fatalf("expected selected pane, got %d", m.focus)
	}
}

func TestViewRendersPanes(t *testing.T) {
	m := newTestModel(t, stubSource{})
	press(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	out := m.View()
	if !containsAll(out, []string{"Categories", "Questions (0)", "Selected (0)", "General Knowledge", "Total questions selected: 0"}) {
		t.Fatalf("view missing expected content:\n%s", out)
	}
}
