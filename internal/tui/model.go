// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/quizpick/internal/category"
	"github.com/verte-zerg/quizpick/internal/model"
	"github.com/verte-zerg/quizpick/internal/quiz"
)

type pane int

const (
	paneCategories pane = iota
	paneQuestions
	paneSelected
	paneCount
)

type generatedMsg struct {
	questions []model.Question
	err       error
}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	ctx     context.Context
	session *quiz.Session
	log     *zap.Logger

	categories []model.Category
	keys       keyMap
	help       help.Model
	spinner    spinner.Model

	focus       pane
	cursors     [paneCount]int
	digits      string
	loading     bool
	showAnswers bool
	errMsg      string
	notice      string

	width  int
	height int
}

// NewModel constructs a quiz TUI model.
func NewModel(ctx context.Context, session *quiz.Session, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{
		ctx:        ctx,
		session:    session,
		log:        log,
		categories: category.All(),
		keys:       defaultKeyMap(),
		help:       help.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
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
		m.help.Width = msg.Width
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case generatedMsg:
		m.handleGenerated(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextPane):
		m.focus = (m.focus + 1) % paneCount
		m.digits = ""
		return m, nil
	case key.Matches(msg, m.keys.PrevPane):
		m.focus = (m.focus + paneCount - 1) % paneCount
		m.digits = ""
		return m, nil
	case key.Matches(msg, m.keys.Generate):
		return m, m.startGenerate()
	case key.Matches(msg, m.keys.ResetQuestion):
		m.resetQuestions()
		return m, nil
	case key.Matches(msg, m.keys.ResetHistory):
		m.resetHistory()
		return m, nil
	case key.Matches(msg, m.keys.ResetSelected):
		m.resetSelected()
		return m, nil
	case key.Matches(msg, m.keys.Answers):
		m.showAnswers = !m.showAnswers
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	}

	switch m.focus {
	case paneCategories:
		m.handleCategoryKey(msg)
	case paneQuestions, paneSelected:
		if key.Matches(msg, m.keys.Toggle) {
			m.toggleCurrent()
		}
	}
	return m, nil
}

func (m *Model) handleCategoryKey(msg tea.KeyMsg) {
	name := m.categories[m.cursors[paneCategories]].Name
	current := m.session.Selection.Count(name)
	switch {
	case key.Matches(msg, m.keys.Inc):
		m.digits = ""
		m.setCount(name, current+1)
	case key.Matches(msg, m.keys.Dec):
		m.digits = ""
		m.setCount(name, current-1)
	case msg.Type == tea.KeyBackspace || msg.Type == tea.KeyDelete:
		m.digits = ""
		m.setCount(name, 0)
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '0' && msg.Runes[0] <= '9':
		m.digits += string(msg.Runes[0])
		if len(m.digits) > 2 {
			m.digits = string(msg.Runes[0])
		}
		if err := m.session.Selection.SetCountString(m.ctx, name, m.digits); err != nil {
			m.fail("failed to save category count", err)
		}
	}
}

func (m *Model) setCount(name string, n int) {
	if err := m.session.Selection.SetCount(m.ctx, name, n); err != nil {
		m.fail("failed to save category count", err)
	}
}

func (m *Model) startGenerate() tea.Cmd {
	if m.loading {
		m.notice = quiz.UserMessage(quiz.ErrFetchInProgress)
		return nil
	}
	m.loading = true
	m.errMsg = ""
	m.notice = ""
	fetcher := m.session.Fetcher
	ctx := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		qs, err := fetcher.TryGenerateQuiz(ctx)
		return generatedMsg{questions: qs, err: err}
	})
}

func (m *Model) handleGenerated(msg generatedMsg) {
	m.loading = false
	if msg.err != nil {
		m.log.Error("quiz generation failed", zap.Error(msg.err))
		m.errMsg = quiz.UserMessage(msg.err)
		return
	}
	m.errMsg = ""
	m.cursors[paneQuestions] = 0
	switch {
	case m.session.Selection.Validate() != nil:
		m.notice = quiz.UserMessage(quiz.ErrNoSelection)
	case len(msg.questions) == 0:
		m.notice = "No new questions; everything returned was already shown."
	default:
		m.notice = fmt.Sprintf("Loaded %d new questions.", len(msg.questions))
		m.focus = paneQuestions
	}
}

func (m *Model) resetQuestions() {
	if m.refuseWhileLoading() {
		return
	}
	if err := m.session.Fetcher.ResetQuestions(m.ctx); err != nil {
		m.fail("failed to reset questions", err)
		return
	}
	m.cursors[paneQuestions] = 0
	m.digits = ""
	m.notice = "Questions and category counts reset."
}

func (m *Model) resetHistory() {
	if m.refuseWhileLoading() {
		return
	}
	if err := m.session.Fetcher.ResetHistory(m.ctx); err != nil {
		m.fail("failed to reset history", err)
		return
	}
	m.notice = "History cleared."
}

func (m *Model) resetSelected() {
	if err := m.session.Curator.Reset(m.ctx); err != nil {
		m.fail("failed to reset selected questions", err)
		return
	}
	m.cursors[paneSelected] = 0
	m.notice = "Selected questions cleared."
}

func (m *Model) refuseWhileLoading() bool {
	if m.loading {
		m.notice = quiz.UserMessage(quiz.ErrFetchInProgress)
		return true
	}
	return false
}

func (m *Model) toggleCurrent() {
	items := m.paneItems(m.focus)
	idx := m.cursors[m.focus]
	if idx < 0 || idx >= len(items) {
		return
	}
	if _, err := m.session.Curator.Toggle(m.ctx, items[idx]); err != nil {
		m.fail("failed to save selected questions", err)
		return
	}
	m.clampCursor(paneSelected)
}

func (m *Model) moveCursor(delta int) {
	m.digits = ""
	m.cursors[m.focus] += delta
	m.clampCursor(m.focus)
}

func (m *Model) clampCursor(p pane) {
	n := m.paneLen(p)
	if m.cursors[p] >= n {
		m.cursors[p] = n - 1
	}
	if m.cursors[p] < 0 {
		m.cursors[p] = 0
	}
}

func (m *Model) paneLen(p pane) int {
	if p == paneCategories {
		return len(m.categories)
	}
	return len(m.paneItems(p))
}

func (m *Model) paneItems(p pane) []model.Question {
	switch p {
	case paneQuestions:
		return m.session.Fetcher.Questions()
	case paneSelected:
		return m.session.Curator.Selected()
	default:
		return nil
	}
}

func (m *Model) fail(msg string, err error) {
	m.log.Error(msg, zap.Error(err))
	m.errMsg = fmt.Sprintf("%s: %v", msg, err)
}
