package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/quizpick/internal/model"
	"github.com/verte-zerg/quizpick/internal/render"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	categoryWidth = 30
	detailLines   = 3
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	focusStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8FF9"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// View implements tea.Model.
func (m *Model) View() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	// title + blank + body + status + help
	bodyHeight := height - 4
	if bodyHeight < 6 {
		bodyHeight = 6
	}
	rightWidth := width - categoryWidth - 2
	if rightWidth < 20 {
		rightWidth = 20
	}

	left := m.renderCategories(categoryWidth, bodyHeight)
	right := m.renderQuestionPanes(rightWidth, bodyHeight)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(categoryWidth).Render(left),
		"  ",
		lipgloss.NewStyle().Width(rightWidth).Render(right),
	)

	title := titleStyle.Render("quizpick") + dimStyle.Render(" · custom quiz by category")
	return strings.Join([]string{
		title,
		"",
		body,
		m.renderFooter(),
		m.help.ShortHelpView(m.keys.forPane(m.focus)),
	}, "\n")
}

func (m *Model) renderCategories(width, height int) string {
	lines := []string{m.paneTitle(paneCategories, "Categories")}
	start, end := window(m.cursors[paneCategories], len(m.categories), height-1)
	for i := start; i < end; i++ {
		c := m.categories[i]
		count := m.session.Selection.Count(c.Name)
		name := render.Truncate(c.Name, width-7)
		line := fmt.Sprintf("%s %s %3d", m.marker(paneCategories, i), padRight(name, width-7), count)
		switch {
		case m.focus == paneCategories && i == m.cursors[paneCategories]:
			line = cursorStyle.Render(line)
		case count == 0:
			line = dimStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderQuestionPanes(width, height int) string {
	listHeight := height - detailLines - 1
	questionsHeight := listHeight / 2
	selectedHeight := listHeight - questionsHeight

	questions := m.session.Fetcher.Questions()
	selected := m.session.Curator.Selected()

	var lines []string
	lines = append(lines, m.renderList(paneQuestions, fmt.Sprintf("Questions (%d)", len(questions)), questions, width, questionsHeight)...)
	lines = append(lines, m.renderList(paneSelected, fmt.Sprintf("Selected (%d)", len(selected)), selected, width, selectedHeight)...)
	lines = append(lines, "")
	lines = append(lines, m.renderDetail(width)...)
	return strings.Join(lines, "\n")
}

func (m *Model) renderList(p pane, title string, items []model.Question, width, height int) []string {
	lines := []string{m.paneTitle(p, title)}
	if len(items) == 0 {
		lines = append(lines, dimStyle.Render("  (none)"))
		return padLines(lines, height)
	}
	start, end := window(m.cursors[p], len(items), height-1)
	for i := start; i < end; i++ {
		q := items[i]
		mark := "○"
		if m.session.Curator.IsSelected(q.Question) {
			mark = "●"
		}
		text := render.PlainText(q.Question)
		if m.showAnswers && p == paneSelected {
			text += " → " + render.PlainText(q.CorrectAnswer)
		}
		line := fmt.Sprintf("%s %s %s", m.marker(p, i), mark, render.Truncate(text, width-4))
		switch {
		case m.focus == p && i == m.cursors[p]:
			line = cursorStyle.Render(line)
		case mark == "●" && p == paneQuestions:
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return padLines(lines, height)
}

func (m *Model) renderDetail(width int) []string {
	items := m.paneItems(m.focus)
	idx := m.cursors[m.focus]
	if idx < 0 || idx >= len(items) {
		return nil
	}
	q := items[idx]
	header := headerStyle.Render(fmt.Sprintf("%s · %s", render.PlainText(q.Category), q.Difficulty))
	wrapped := render.Wrap(render.PlainText(q.Question), width)
	if len(wrapped) > detailLines-1 {
		wrapped = wrapped[:detailLines-1]
	}
	lines := append([]string{header}, wrapped...)
	if m.showAnswers {
		lines = append(lines, answerStyle.Render("→ "+render.PlainText(q.CorrectAnswer)))
	}
	return lines
}

func (m *Model) renderFooter() string {
	st := m.session.Status()
	footer := fmt.Sprintf("Total questions selected: %d · History: %d · Selected: %d",
		st.TotalRequested, st.HistorySize, st.SelectedCount)
	switch {
	case m.loading:
		footer += " · " + m.spinner.View() + " Loading…"
	case m.errMsg != "":
		return footerStyle.Render(footer+" · ") + errorStyle.Render(m.errMsg)
	case m.notice != "":
		footer += " · " + m.notice
	}
	return footerStyle.Render(footer)
}

func (m *Model) paneTitle(p pane, title string) string {
	if m.focus == p {
		return focusStyle.Render(title)
	}
	return headerStyle.Render(title)
}

func (m *Model) marker(p pane, i int) string {
	if m.focus == p && i == m.cursors[p] {
		return "›"
	}
	return " "
}

// window returns the visible [start, end) range keeping cursor on screen.
func window(cursor, total, height int) (int, int) {
	if height <= 0 || total <= 0 {
		return 0, 0
	}
	if total <= height {
		return 0, total
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}

func padRight(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

func padLines(lines []string, height int) []string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}
