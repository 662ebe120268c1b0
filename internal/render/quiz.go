package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/quizpick/internal/category"
	"github.com/verte-zerg/quizpick/internal/model"
)

// Options controls list rendering.
type Options struct {
	Width       int
	Color       bool
	ShowAnswers bool
}

var (
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// Categories writes every category with its requested count.
func Categories(w io.Writer, sel model.CategorySelection) error {
	rows := make([][]string, 0, len(sel))
	total := 0
	for _, c := range category.All() {
		n := sel[c.Name]
		total += n
		rows = append(rows, []string{c.Name, strconv.Itoa(c.ID), strconv.Itoa(n)})
	}
	lines := FormatTable([]string{"Category", "ID", "Count"}, rows, map[int]bool{1: true, 2: true})
	lines = append(lines, fmt.Sprintf("Total questions selected: %d", total))
	return writeLines(w, lines)
}

// Questions writes a numbered question list. isSelected may be nil.
func Questions(w io.Writer, qs []model.Question, isSelected func(string) bool, opts Options) error {
	if len(qs) == 0 {
		return writeLines(w, []string{"No questions."})
	}
	numWidth := len(strconv.Itoa(len(qs)))
	lines := make([]string, 0, len(qs))
	for i, q := range qs {
		mark := " "
		if isSelected != nil && isSelected(q.Question) {
			mark = "*"
			if opts.Color {
				mark = markStyle.Render(mark)
			}
		}
		prefix := fmt.Sprintf("%s %*d. ", mark, numWidth, i+1)
		indent := strings.Repeat(" ", 2+numWidth+2)
		text := PlainText(q.Question)
		if q.Category != "" {
			text = fmt.Sprintf("[%s] %s", PlainText(q.Category), text)
		}
		for j, line := range Wrap(text, opts.Width-len(indent)) {
			if j == 0 {
				lines = append(lines, prefix+line)
			} else {
				lines = append(lines, indent+line)
			}
		}
		if opts.ShowAnswers {
			answer := "→ " + PlainText(q.CorrectAnswer)
			if opts.Color {
				answer = answerStyle.Render(answer)
			}
			lines = append(lines, indent+answer)
		}
	}
	return writeLines(w, lines)
}

// Status writes the summary counters.
func Status(w io.Writer, st model.Status) error {
	rows := [][]string{
		{"Requested", strconv.Itoa(st.TotalRequested)},
		{"Current questions", strconv.Itoa(st.CurrentCount)},
		{"History", strconv.Itoa(st.HistorySize)},
		{"Selected", strconv.Itoa(st.SelectedCount)},
	}
	return writeLines(w, FormatTable(nil, rows, map[int]bool{1: true}))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
