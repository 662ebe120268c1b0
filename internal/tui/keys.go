package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up            key.Binding
	Down          key.Binding
	Inc           key.Binding
	Dec           key.Binding
	Toggle        key.Binding
	NextPane      key.Binding
	PrevPane      key.Binding
	Generate      key.Binding
	ResetQuestion key.Binding
	ResetHistory  key.Binding
	ResetSelected key.Binding
	Answers       key.Binding
	Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Inc:           key.NewBinding(key.WithKeys("right", "l", "+", "="), key.WithHelp("→/+", "more")),
		Dec:           key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←/-", "fewer")),
		Toggle:        key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		NextPane:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		PrevPane:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		Generate:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
		ResetQuestion: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset questions")),
		ResetHistory:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "reset history")),
		ResetSelected: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "reset selected")),
		Answers:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "answers")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) forPane(p pane) []key.Binding {
	switch p {
	case paneCategories:
		return []key.Binding{k.Up, k.Down, k.Inc, k.Dec, k.Generate, k.ResetQuestion, k.ResetHistory, k.NextPane, k.Quit}
	case paneQuestions:
		return []key.Binding{k.Up, k.Down, k.Toggle, k.Generate, k.Answers, k.NextPane, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Toggle, k.ResetSelected, k.Answers, k.NextPane, k.Quit}
	}
}
