// Package model defines shared data structures.
package model

import "time"

// Config defines runtime settings resolved from flags and the config file.
type Config struct {
	APIURL    string
	Timeout   time.Duration
	DBPath    string
	Ephemeral bool
	LogFile   string
	Verbose   bool
}

// Category is a trivia subject area with its upstream numeric id.
type Category struct {
	Name string
	ID   int
}

// CategorySelection maps category name to the requested question count.
type CategorySelection map[string]int

// Question is a trivia question as returned by the question source, plus a
// synthetic display id. Text fields may contain HTML entities.
type Question struct {
	ID               string   `json:"id,omitempty"`
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Status summarizes persisted state for display.
type Status struct {
	Selection       CategorySelection
	TotalRequested  int
	HistorySize     int
	CurrentCount    int
	SelectedCount   int
	FetchInProgress bool
}
