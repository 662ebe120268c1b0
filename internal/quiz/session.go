// Package quiz implements quiz state: per-category counts, fetched questions
// deduplicated against history, and the user's curated selection.
package quiz

import (
	"context"

	"github.com/verte-zerg/quizpick/internal/model"
	"github.com/verte-zerg/quizpick/internal/store"
)

// Session wires every store over one KV.
type Session struct {
	Selection *Selection
	History   *History
	Fetcher   *Fetcher
	Curator   *Curator

	events *Events
}

// Open loads all persisted state from kv.
func Open(ctx context.Context, kv store.KV, source QuestionSource, opts ...Option) (*Session, error) {
	events := NewEvents()
	opts = append([]Option{WithEvents(events)}, opts...)

	selection, err := LoadSelection(ctx, kv, opts...)
	if err != nil {
		return nil, err
	}
	history, err := LoadHistory(ctx, kv, opts...)
	if err != nil {
		return nil, err
	}
	fetcher, err := LoadFetcher(ctx, kv, source, selection, history, opts...)
	if err != nil {
		return nil, err
	}
	curator, err := LoadCurator(ctx, kv, opts...)
	if err != nil {
		return nil, err
	}
	return &Session{
		Selection: selection,
		History:   history,
		Fetcher:   fetcher,
		Curator:   curator,
		events:    events,
	}, nil
}

// Subscribe registers fn for change notifications.
func (s *Session) Subscribe(fn func(Change)) (unsubscribe func()) {
	return s.events.Subscribe(fn)
}

// Status returns a snapshot of counts for display.
func (s *Session) Status() model.Status {
	return model.Status{
		Selection:       s.Selection.All(),
		TotalRequested:  s.Selection.Total(),
		HistorySize:     s.History.Len(),
		CurrentCount:    len(s.Fetcher.Questions()),
		SelectedCount:   s.Curator.Len(),
		FetchInProgress: s.Fetcher.InFlight(),
	}
}
