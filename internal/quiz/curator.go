package quiz

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/verte-zerg/quizpick/internal/model"
	"github.com/verte-zerg/quizpick/internal/store"
)

// Curator owns the user's hand-picked questions, keyed by question text.
// Entries outlive the current question set they were picked from.
type Curator struct {
	kv     store.KV
	log    *zap.Logger
	events *Events

	mu       sync.RWMutex
	selected []model.Question
	index    map[string]struct{}
}

// LoadCurator reads the persisted selection.
func LoadCurator(ctx context.Context, kv store.KV, opts ...Option) (*Curator, error) {
	o := buildOptions(opts)
	selected, _, err := loadJSON[[]model.Question](ctx, kv, o.log, KeySelected)
	if err != nil {
		return nil, err
	}
	c := &Curator{kv: kv, log: o.log, events: o.events}
	c.apply(dedupQuestions(selected))
	return c, nil
}

// Toggle removes q if a question with the same text is selected, otherwise
// appends it. It reports whether q is selected afterwards.
func (c *Curator) Toggle(ctx context.Context, q model.Question) (bool, error) {
	c.mu.Lock()
	_, exists := c.index[q.Question]
	next := make([]model.Question, 0, len(c.selected)+1)
	if exists {
		for _, s := range c.selected {
			if s.Question != q.Question {
				next = append(next, s)
			}
		}
	} else {
		next = append(next, c.selected...)
		next = append(next, q)
	}
	blob, err := encodeJSON(KeySelected, next)
	if err == nil {
		err = c.kv.Set(ctx, KeySelected, blob)
	}
	if err != nil {
		c.mu.Unlock()
		return exists, fmt.Errorf("failed to save selected questions: %w", err)
	}
	c.applyLocked(next)
	c.mu.Unlock()

	c.log.Debug("question toggled", zap.Bool("selected", !exists), zap.Int("total", len(next)))
	c.events.publish(ChangeSelected)
	return !exists, nil
}

// Reset clears the selection.
func (c *Curator) Reset(ctx context.Context) error {
	if err := c.kv.Remove(ctx, KeySelected); err != nil {
		return fmt.Errorf("failed to reset selected questions: %w", err)
	}
	c.apply(nil)
	c.events.publish(ChangeSelected)
	return nil
}

// IsSelected reports whether a question with this text is selected.
func (c *Curator) IsSelected(text string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[text]
	return ok
}

// Selected returns selected questions in the order they were picked.
func (c *Curator) Selected() []model.Question {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Question(nil), c.selected...)
}

// Len returns the number of selected questions.
func (c *Curator) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.selected)
}

func (c *Curator) apply(qs []model.Question) {
	c.mu.Lock()
	c.applyLocked(qs)
	c.mu.Unlock()
}

func (c *Curator) applyLocked(qs []model.Question) {
	index := make(map[string]struct{}, len(qs))
	for _, q := range qs {
		index[q.Question] = struct{}{}
	}
	c.selected = qs
	c.index = index
}

func dedupQuestions(qs []model.Question) []model.Question {
	seen := make(map[string]struct{}, len(qs))
	out := make([]model.Question, 0, len(qs))
	for _, q := range qs {
		if _, ok := seen[q.Question]; ok {
			continue
		}
		seen[q.Question] = struct{}{}
		out = append(out, q)
	}
	return out
}
