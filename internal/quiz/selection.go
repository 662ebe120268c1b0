package quiz

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/verte-zerg/quizpick/internal/category"
	"github.com/verte-zerg/quizpick/internal/model"
	"github.com/verte-zerg/quizpick/internal/store"
)

// Request is one category with a non-zero requested count.
type Request struct {
	Category model.Category
	Count    int
}

// Selection holds the requested question count for every category.
type Selection struct {
	kv     store.KV
	log    *zap.Logger
	events *Events

	mu     sync.RWMutex
	counts model.CategorySelection
}

// LoadSelection reads the persisted selection, defaulting every category to 0.
func LoadSelection(ctx context.Context, kv store.KV, opts ...Option) (*Selection, error) {
	o := buildOptions(opts)
	raw, _, err := loadJSON[map[string]float64](ctx, kv, o.log, KeySelection)
	if err != nil {
		return nil, err
	}
	counts := zeroSelection()
	for name, v := range raw {
		if _, ok := counts[name]; !ok {
			o.log.Debug("dropping unknown persisted category", zap.String("category", name))
			continue
		}
		counts[name] = coerceCount(v)
	}
	return &Selection{kv: kv, log: o.log, events: o.events, counts: counts}, nil
}

// SetCount stores a clamped count for one category.
func (s *Selection) SetCount(ctx context.Context, name string, value int) error {
	if _, ok := category.Lookup(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	s.mu.Lock()
	next := make(model.CategorySelection, len(s.counts))
	for k, v := range s.counts {
		next[k] = v
	}
	next[name] = category.Clamp(value)
	err := s.persistLocked(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.events.publish(ChangeSelection)
	return nil
}

// SetCountString coerces free-form input to a count before storing it.
// Non-numeric input counts as 0 and fractions are truncated.
func (s *Selection) SetCountString(ctx context.Context, name, raw string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		v = 0
	}
	return s.SetCount(ctx, name, coerceCount(v))
}

// ResetAll sets every category back to 0.
func (s *Selection) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	err := s.persistLocked(ctx, zeroSelection())
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.events.publish(ChangeSelection)
	return nil
}

// All returns a copy of the full mapping, zero entries included.
func (s *Selection) All() model.CategorySelection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(model.CategorySelection, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Count returns the requested count for one category.
func (s *Selection) Count(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[name]
}

// Requested lists categories with a non-zero count in category table order.
func (s *Selection) Requested() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Request
	for _, c := range category.All() {
		if n := s.counts[c.Name]; n > 0 {
			out = append(out, Request{Category: c, Count: n})
		}
	}
	return out
}

// Total sums all requested counts.
func (s *Selection) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, v := range s.counts {
		total += v
	}
	return total
}

// Validate returns ErrNoSelection when no category has a count.
func (s *Selection) Validate() error {
	if s.Total() == 0 {
		return ErrNoSelection
	}
	return nil
}

func (s *Selection) persistLocked(ctx context.Context, next model.CategorySelection) error {
	blob, err := encodeJSON(KeySelection, next)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, KeySelection, blob); err != nil {
		return fmt.Errorf("failed to save category selection: %w", err)
	}
	s.counts = next
	return nil
}

// apply replaces in-memory counts after an external atomic write.
func (s *Selection) apply(next model.CategorySelection) {
	s.mu.Lock()
	s.counts = next
	s.mu.Unlock()
}

func zeroSelection() model.CategorySelection {
	names := category.Names()
	out := make(model.CategorySelection, len(names))
	for _, name := range names {
		out[name] = 0
	}
	return out
}

func coerceCount(v float64) int {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= category.MaxCount:
		return category.MaxCount
	}
	return int(v)
}
