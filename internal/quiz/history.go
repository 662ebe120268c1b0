package quiz

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/verte-zerg/quizpick/internal/store"
)

// History records every question text ever shown. It only grows, except
// through Reset.
type History struct {
	kv     store.KV
	log    *zap.Logger
	events *Events

	mu    sync.RWMutex
	texts []string
	seen  map[string]struct{}
}

// LoadHistory reads persisted history. Duplicate entries are collapsed.
func LoadHistory(ctx context.Context, kv store.KV, opts ...Option) (*History, error) {
	o := buildOptions(opts)
	texts, _, err := loadJSON[[]string](ctx, kv, o.log, KeyHistory)
	if err != nil {
		return nil, err
	}
	h := &History{kv: kv, log: o.log, events: o.events}
	h.apply(dedupTexts(texts))
	return h, nil
}

// Contains reports whether text has been shown before.
func (h *History) Contains(text string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.seen[text]
	return ok
}

// Len returns the number of recorded texts.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.texts)
}

// Texts returns recorded texts in insertion order.
func (h *History) Texts() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.texts...)
}

// Reset clears the history.
func (h *History) Reset(ctx context.Context) error {
	if err := h.kv.Remove(ctx, KeyHistory); err != nil {
		return fmt.Errorf("failed to reset history: %w", err)
	}
	h.apply(nil)
	h.log.Info("history cleared")
	h.events.publish(ChangeHistory)
	return nil
}

// extend returns the history that results from appending texts, without
// changing h.
func (h *History) extend(texts []string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	next := make([]string, 0, len(h.texts)+len(texts))
	next = append(next, h.texts...)
	return append(next, texts...)
}

func (h *History) apply(texts []string) {
	seen := make(map[string]struct{}, len(texts))
	for _, t := range texts {
		seen[t] = struct{}{}
	}
	h.mu.Lock()
	h.texts = texts
	h.seen = seen
	h.mu.Unlock()
}

func dedupTexts(texts []string) []string {
	seen := make(map[string]struct{}, len(texts))
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
