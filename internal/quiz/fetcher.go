package quiz

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/quizpick/internal/model"
	"github.com/verte-zerg/quizpick/internal/store"
)

// QuestionSource fetches questions for one category.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, categoryID, count int) ([]model.Question, error)
}

// Fetcher runs quiz batches: fan out per category, drop questions already in
// history, then replace the current question set and extend history together.
type Fetcher struct {
	kv        store.KV
	source    QuestionSource
	selection *Selection
	history   *History
	log       *zap.Logger
	events    *Events
	newID     func() string

	// run serializes batches and resets.
	run      sync.Mutex
	inFlight atomic.Bool

	mu      sync.RWMutex
	current []model.Question
}

// LoadFetcher reads the persisted current question set.
func LoadFetcher(ctx context.Context, kv store.KV, source QuestionSource, selection *Selection, history *History, opts ...Option) (*Fetcher, error) {
	o := buildOptions(opts)
	current, _, err := loadJSON[[]model.Question](ctx, kv, o.log, KeyQuestions)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		kv:        kv,
		source:    source,
		selection: selection,
		history:   history,
		log:       o.log,
		events:    o.events,
		newID:     o.newID,
		current:   current,
	}, nil
}

// Questions returns the current question set.
func (f *Fetcher) Questions() []model.Question {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]model.Question(nil), f.current...)
}

// InFlight reports whether a batch is running.
func (f *Fetcher) InFlight() bool {
	return f.inFlight.Load()
}

// GenerateQuiz runs one batch, waiting for any batch already running.
func (f *Fetcher) GenerateQuiz(ctx context.Context) ([]model.Question, error) {
	f.run.Lock()
	defer f.run.Unlock()
	return f.generate(ctx)
}

// TryGenerateQuiz runs one batch, or returns ErrFetchInProgress if one is
// already running.
func (f *Fetcher) TryGenerateQuiz(ctx context.Context) ([]model.Question, error) {
	if !f.run.TryLock() {
		return nil, ErrFetchInProgress
	}
	defer f.run.Unlock()
	return f.generate(ctx)
}

func (f *Fetcher) generate(ctx context.Context) ([]model.Question, error) {
	f.inFlight.Store(true)
	f.events.publish(ChangeFetchState)
	defer func() {
		f.inFlight.Store(false)
		f.events.publish(ChangeFetchState)
	}()

	requests := f.selection.Requested()
	start := time.Now()

	// Every request runs to completion; Wait reports the first failure.
	results := make([][]model.Question, len(requests))
	var g errgroup.Group
	for i, req := range requests {
		g.Go(func() error {
			qs, err := f.source.FetchQuestions(ctx, req.Category.ID, req.Count)
			if err != nil {
				f.log.Warn("category fetch failed",
					zap.String("category", req.Category.Name),
					zap.Int("count", req.Count),
					zap.Error(err),
				)
				return err
			}
			results[i] = qs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailure, err)
	}

	fresh := make([]model.Question, 0)
	texts := make([]string, 0)
	batch := make(map[string]struct{})
	fetched := 0
	for _, qs := range results {
		for _, q := range qs {
			fetched++
			if f.history.Contains(q.Question) {
				continue
			}
			if _, dup := batch[q.Question]; dup {
				continue
			}
			batch[q.Question] = struct{}{}
			q.ID = f.newID()
			fresh = append(fresh, q)
			texts = append(texts, q.Question)
		}
	}

	nextHistory := f.history.extend(texts)
	questionsBlob, err := encodeJSON(KeyQuestions, fresh)
	if err != nil {
		return nil, err
	}
	historyBlob, err := encodeJSON(KeyHistory, nextHistory)
	if err != nil {
		return nil, err
	}
	if err := f.kv.SetMany(ctx, map[string]string{
		KeyQuestions: questionsBlob,
		KeyHistory:   historyBlob,
	}, nil); err != nil {
		return nil, fmt.Errorf("failed to save questions: %w", err)
	}

	f.setCurrent(fresh)
	f.history.apply(nextHistory)

	f.log.Info("quiz generated",
		zap.Int("categories", len(requests)),
		zap.Int("fetched", fetched),
		zap.Int("new", len(fresh)),
		zap.Int("history", len(nextHistory)),
		zap.Duration("elapsed", time.Since(start)),
	)
	f.events.publish(ChangeQuestions)
	if len(texts) > 0 {
		f.events.publish(ChangeHistory)
	}
	return append([]model.Question(nil), fresh...), nil
}

// ResetQuestions clears the current question set and zeroes the category
// selection. History is kept.
func (f *Fetcher) ResetQuestions(ctx context.Context) error {
	f.run.Lock()
	defer f.run.Unlock()

	zero := zeroSelection()
	blob, err := encodeJSON(KeySelection, zero)
	if err != nil {
		return err
	}
	if err := f.kv.SetMany(ctx, map[string]string{KeySelection: blob}, []string{KeyQuestions}); err != nil {
		return fmt.Errorf("failed to reset questions: %w", err)
	}
	f.setCurrent(nil)
	f.selection.apply(zero)
	f.log.Info("questions reset")
	f.events.publish(ChangeQuestions)
	f.events.publish(ChangeSelection)
	return nil
}

// ResetHistory clears history only.
func (f *Fetcher) ResetHistory(ctx context.Context) error {
	f.run.Lock()
	defer f.run.Unlock()
	return f.history.Reset(ctx)
}

func (f *Fetcher) setCurrent(qs []model.Question) {
	f.mu.Lock()
	f.current = qs
	f.mu.Unlock()
}
