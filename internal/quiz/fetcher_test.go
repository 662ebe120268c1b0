package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/quizpick/internal/model"
	"github.com/verte-zerg/quizpick/internal/store"
)

const (
	historyID = 23
	scienceID = 17
)

func TestGenerateQuizFreshHistory(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	src := newFakeSource()
	src.results[historyID] = []model.Question{q("Q1"), q("Q2")}
	s := openSession(t, kv, src)
	require.NoError(t, s.Selection.SetCount(ctx, "History", 2))
	require.NoError(t, s.Selection.SetCount(ctx, "Science & Nature", 0))

	got, err := s.Fetcher.GenerateQuiz(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Q1", "Q2"}, texts(got))
	assert.Equal(t, "id-1", got[0].ID)
	assert.Equal(t, "id-2", got[1].ID)
	assert.Equal(t, got, s.Fetcher.Questions())
	assert.Equal(t, []string{"Q1", "Q2"}, s.History.Texts())
	assert.Equal(t, map[int]int{historyID: 2}, src.calls, "only non-zero categories are fetched")

	raw, ok, err := kv.Get(ctx, KeyQuestions)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted []model.Question
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, got, persisted)

	raw, ok, err = kv.Get(ctx, KeyHistory)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["Q1","Q2"]`, raw)
}

func TestGenerateQuizSkipsHistory(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Set(ctx, KeyHistory, `["Q1"]`))
	src := newFakeSource()
	src.results[historyID] = []model.Question{q("Q1"), q("Q2")}
	s := openSession(t, kv, src)
	require.NoError(t, s.Selection.SetCount(ctx, "History", 2))

	got, err := s.Fetcher.GenerateQuiz(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Q2"}, texts(got))
	assert.Equal(t, []string{"Q1", "Q2"}, s.History.Texts())
}

func TestGenerateQuizDedupInvariantAndMonotonicHistory(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	s := openSession(t, store.NewMemory(), src)
	require.NoError(t, s.Selection.SetCount(ctx, "History", 3))
	require.NoError(t, s.Selection.SetCount(ctx, "Science & Nature", 3))

	batches := []struct {
		history []model.Question
		science []model.Question
	}{
		{[]model.Question{q("A"), q("B")}, []model.Question{q("C")}},
		{[]model.Question{q("B"), q("D")}, []model.Question{q("A"), q("E")}},
		{[]model.Question{q("A"), q("B")}, []model.Question{q("C"), q("D")}},
	}
	for i, b := range batches {
		src.results[historyID] = b.history
		src.results[scienceID] = b.science
		before := s.History.Texts()
		beforeSet := map[string]bool{}
		for _, text := range before {
			beforeSet[text] = true
		}

		got, err := s.Fetcher.GenerateQuiz(ctx)
		require.NoError(t, err, "batch %d", i)

		for _, g := range got {
			assert.False(t, beforeSet[g.Question], "batch %d returned already shown %q", i, g.Question)
		}
		after := s.History.Texts()
		assert.Subset(t, after, before, "batch %d shrank history", i)
	}
	assert.Empty(t, s.Fetcher.Questions(), "third batch only repeats old questions")
	assert.ElementsMatch(t, []string{"A", "B", "C", "D", "E"}, s.History.Texts())
}

func TestGenerateQuizOrderAndBatchDuplicates(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.results[historyID] = []model.Question{q("H1"), q("shared"), q("H2")}
	src.results[scienceID] = []model.Question{q("S1"), q("shared")}
	s := openSession(t, store.NewMemory(), src)
	require.NoError(t, s.Selection.SetCount(ctx, "History", 3))
	require.NoError(t, s.Selection.SetCount(ctx, "Science & Nature", 2))

	got, err := s.Fetcher.GenerateQuiz(ctx)
	require.NoError(t, err)

	// Science & Nature (17) comes before History (23) in the category table.
	assert.Equal(t, []string{"S1", "shared", "H1", "H2"}, texts(got))
	ids := map[string]bool{}
	for _, g := range got {
		assert.False(t, ids[g.ID], "duplicate id %s", g.ID)
		ids[g.ID] = true
	}
	assert.Len(t, s.History.Texts(), 4)
}

func TestGenerateQuizFailureIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	src := newFakeSource()
	src.results[historyID] = []model.Question{q("old")}
	s := openSession(t, kv, src)
	require.NoError(t, s.Selection.SetCount(ctx, "History", 1))
	_, err := s.Fetcher.GenerateQuiz(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Selection.SetCount(ctx, "Science & Nature", 2))
	src.results[historyID] = []model.Question{q("new")}
	src.fail[scienceID] = errors.New("connection reset")

	beforeKV := snapshotKV(t, kv, KeyQuestions, KeyHistory)
	beforeQuestions := s.Fetcher.Questions()
	beforeHistory := s.History.Texts()

	got, err := s.Fetcher.GenerateQuiz(ctx)
	require.ErrorIs(t, err, ErrFetchFailure)
	assert.Nil(t, got)
	assert.Equal(t, "Failed to load questions.", UserMessage(err))

	assert.Equal(t, beforeKV, snapshotKV(t, kv, KeyQuestions, KeyHistory))
	assert.Equal(t, beforeQuestions, s.Fetcher.Questions())
	assert.Equal(t, beforeHistory, s.History.Texts())
	assert.False(t, s.History.Contains("new"))
}

func TestGenerateQuizStorageFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Memory: store.NewMemory()}
	src := newFakeSource()
	src.results[historyID] = []model.Question{q("Q1")}
	s := openSession(t, kv, src)
	require.NoError(t, s.Selection.SetCount(ctx, "History", 1))

	kv.failSetMany = true
	_, err := s.Fetcher.GenerateQuiz(ctx)
	require.ErrorIs(t, err, errDisk)
	assert.Empty(t, s.Fetcher.Questions())
	assert.Zero(t, s.History.Len())
}

func TestGenerateQuizFetchesConcurrently(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.started = make(chan int)
	src.release = make(chan struct{})
	src.results[historyID] = []model.Question{q("H")}
	src.results[scienceID] = []model.Question{q("S")}
	src.results[9] = []model.Question{q("G")}
	s := openSession(t, store.NewMemory(), src)
	for _, name := range []string{"History", "Science & Nature", "General Knowledge"} {
		require.NoError(t, s.Selection.SetCount(ctx, name, 1))
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.Fetcher.GenerateQuiz(ctx)
		done <- err
	}()

	// All three calls must be in flight at once before any is released.
	for i := 0; i < 3; i++ {
		select {
		case <-src.started:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of 3 fetches started concurrently", i)
		}
	}
	assert.True(t, s.Fetcher.InFlight())

	_, err := s.Fetcher.TryGenerateQuiz(ctx)
	assert.ErrorIs(t, err, ErrFetchInProgress)

	close(src.release)
	require.NoError(t, <-done)
	assert.False(t, s.Fetcher.InFlight())
	assert.Equal(t, []string{"G", "S", "H"}, texts(s.Fetcher.Questions()))
}

func TestGenerateQuizEmptySelection(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.results[historyID] = []model.Question{q("Q1")}
	s := openSession(t, store.NewMemory(), src)
	require.NoError(t, s.Selection.SetCount(ctx, "History", 1))
	_, err := s.Fetcher.GenerateQuiz(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Selection.SetCount(ctx, "History", 0))

	got, err := s.Fetcher.GenerateQuiz(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, s.Fetcher.Questions())
	assert.Equal(t, []string{"Q1"}, s.History.Texts())
}

func TestGenerateQuizEmptyCategoryResult(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.results[scienceID] = []model.Question{q("S1")}
	s := openSession(t, store.NewMemory(), src)
	require.NoError(t, s.Selection.SetCount(ctx, "History", 5))
	require.NoError(t, s.Selection.SetCount(ctx, "Science & Nature", 1))

	got, err := s.Fetcher.GenerateQuiz(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1"}, texts(got))
}

func TestResetQuestions(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	src := newFakeSource()
	src.results[historyID] = []model.Question{q("Q1"), q("Q2")}
	s := openSession(t, kv, src)
	require.NoError(t, s.Selection.SetCount(ctx, "History", 2))
	_, err := s.Fetcher.GenerateQuiz(ctx)
	require.NoError(t, err)
	historyBefore := snapshotKV(t, kv, KeyHistory)

	require.NoError(t, s.Fetcher.ResetQuestions(ctx))

	assert.Empty(t, s.Fetcher.Questions())
	assert.Zero(t, s.Selection.Total())
	assert.Equal(t, []string{"Q1", "Q2"}, s.History.Texts())
	assert.Equal(t, historyBefore, snapshotKV(t, kv, KeyHistory))
	_, ok, _ := kv.Get(ctx, KeyQuestions)
	assert.False(t, ok)

	reloaded := openSession(t, kv, src)
	assert.Empty(t, reloaded.Fetcher.Questions())
	assert.Zero(t, reloaded.Selection.Total())
	assert.Equal(t, 2, reloaded.History.Len())
}

func TestResetHistory(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	src := newFakeSource()
	src.results[historyID] = []model.Question{q("Q1")}
	s := openSession(t, kv, src)
	require.NoError(t, s.Selection.SetCount(ctx, "History", 1))
	_, err := s.Fetcher.GenerateQuiz(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Fetcher.ResetHistory(ctx))
	assert.Zero(t, s.History.Len())
	assert.Len(t, s.Fetcher.Questions(), 1)
	assert.Equal(t, 1, s.Selection.Total())
	_, ok, _ := kv.Get(ctx, KeyHistory)
	assert.False(t, ok)

	// Previously shown questions become eligible again.
	got, err := s.Fetcher.GenerateQuiz(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1"}, texts(got))
}

func TestLoadFetcherIgnoresCorruptQuestions(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Set(ctx, KeyQuestions, `[{"question":`))
	require.NoError(t, kv.Set(ctx, KeyHistory, `not json`))
	s := openSession(t, kv, newFakeSource())
	assert.Empty(t, s.Fetcher.Questions())
	assert.Zero(t, s.History.Len())
}
