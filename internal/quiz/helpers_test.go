package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/quizpick/internal/model"
	"github.com/verte-zerg/quizpick/internal/store"
)

type fakeSource struct {
	mu      sync.Mutex
	results map[int][]model.Question
	fail    map[int]error
	calls   map[int]int

	// started and release, when set, make every call block until released.
	started chan int
	release chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		results: map[int][]model.Question{},
		fail:    map[int]error{},
		calls:   map[int]int{},
	}
}

func (f *fakeSource) FetchQuestions(_ context.Context, categoryID, count int) ([]model.Question, error) {
	f.mu.Lock()
	f.calls[categoryID] = count
	res := f.results[categoryID]
	err := f.fail[categoryID]
	f.mu.Unlock()

	if f.started != nil {
		f.started <- categoryID
		<-f.release
	}
	if err != nil {
		return nil, err
	}
	return append([]model.Question(nil), res...), nil
}

// failingKV wraps Memory and fails selected operations.
type failingKV struct {
	*store.Memory
	failSet     bool
	failSetMany bool
}

var errDisk = errors.New("disk full")

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errDisk
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *failingKV) SetMany(ctx context.Context, set map[string]string, remove []string) error {
	if f.failSetMany {
		return errDisk
	}
	return f.Memory.SetMany(ctx, set, remove)
}

func q(text string) model.Question {
	return model.Question{
		Category:         "History",
		Type:             "multiple",
		Difficulty:       "easy",
		Question:         text,
		CorrectAnswer:    "answer to " + text,
		IncorrectAnswers: []string{"a", "b", "c"},
	}
}

func openSession(t *testing.T, kv store.KV, src QuestionSource) *Session {
	t.Helper()
	n := 0
	s, err := Open(context.Background(), kv, src, WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	require.NoError(t, err)
	return s
}

func snapshotKV(t *testing.T, kv store.KV, keys ...string) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, key := range keys {
		v, ok, err := kv.Get(context.Background(), key)
		require.NoError(t, err)
		if ok {
			out[key] = v
		}
	}
	return out
}

func texts(qs []model.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Question
	}
	return out
}
