package quiz

import "sync"

// Change identifies which persisted root was modified.
type Change int

const (
	ChangeSelection Change = iota + 1
	ChangeQuestions
	ChangeHistory
	ChangeSelected
	ChangeFetchState
)

func (c Change) String() string {
	switch c {
	case ChangeSelection:
		return "selection"
	case ChangeQuestions:
		return "questions"
	case ChangeHistory:
		return "history"
	case ChangeSelected:
		return "selected"
	case ChangeFetchState:
		return "fetch-state"
	default:
		return "unknown"
	}
}

// Events fans out change notifications to subscribers. A nil *Events drops
// every notification.
type Events struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Change)
}

// NewEvents returns an empty hub.
func NewEvents() *Events {
	return &Events{subs: map[int]func(Change){}}
}

// Subscribe registers fn and returns a function that removes it.
func (e *Events) Subscribe(fn func(Change)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.next
	e.next++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

func (e *Events) publish(c Change) {
	if e == nil {
		return
	}
	e.mu.Lock()
	fns := make([]func(Change), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}
