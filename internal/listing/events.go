package listing

import "sync"

type EventType string

const (
	EventLoaded     EventType = "loaded"
	EventCreated    EventType = "created"
	EventUpdated    EventType = "updated"
	EventDeleted    EventType = "deleted"
	EventFailed     EventType = "failed"
	EventBatchBegin EventType = "batch_begin"
	EventBatchEnd   EventType = "batch_end"
)

const (
	OpQuery  = "query"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Event reports something a Controller did. Total is set on EventBatchBegin
// and EventBatchEnd. A batch sends no per-item events; its outcome travels
// on EventBatchEnd as Succeeded, Deleted and Failed.
type Event struct {
	Type      EventType
	Kind      string
	Label     string
	Plural    string
	ID        int64
	Op        string
	Err       error
	Failure   Failure
	Total     int
	Succeeded int
	Deleted   []int64
	Failed    []ItemFailure
}

const eventBuffer = 64

// emitter fans events out to subscribers. Sends never block: a subscriber
// that falls more than eventBuffer events behind loses events.
type emitter struct {
	mu     sync.Mutex
	subs   []chan Event
	closed bool
}

func (e *emitter) subscribe() <-chan Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	ch := make(chan Event, eventBuffer)
	if e.closed {
		close(ch)
		return ch
	}
	e.subs = append(e.subs, ch)
	return ch
}

func (e *emitter) emit(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (e *emitter) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for _, ch := range e.subs {
		close(ch)
	}
	e.subs = nil
}
