package listing

import (
	"context"
	"fmt"
	"strings"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one user-facing message.
type Notification struct {
	Level     Level  `json:"level"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// Notifier turns Controller events into notifications so that each user
// action produces exactly one message. A batch is summarised at
// EventBatchEnd. Query failures are dropped: they surface in
// ResultState.Error.
type Notifier struct{}

// Notify maps ev to a notification. The second result is false when ev
// produces none.
func (Notifier) Notify(ev Event) (Notification, bool) {
	switch ev.Type {
	case EventCreated:
		return Notification{Level: LevelSuccess, Message: capitalize(ev.Label) + " created successfully"}, true
	case EventUpdated:
		return Notification{Level: LevelSuccess, Message: capitalize(ev.Label) + " updated successfully"}, true
	case EventDeleted:
		return Notification{Level: LevelSuccess, Message: capitalize(ev.Label) + " deleted successfully"}, true
	case EventFailed:
		if ev.Op == OpQuery {
			return Notification{}, false
		}
		level := LevelError
		if ev.Failure == FailureDuplicate {
			level = LevelInfo
		}
		return Notification{Level: level, Message: Message(ev.Err), Retryable: Retryable(ev.Err)}, true
	case EventBatchEnd:
		level := LevelSuccess
		switch {
		case ev.Succeeded == 0 && ev.Total > 0:
			level = LevelError
		case ev.Succeeded < ev.Total:
			level = LevelWarning
		}
		return Notification{
			Level:   level,
			Message: fmt.Sprintf("Deleted %d of %d %s", ev.Succeeded, ev.Total, ev.Plural),
		}, true
	}
	return Notification{}, false
}

// Run drains events into sink until the channel closes or ctx is done.
func (n Notifier) Run(ctx context.Context, events <-chan Event, sink func(Notification)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if note, ok := n.Notify(ev); ok {
				sink(note)
			}
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
