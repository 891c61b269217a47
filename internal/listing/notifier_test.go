package listing

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierLevels(t *testing.T) {
	n := Notifier{}
	base := Event{Kind: "asset-categories", Label: "asset category", Plural: "asset categories"}

	ev := base
	ev.Type = EventCreated
	note, ok := n.Notify(ev)
	require.True(t, ok)
	assert.Equal(t, Notification{Level: LevelSuccess, Message: "Asset category created successfully"}, note)

	ev = base
	ev.Type, ev.Op = EventFailed, OpCreate
	ev.Err = &DuplicateError{Kind: "asset category", Field: "categoryname", Value: "Laptops"}
	ev.Failure = FailureOf(ev.Err)
	note, ok = n.Notify(ev)
	require.True(t, ok)
	assert.Equal(t, LevelInfo, note.Level)
	assert.Equal(t, `asset category with categoryname "Laptops" already exists`, note.Message)
	assert.False(t, note.Retryable)

	ev.Err = &SourceError{Kind: "asset-categories", Op: "create", Class: FailureTimeout, Err: context.DeadlineExceeded}
	ev.Failure = FailureOf(ev.Err)
	note, _ = n.Notify(ev)
	assert.Equal(t, LevelError, note.Level)
	assert.True(t, note.Retryable)

	ev = base
	ev.Type, ev.Total, ev.Succeeded = EventBatchEnd, 3, 3
	note, _ = n.Notify(ev)
	assert.Equal(t, Notification{Level: LevelSuccess, Message: "Deleted 3 of 3 asset categories"}, note)

	ev.Succeeded = 0
	note, _ = n.Notify(ev)
	assert.Equal(t, LevelError, note.Level)
}

func TestNotifierRun(t *testing.T) {
	events := make(chan Event, 4)
	events <- Event{Type: EventLoaded}
	events <- Event{Type: EventDeleted, Label: "manufacturer"}
	events <- Event{Type: EventBatchBegin, Label: "manufacturer", Total: 2}
	close(events)

	var got []Notification
	Notifier{}.Run(context.Background(), events, func(n Notification) { got = append(got, n) })
	require.Len(t, got, 1)
	assert.Equal(t, "Manufacturer deleted successfully", got[0].Message)
}

func TestFailureOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Failure
	}{
		{"nil", nil, FailureNone},
		{"validation", &ValidationError{Field: "name", Msg: "is required"}, FailureValidation},
		{"duplicate", fmt.Errorf("create: %w", &DuplicateError{Kind: "asset", Field: "serialnumber", Value: "SN1"}), FailureDuplicate},
		{"not found", &NotFoundError{Kind: "asset", ID: 3}, FailureNotFound},
		{"auth", &SourceError{Class: FailureAuth, Err: errors.New("401")}, FailureAuth},
		{"deadline", context.DeadlineExceeded, FailureTimeout},
		{"net", &net.OpError{Op: "dial", Err: errors.New("refused")}, FailureNetwork},
		{"other", errors.New("boom"), FailureInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FailureOf(tt.err))
		})
	}
}

func TestRetryableOnlyForTransientFailures(t *testing.T) {
	assert.True(t, Retryable(&SourceError{Class: FailureNetwork, Err: errors.New("x")}))
	assert.True(t, Retryable(context.DeadlineExceeded))
	assert.False(t, Retryable(&DuplicateError{}))
	assert.False(t, Retryable(&SourceError{Class: FailureAuth, Err: errors.New("x")}))
}

func TestDebouncerRunsLastCallOnly(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls, last atomic.Int32
	for i := 1; i <= 5; i++ {
		i := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(i)
		})
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(5), last.Load())
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	err := ValidateStruct(gadget{Name: "this name is far too long to be accepted by the tag"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, "must be at most 40 characters", ve.Msg)
}
