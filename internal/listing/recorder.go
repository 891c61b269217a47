package listing

import "time"

// Recorder receives instrumentation from Collections and Controllers.
// internal/metrics provides the Prometheus implementation.
type Recorder interface {
	QueryObserved(kind string, elapsed time.Duration, err error)
	MutationObserved(kind, op string, err error)
	Derivation(kind string)
	StaleDiscarded(kind string)
}

type nopRecorder struct{}

func (nopRecorder) QueryObserved(string, time.Duration, error) {}
func (nopRecorder) MutationObserved(string, string, error)     {}
func (nopRecorder) Derivation(string)                          {}
func (nopRecorder) StaleDiscarded(string)                      {}

// NopRecorder discards everything.
var NopRecorder Recorder = nopRecorder{}
