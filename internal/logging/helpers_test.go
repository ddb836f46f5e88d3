package logging

import (
	"sync"
	"testing"
	"time"
)

// testTime returns a local time.
func testTime(y int, mo time.Month, d, h, mi, s int) time.Time {
	return time.Date(y, mo, d, h, mi, s, 0, time.Local)
}

// recorder is a transport that keeps every record it receives.
type recorder struct {
	levelOverride

	mu      sync.Mutex
	records []Record
	err     error
}

func newRecorder(level ...Level) *recorder {
	r := &recorder{}
	if len(level) > 0 {
		r.override(level[0])
	}
	return r
}

func (r *recorder) Write(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// quietRegistry returns a registry with no transports whose transport errors
// are collected instead of printed.
func quietRegistry(t *testing.T, opts ...RegistryOption) (*Registry, *[]error) {
	t.Helper()
	var mu sync.Mutex
	var errs []error
	opts = append([]RegistryOption{WithErrorHandler(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	})}, opts...)
	return NewRegistry(opts...), &errs
}

// resetDefault clears the process-wide registry for the duration of a test.
func resetDefault(t *testing.T) {
	t.Helper()
	defaultMu.Lock()
	saved := defaultRegistry
	defaultRegistry = nil
	defaultMu.Unlock()

	t.Cleanup(func() {
		defaultMu.Lock()
		defaultRegistry = saved
		defaultMu.Unlock()
	})
}
