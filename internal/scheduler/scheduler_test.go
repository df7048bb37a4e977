package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeCompleter struct {
	mu    sync.Mutex
	calls int
	befor []time.Time
}

func (f *fakeCompleter) CompleteOverdue(ctx context.Context, before time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.befor = append(f.befor, before)
	return 0, nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	completer := &fakeCompleter{}
	s := New(completer, time.Hour, nopLogger{})

	s.Start()

	// Первый проход выполняется сразу, не дожидаясь тика
	assert.Eventually(t, func() bool {
		return completer.callCount() >= 1
	}, time.Second, 10*time.Millisecond)

	s.Stop()

	assert.Equal(t, 1, completer.callCount())
}

// Граница среза - полночь сегодняшнего дня: заявки на сегодня не трогаются
func TestScheduler_CutoffIsTodayMidnight(t *testing.T) {
	completer := &fakeCompleter{}
	s := New(completer, time.Hour, nopLogger{})

	s.Start()
	assert.Eventually(t, func() bool {
		return completer.callCount() >= 1
	}, time.Second, 10*time.Millisecond)
	s.Stop()

	completer.mu.Lock()
	defer completer.mu.Unlock()

	now := time.Now()
	want := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	assert.Equal(t, want, completer.befor[0])
}
