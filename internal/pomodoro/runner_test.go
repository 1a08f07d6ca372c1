package pomodoro

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncRecorder struct {
	mu       sync.Mutex
	sessions []CompletedSession
}

func (r *syncRecorder) RecordSession(s CompletedSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, s)
	return nil
}

func (r *syncRecorder) CountSessionsSince(t time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions), nil
}

func startRunner(t *testing.T, e *Engine) (*Runner, context.CancelFunc, <-chan error) {
	t.Helper()
	r := NewRunner(e, RunnerConfig{TickInterval: time.Millisecond, BufferSize: 256}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	t.Cleanup(cancel)
	return r, cancel, done
}

func waitFor(t *testing.T, r *Runner, match func(Update) bool) Update {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case u, ok := <-r.Updates():
			require.True(t, ok, "updates closed")
			if match(u) {
				return u
			}
		case <-timeout:
			t.Fatal("timed out waiting for update")
		}
	}
}

func TestRunnerCompletesFocusInterval(t *testing.T) {
	rec := &syncRecorder{}
	e := New(WithRecorder(rec))
	r, _, _ := startRunner(t, e)
	ctx := context.Background()

	require.NoError(t, r.ApplyCustomSettings(ctx, CustomInput{1, 1, 1, 2}))
	require.NoError(t, r.Start(ctx))

	u := waitFor(t, r, func(u Update) bool {
		return u.Event != nil && u.Event.Kind == EventSessionChanged
	})
	assert.Equal(t, Focus, u.Event.From)
	assert.Equal(t, ShortBreak, u.Event.To)
	require.NotNil(t, u.Event.Completed)
	assert.Equal(t, int64(60), u.Event.Completed.DurationSeconds)

	n, _ := rec.CountSessionsSince(time.Time{})
	assert.Equal(t, 1, n)
}

func TestRunnerAlarmInterstitial(t *testing.T) {
	alarm := &fakeAlarm{}
	e := New(WithAlarm(alarm, DefaultAlarmDuration))
	r, _, _ := startRunner(t, e)
	ctx := context.Background()

	require.NoError(t, r.ApplyCustomSettings(ctx, CustomInput{1, 1, 1, 1}))
	require.NoError(t, r.Start(ctx))

	u := waitFor(t, r, func(u Update) bool {
		return u.Event != nil && u.Event.Kind == EventAlarm
	})
	assert.True(t, u.Snapshot.Alarming)

	u = waitFor(t, r, func(u Update) bool {
		return u.Event != nil && u.Event.Kind == EventSessionChanged
	})
	assert.Equal(t, LongBreak, u.Event.To)
	assert.False(t, u.Snapshot.Alarming)
}

func TestRunnerPauseAndStop(t *testing.T) {
	e := New()
	r, _, _ := startRunner(t, e)
	ctx := context.Background()

	assert.True(t, errors.Is(r.Start(ctx), ErrNoSettings))

	require.NoError(t, r.SelectMode(ctx, ModeClassic))
	require.NoError(t, r.Start(ctx))
	require.NoError(t, r.Pause(ctx))

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, Paused, snap.State)

	require.NoError(t, r.Stop(ctx))
	snap, err = r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stopped, snap.State)
	assert.Equal(t, 25*time.Minute, snap.Remaining)
}

func TestRunnerInvalidCustomSettings(t *testing.T) {
	e := New()
	r, _, _ := startRunner(t, e)
	ctx := context.Background()

	require.NoError(t, r.SelectMode(ctx, ModeIntense))
	err := r.ApplyCustomSettings(ctx, CustomInput{25, 5, 15, 0})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	snap, _ := r.Snapshot(ctx)
	assert.Equal(t, ModeIntense, snap.Mode)
}

func TestRunnerStopsOnCancel(t *testing.T) {
	e := New()
	r, cancel, done := startRunner(t, e)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}

	// Updates is closed once Run returns.
	for range r.Updates() {
	}

	ctx, cancelDo := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelDo()
	assert.Error(t, r.Start(ctx))
}

func TestScaleWait(t *testing.T) {
	assert.Equal(t, 9*time.Second, scaleWait(9*time.Second, time.Second))
	assert.Equal(t, 9*time.Millisecond, scaleWait(9*time.Second, time.Millisecond))
}

func TestDefaultRunnerConfig(t *testing.T) {
	r := NewRunner(New(), RunnerConfig{}, nil)
	assert.Equal(t, time.Second, r.config.TickInterval)
	assert.Equal(t, 16, r.config.BufferSize)
}
