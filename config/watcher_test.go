package config_test

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reugn/go-rotation/config"
	"github.com/reugn/go-rotation/logger"
	"github.com/reugn/go-rotation/rotation"
	"github.com/stretchr/testify/require"
)

func newWatcher(t *testing.T, path string, calendar *rotation.Calendar,
	reloads *atomic.Int32) *config.Watcher {
	t.Helper()
	watcher, err := config.NewWatcher(path, calendar, config.WatcherOptions{
		Debounce: 20 * time.Millisecond,
		Logger:   logger.NoOpLogger{},
		OnReload: func(*config.Config) { reloads.Add(1) },
	})
	require.NoError(t, err)
	return watcher
}

func TestWatcherReload(t *testing.T) {
	path := writeConfig(t, "days_to_retain: 2\n")
	calendar, err := rotation.NewCalendarWithClock(testClock, rotation.WithWeeksToRetain(9))
	require.NoError(t, err)

	var reloads atomic.Int32
	watcher := newWatcher(t, path, calendar, &reloads)

	require.NoError(t, watcher.Reload(context.Background()))
	require.Equal(t, int32(1), reloads.Load())
	require.Equal(t, 2, calendar.Options().DaysToRetain())
	// a reload replaces the whole policy
	require.Equal(t, rotation.DefaultWeeksToRetain, calendar.Options().WeeksToRetain())

	require.NoError(t, os.WriteFile(path, []byte("days_to_retain: -1\n"), 0o600))
	require.ErrorIs(t, watcher.Reload(context.Background()), rotation.ErrInvalidOption)
	require.Equal(t, 2, calendar.Options().DaysToRetain())
	require.Equal(t, int32(1), reloads.Load())
}

func TestWatcherWatch(t *testing.T) {
	path := writeConfig(t, "days_to_retain: 2\n")
	calendar, err := rotation.NewCalendarWithClock(testClock)
	require.NoError(t, err)

	var reloads atomic.Int32
	watcher := newWatcher(t, path, calendar, &reloads)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("days_to_retain: 5\n"), 0o600))
	require.Eventually(t, func() bool {
		return calendar.Options().DaysToRetain() == 5
	}, 5*time.Second, 10*time.Millisecond)

	// an invalid file keeps the active policy
	require.NoError(t, os.WriteFile(path, []byte("days_to_retain: [\n"), 0o600))
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, 5, calendar.Options().DaysToRetain())

	// other files in the directory are ignored
	require.NoError(t, os.WriteFile(path+".bak", []byte("days_to_retain: 7\n"), 0o600))
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, 5, calendar.Options().DaysToRetain())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewWatcherErrors(t *testing.T) {
	calendar, err := rotation.NewCalendarWithClock(testClock)
	require.NoError(t, err)

	_, err = config.NewWatcher("", calendar, config.WatcherOptions{})
	require.Error(t, err)
	_, err = config.NewWatcher("rotation.yaml", nil, config.WatcherOptions{})
	require.Error(t, err)
}
