package alarm

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusufnuru/undrift/internal/store"
)

func newTestScheduler(t *testing.T, fired *[]string) *Scheduler {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return NewScheduler(s, func(ctx context.Context, name string) {
		*fired = append(*fired, name)
	})
}

var alarmBase = time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)

func TestOneShotFiresOnceAndDisarms(t *testing.T) {
	var fired []string
	sc := newTestScheduler(t, &fired)
	ctx := context.Background()

	sc.now = func() time.Time { return alarmBase }
	require.NoError(t, sc.At(ctx, "sessionEnd", alarmBase.Add(30*time.Second)))

	sc.tick(ctx)
	assert.Empty(t, fired, "not due yet")

	sc.now = func() time.Time { return alarmBase.Add(31 * time.Second) }
	sc.tick(ctx)
	assert.Equal(t, []string{"sessionEnd"}, fired)

	exists, err := sc.Exists(ctx, "sessionEnd")
	require.NoError(t, err)
	assert.False(t, exists, "a one-shot is removed after firing")

	sc.tick(ctx)
	assert.Len(t, fired, 1)
}

func TestPeriodicReArms(t *testing.T) {
	var fired []string
	sc := newTestScheduler(t, &fired)
	ctx := context.Background()

	sc.now = func() time.Time { return alarmBase }
	require.NoError(t, sc.Every(ctx, "heartbeat", 30*time.Second))

	sc.now = func() time.Time { return alarmBase.Add(31 * time.Second) }
	sc.tick(ctx)
	sc.now = func() time.Time { return alarmBase.Add(62 * time.Second) }
	sc.tick(ctx)

	assert.Equal(t, []string{"heartbeat", "heartbeat"}, fired)
	exists, err := sc.Exists(ctx, "heartbeat")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDailyReArmsToNextDay(t *testing.T) {
	var fired []string
	sc := newTestScheduler(t, &fired)
	ctx := context.Background()

	// Armed at 10:00 for 20:00 the same day.
	sc.now = func() time.Time { return alarmBase }
	require.NoError(t, sc.DailyAt(ctx, "streak-check", 20, 0))

	sc.now = func() time.Time { return time.Date(2026, 3, 14, 20, 0, 1, 0, time.Local) }
	sc.tick(ctx)
	require.Equal(t, []string{"streak-check"}, fired)

	// Still armed, but not due again until tomorrow evening.
	sc.now = func() time.Time { return time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local) }
	sc.tick(ctx)
	assert.Len(t, fired, 1)

	sc.now = func() time.Time { return time.Date(2026, 3, 15, 20, 0, 1, 0, time.Local) }
	sc.tick(ctx)
	assert.Len(t, fired, 2)
}

func TestDailyAt_ArmsForTomorrowWhenTimePassed(t *testing.T) {
	var fired []string
	sc := newTestScheduler(t, &fired)
	ctx := context.Background()

	// 21:00, past today's 20:00 target.
	sc.now = func() time.Time { return time.Date(2026, 3, 14, 21, 0, 0, 0, time.Local) }
	require.NoError(t, sc.DailyAt(ctx, "streak-check", 20, 0))

	sc.tick(ctx)
	assert.Empty(t, fired, "must not fire immediately for an already-passed time")
}

func TestAt_ReplacesExistingRegistration(t *testing.T) {
	var fired []string
	sc := newTestScheduler(t, &fired)
	ctx := context.Background()

	sc.now = func() time.Time { return alarmBase }
	require.NoError(t, sc.At(ctx, "sessionEnd", alarmBase.Add(10*time.Second)))
	require.NoError(t, sc.At(ctx, "sessionEnd", alarmBase.Add(5*time.Minute)))

	sc.now = func() time.Time { return alarmBase.Add(time.Minute) }
	sc.tick(ctx)
	assert.Empty(t, fired, "re-arming pushed the fire time out")
}

func TestClear(t *testing.T) {
	var fired []string
	sc := newTestScheduler(t, &fired)
	ctx := context.Background()

	sc.now = func() time.Time { return alarmBase }
	require.NoError(t, sc.At(ctx, "sessionEnd", alarmBase.Add(time.Second)))
	require.NoError(t, sc.Clear(ctx, "sessionEnd"))
	require.NoError(t, sc.Clear(ctx, "never-existed"))

	sc.now = func() time.Time { return alarmBase.Add(time.Minute) }
	sc.tick(ctx)
	assert.Empty(t, fired)
}

func TestRegistrationsSurviveSchedulerRestart(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	sc1 := NewScheduler(s, func(ctx context.Context, name string) {})
	sc1.now = func() time.Time { return alarmBase }
	require.NoError(t, sc1.At(context.Background(), "sessionEnd", alarmBase.Add(time.Hour)))

	// A second scheduler over the same store sees the registration and
	// fires it when due.
	var fired []string
	sc2 := NewScheduler(s, func(ctx context.Context, name string) {
		fired = append(fired, name)
	})
	sc2.now = func() time.Time { return alarmBase.Add(2 * time.Hour) }
	sc2.tick(context.Background())
	assert.Equal(t, []string{"sessionEnd"}, fired)
}

func TestMultipleDueFireInSortedOrder(t *testing.T) {
	var fired []string
	sc := newTestScheduler(t, &fired)
	ctx := context.Background()

	sc.now = func() time.Time { return alarmBase }
	require.NoError(t, sc.At(ctx, "b-alarm", alarmBase.Add(time.Second)))
	require.NoError(t, sc.At(ctx, "a-alarm", alarmBase.Add(2*time.Second)))

	sc.now = func() time.Time { return alarmBase.Add(time.Minute) }
	sc.tick(ctx)
	assert.Equal(t, []string{"a-alarm", "b-alarm"}, fired)
}

func TestNextDaily(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	next := nextDaily(now, 20, 30)
	assert.Equal(t, time.Date(2026, 3, 14, 20, 30, 0, 0, time.Local), next)

	now = time.Date(2026, 3, 14, 21, 0, 0, 0, time.Local)
	next = nextDaily(now, 20, 30)
	assert.Equal(t, time.Date(2026, 3, 15, 20, 30, 0, 0, time.Local), next)

	// Exactly on the mark rolls to tomorrow.
	now = time.Date(2026, 3, 14, 20, 30, 0, 0, time.Local)
	next = nextDaily(now, 20, 30)
	assert.Equal(t, time.Date(2026, 3, 15, 20, 30, 0, 0, time.Local), next)
}
