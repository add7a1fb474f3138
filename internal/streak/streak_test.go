package streak

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusufnuru/undrift/internal/store"
)

type fakeNotifier struct {
	ids []string
}

func (f *fakeNotifier) Notify(id, title, message string, priority int) {
	f.ids = append(f.ids, id)
}

func newTestManager(t *testing.T, at time.Time) (*Manager, *fakeNotifier) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	n := &fakeNotifier{}
	m := NewManager(s, n)
	m.now = func() time.Time { return at }
	return m, n
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"same day", "2026-03-14", "2026-03-14", 0},
		{"adjacent days", "2026-03-14", "2026-03-15", 1},
		{"adjacent days reversed", "2026-03-15", "2026-03-14", 1},
		{"two days", "2026-03-14", "2026-03-16", 2},
		{"month boundary", "2026-02-28", "2026-03-01", 1},
		{"spring DST window", "2026-03-07", "2026-03-09", 2},
		{"bad input", "not-a-date", "2026-03-14", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestUpdateOnCompletion_FirstEver(t *testing.T) {
	day := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	m, _ := newTestManager(t, day)

	data, err := m.UpdateOnCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, data.CurrentStreak)
	assert.Equal(t, 1, data.LongestStreak)
	assert.Equal(t, "2026-03-14", data.LastCompletedDate)
	assert.Equal(t, "2026-03-14", data.StreakStartDate)
}

func TestUpdateOnCompletion_SameDayIdempotent(t *testing.T) {
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	m, _ := newTestManager(t, day)
	ctx := context.Background()

	_, err := m.UpdateOnCompletion(ctx)
	require.NoError(t, err)
	data, err := m.UpdateOnCompletion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, data.CurrentStreak, "a second completion the same day must not double-count")
}

func TestUpdateOnCompletion_ConsecutiveDaysExtend(t *testing.T) {
	m, _ := newTestManager(t, time.Time{})
	ctx := context.Background()

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		day := start.AddDate(0, 0, i)
		m.now = func() time.Time { return day }
		_, err := m.UpdateOnCompletion(ctx)
		require.NoError(t, err)
	}

	data, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, data.CurrentStreak)
	assert.Equal(t, 3, data.LongestStreak)
	assert.Equal(t, "2026-03-14", data.StreakStartDate)
}

func TestUpdateOnCompletion_GapResets(t *testing.T) {
	m, _ := newTestManager(t, time.Time{})
	ctx := context.Background()

	m.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local) }
	_, err := m.UpdateOnCompletion(ctx)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local) }
	_, err = m.UpdateOnCompletion(ctx)
	require.NoError(t, err)

	// Skip two days, then complete again.
	m.now = func() time.Time { return time.Date(2026, 3, 18, 10, 0, 0, 0, time.Local) }
	data, err := m.UpdateOnCompletion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, data.CurrentStreak)
	assert.Equal(t, 2, data.LongestStreak, "longest survives the reset")
	assert.Equal(t, "2026-03-18", data.StreakStartDate)
}

func TestUpdateOnCompletion_MilestoneNotifies(t *testing.T) {
	m, n := newTestManager(t, time.Time{})
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		day := start.AddDate(0, 0, i)
		m.now = func() time.Time { return day }
		_, err := m.UpdateOnCompletion(ctx)
		require.NoError(t, err)
	}
	assert.Contains(t, n.ids, "streak-milestone-3")
}

func TestCheckBroken(t *testing.T) {
	m, n := newTestManager(t, time.Time{})
	ctx := context.Background()

	m.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local) }
	_, err := m.UpdateOnCompletion(ctx)
	require.NoError(t, err)

	// One missed day is still recoverable.
	m.now = func() time.Time { return time.Date(2026, 3, 15, 23, 0, 0, 0, time.Local) }
	require.NoError(t, m.CheckBroken(ctx))
	data, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, data.CurrentStreak)
	assert.NotContains(t, n.ids, "streak-broken")

	// Two missed days break it.
	m.now = func() time.Time { return time.Date(2026, 3, 16, 1, 0, 0, 0, time.Local) }
	require.NoError(t, m.CheckBroken(ctx))
	data, err = m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, data.CurrentStreak)
	assert.Equal(t, 1, data.LongestStreak)
	assert.Empty(t, data.StreakStartDate)
	assert.Contains(t, n.ids, "streak-broken")

	// Repeat call fires nothing further.
	n.ids = nil
	require.NoError(t, m.CheckBroken(ctx))
	assert.Empty(t, n.ids)
}

func TestCheckBroken_NoStreakIsNoop(t *testing.T) {
	m, n := newTestManager(t, time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local))
	require.NoError(t, m.CheckBroken(context.Background()))
	assert.Empty(t, n.ids)
}

func TestNotifyAtRisk(t *testing.T) {
	m, n := newTestManager(t, time.Time{})
	ctx := context.Background()

	m.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local) }
	_, err := m.UpdateOnCompletion(ctx)
	require.NoError(t, err)

	// Evening of the next day with no completion yet.
	m.now = func() time.Time { return time.Date(2026, 3, 15, 20, 0, 0, 0, time.Local) }
	require.NoError(t, m.NotifyAtRisk(ctx))
	assert.Contains(t, n.ids, "streak-at-risk")

	// Only once per day.
	n.ids = nil
	require.NoError(t, m.NotifyAtRisk(ctx))
	assert.Empty(t, n.ids)
}

func TestNotifyAtRisk_SkipsWhenCompletedToday(t *testing.T) {
	day := time.Date(2026, 3, 14, 20, 0, 0, 0, time.Local)
	m, n := newTestManager(t, day)
	ctx := context.Background()

	_, err := m.UpdateOnCompletion(ctx)
	require.NoError(t, err)
	require.NoError(t, m.NotifyAtRisk(ctx))
	assert.NotContains(t, n.ids, "streak-at-risk")
}
