package tracking

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusufnuru/undrift/internal/store"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewTracker(s)
}

func at(tr *Tracker, when time.Time) {
	tr.now = func() time.Time { return when }
}

var trackDay = time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)

func TestStartStop_CreditsElapsedSeconds(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	at(tr, trackDay)
	require.NoError(t, tr.Start(ctx, "twitter.com"))
	at(tr, trackDay.Add(90*time.Second))
	require.NoError(t, tr.Stop(ctx))

	domains, total, err := tr.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(90), domains["twitter.com"])
	assert.Equal(t, int64(90), total)

	data, err := tr.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, data.Current)
}

func TestStart_FlushesPreviousDomain(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	at(tr, trackDay)
	require.NoError(t, tr.Start(ctx, "twitter.com"))
	at(tr, trackDay.Add(30*time.Second))
	require.NoError(t, tr.Start(ctx, "reddit.com"))
	at(tr, trackDay.Add(50*time.Second))
	require.NoError(t, tr.Stop(ctx))

	domains, total, err := tr.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(30), domains["twitter.com"])
	assert.Equal(t, int64(20), domains["reddit.com"])
	assert.Equal(t, int64(50), total, "no seconds lost or double counted across a switch")
}

func TestFlush_IncrementalCreditNoDoubleCount(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	at(tr, trackDay)
	require.NoError(t, tr.Start(ctx, "twitter.com"))

	// Two heartbeat flushes, then a stop. Total must equal wall time once.
	at(tr, trackDay.Add(30*time.Second))
	require.NoError(t, tr.Flush(ctx))
	at(tr, trackDay.Add(60*time.Second))
	require.NoError(t, tr.Flush(ctx))
	at(tr, trackDay.Add(75*time.Second))
	require.NoError(t, tr.Stop(ctx))

	domains, _, err := tr.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(75), domains["twitter.com"])
}

func TestFlush_KeepsSpanOpen(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	at(tr, trackDay)
	require.NoError(t, tr.Start(ctx, "twitter.com"))
	at(tr, trackDay.Add(10*time.Second))
	require.NoError(t, tr.Flush(ctx))

	data, err := tr.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, data.Current)
	assert.Equal(t, "twitter.com", data.Current.Domain)
	assert.True(t, data.Current.StartedAt.Equal(trackDay.Add(10*time.Second)))
}

func TestStop_WithoutSpanIsNoop(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	at(tr, trackDay)
	require.NoError(t, tr.Stop(ctx))
	_, total, err := tr.Today(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDiscard_DropsSpanWithoutCredit(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	at(tr, trackDay)
	require.NoError(t, tr.Start(ctx, "twitter.com"))
	at(tr, trackDay.Add(8*time.Hour))
	require.NoError(t, tr.Discard(ctx))

	domains, total, err := tr.Today(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, domains)

	data, err := tr.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, data.Current)
}

func TestNegativeElapsedIsNoop(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	at(tr, trackDay)
	require.NoError(t, tr.Start(ctx, "twitter.com"))

	// Clock went backwards; nothing should be credited.
	at(tr, trackDay.Add(-time.Minute))
	require.NoError(t, tr.Stop(ctx))

	_, total, err := tr.Today(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDaysAreSeparated(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	at(tr, trackDay)
	require.NoError(t, tr.Start(ctx, "twitter.com"))
	at(tr, trackDay.Add(60*time.Second))
	require.NoError(t, tr.Stop(ctx))

	tomorrow := trackDay.AddDate(0, 0, 1)
	at(tr, tomorrow)
	require.NoError(t, tr.Start(ctx, "twitter.com"))
	at(tr, tomorrow.Add(40*time.Second))
	require.NoError(t, tr.Stop(ctx))

	domains, total, err := tr.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(40), domains["twitter.com"])
	assert.Equal(t, int64(40), total)

	data, err := tr.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(60), data.Daily[trackDay.Format("2006-01-02")]["twitter.com"])
}
