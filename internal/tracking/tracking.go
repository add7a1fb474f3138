// Package tracking maintains the "currently tracked domain" pointer and
// the per-day, per-domain seconds histogram.
package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yusufnuru/undrift/internal/store"
)

// StorageKey is the durable record key for Data.
const StorageKey = "timeTracking"

// Span is an open, not-yet-flushed accumulation window.
type Span struct {
	Domain    string    `json:"domain"`
	StartedAt time.Time `json:"startedAt"`
}

type Data struct {
	Daily   map[string]map[string]int64 `json:"daily"`
	Current *Span                       `json:"current"`
}

func DefaultData() Data {
	return Data{Daily: map[string]map[string]int64{}}
}

// Tracker accumulates browsing seconds through the store. All state
// lives in the durable record; the Tracker itself holds nothing across
// calls.
type Tracker struct {
	store *store.Store
	now   func() time.Time
}

func NewTracker(s *store.Store) *Tracker {
	return &Tracker{store: s, now: time.Now}
}

// SetClock replaces the tracker's time source.
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

func decode(found bool, raw []byte) (Data, error) {
	data := DefaultData()
	if found {
		if err := json.Unmarshal(raw, &data); err != nil {
			return Data{}, fmt.Errorf("decode %s: %w", StorageKey, err)
		}
		if data.Daily == nil {
			data.Daily = map[string]map[string]int64{}
		}
	}
	return data, nil
}

// flushInto credits the open span's elapsed whole seconds to today's
// histogram and restarts the span at now, so a long-lived span is
// credited incrementally and never double counted. Non-positive elapsed
// (clock skew) is a no-op. The day key is taken at flush time; a span
// straddling midnight is credited to the day it started accumulating.
func flushInto(data *Data, now time.Time) {
	if data.Current == nil {
		return
	}
	elapsed := int64(now.Sub(data.Current.StartedAt).Round(time.Second) / time.Second)
	if elapsed <= 0 {
		return
	}

	today := now.Format("2006-01-02")
	if data.Daily[today] == nil {
		data.Daily[today] = map[string]int64{}
	}
	data.Daily[today][data.Current.Domain] += elapsed
	data.Current.StartedAt = now
}

// Flush credits the open span without closing it.
func (t *Tracker) Flush(ctx context.Context) error {
	return t.store.Update(ctx, StorageKey, func(found bool, raw []byte) (any, error) {
		data, err := decode(found, raw)
		if err != nil {
			return nil, err
		}
		if data.Current == nil {
			return nil, nil
		}
		flushInto(&data, t.now())
		return data, nil
	})
}

// Start flushes the previous domain and opens a span for domain.
func (t *Tracker) Start(ctx context.Context, domain string) error {
	return t.store.Update(ctx, StorageKey, func(found bool, raw []byte) (any, error) {
		data, err := decode(found, raw)
		if err != nil {
			return nil, err
		}
		now := t.now()
		flushInto(&data, now)
		data.Current = &Span{Domain: domain, StartedAt: now}
		return data, nil
	})
}

// Stop flushes the open span and clears the current pointer.
func (t *Tracker) Stop(ctx context.Context) error {
	return t.store.Update(ctx, StorageKey, func(found bool, raw []byte) (any, error) {
		data, err := decode(found, raw)
		if err != nil {
			return nil, err
		}
		flushInto(&data, t.now())
		data.Current = nil
		return data, nil
	})
}

// Discard drops the open span without crediting it. Used on daemon
// startup, where the span survived a restart and crediting it would
// count downtime as browsing.
func (t *Tracker) Discard(ctx context.Context) error {
	return t.store.Update(ctx, StorageKey, func(found bool, raw []byte) (any, error) {
		data, err := decode(found, raw)
		if err != nil {
			return nil, err
		}
		if data.Current == nil {
			return nil, nil
		}
		data.Current = nil
		return data, nil
	})
}

// Get returns the tracking record, defaulted when absent.
func (t *Tracker) Get(ctx context.Context) (Data, error) {
	data := DefaultData()
	if _, err := t.store.Get(ctx, StorageKey, &data); err != nil {
		return Data{}, err
	}
	if data.Daily == nil {
		data.Daily = map[string]map[string]int64{}
	}
	return data, nil
}

// Today returns today's per-domain histogram and its total seconds.
func (t *Tracker) Today(ctx context.Context) (map[string]int64, int64, error) {
	data, err := t.Get(ctx)
	if err != nil {
		return nil, 0, err
	}
	today := t.now().Format("2006-01-02")
	domains := data.Daily[today]
	if domains == nil {
		domains = map[string]int64{}
	}
	var total int64
	for _, secs := range domains {
		total += secs
	}
	return domains, total, nil
}
