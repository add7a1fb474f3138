// Package alarm is a durable named timer facility. Registrations are
// persisted in the store and fire on absolute wall-clock time, so armed
// timers survive a full daemon restart.
package alarm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/yusufnuru/undrift/internal/store"
)

const storageKey = "alarms"

// Handler is invoked with the name of each alarm that comes due.
type Handler func(ctx context.Context, name string)

type record struct {
	// NextFire is absolute wall-clock time, unix milliseconds.
	NextFire int64 `json:"nextFire"`
	// PeriodSeconds > 0 makes the alarm recurring at a fixed period.
	PeriodSeconds int `json:"periodSeconds,omitempty"`
	// Daily alarms re-arm to the same local hour:minute the next day.
	Daily       bool `json:"daily,omitempty"`
	DailyHour   int  `json:"dailyHour,omitempty"`
	DailyMinute int  `json:"dailyMinute,omitempty"`
}

// Scheduler polls the persisted registrations and fires due alarms.
type Scheduler struct {
	store   *store.Store
	handler Handler
	now     func() time.Time
	poll    time.Duration
}

func NewScheduler(s *store.Store, handler Handler) *Scheduler {
	return &Scheduler{store: s, handler: handler, now: time.Now, poll: time.Second}
}

func decode(found bool, raw []byte) (map[string]record, error) {
	alarms := map[string]record{}
	if found {
		if err := json.Unmarshal(raw, &alarms); err != nil {
			return nil, fmt.Errorf("decode %s: %w", storageKey, err)
		}
	}
	return alarms, nil
}

func (sc *Scheduler) put(ctx context.Context, name string, r record) error {
	return sc.store.Update(ctx, storageKey, func(found bool, raw []byte) (any, error) {
		alarms, err := decode(found, raw)
		if err != nil {
			return nil, err
		}
		alarms[name] = r
		return alarms, nil
	})
}

// At arms a one-shot alarm at an absolute time, replacing any existing
// registration with the same name.
func (sc *Scheduler) At(ctx context.Context, name string, t time.Time) error {
	return sc.put(ctx, name, record{NextFire: t.UnixMilli()})
}

// Every arms a recurring alarm with a fixed period, first firing one
// period from now.
func (sc *Scheduler) Every(ctx context.Context, name string, period time.Duration) error {
	return sc.put(ctx, name, record{
		NextFire:      sc.now().Add(period).UnixMilli(),
		PeriodSeconds: int(period / time.Second),
	})
}

// DailyAt arms a recurring alarm at a fixed local hour:minute, first
// firing at the next occurrence.
func (sc *Scheduler) DailyAt(ctx context.Context, name string, hour, minute int) error {
	return sc.put(ctx, name, record{
		NextFire:    nextDaily(sc.now(), hour, minute).UnixMilli(),
		Daily:       true,
		DailyHour:   hour,
		DailyMinute: minute,
	})
}

// Clear removes the named alarm. Clearing a non-existent name is fine.
func (sc *Scheduler) Clear(ctx context.Context, name string) error {
	return sc.store.Update(ctx, storageKey, func(found bool, raw []byte) (any, error) {
		alarms, err := decode(found, raw)
		if err != nil {
			return nil, err
		}
		if _, ok := alarms[name]; !ok {
			return nil, nil
		}
		delete(alarms, name)
		return alarms, nil
	})
}

// Exists reports whether the named alarm is armed.
func (sc *Scheduler) Exists(ctx context.Context, name string) (bool, error) {
	var alarms map[string]record
	found, err := sc.store.Get(ctx, storageKey, &alarms)
	if err != nil || !found {
		return false, err
	}
	_, ok := alarms[name]
	return ok, nil
}

// nextDaily computes the next occurrence of hour:minute local time,
// built with time.Date so DST transitions cannot skew the target.
func nextDaily(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return next
}

// Run polls for due alarms until ctx is cancelled.
func (sc *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(sc.poll)
	defer ticker.Stop()

	log.Println("Alarm scheduler started")
	for {
		select {
		case <-ctx.Done():
			log.Println("Alarm scheduler shutting down...")
			return nil
		case <-ticker.C:
			sc.tick(ctx)
		}
	}
}

// tick collects due alarms and re-arms or removes them in one store
// update, then invokes the handler for each outside the record lock.
// Handlers run sequentially in firing order.
func (sc *Scheduler) tick(ctx context.Context) {
	var due []string

	err := sc.store.Update(ctx, storageKey, func(found bool, raw []byte) (any, error) {
		alarms, err := decode(found, raw)
		if err != nil {
			return nil, err
		}
		now := sc.now()
		for name, r := range alarms {
			if r.NextFire > now.UnixMilli() {
				continue
			}
			due = append(due, name)
			switch {
			case r.Daily:
				r.NextFire = nextDaily(now, r.DailyHour, r.DailyMinute).UnixMilli()
				alarms[name] = r
			case r.PeriodSeconds > 0:
				r.NextFire = now.Add(time.Duration(r.PeriodSeconds) * time.Second).UnixMilli()
				alarms[name] = r
			default:
				delete(alarms, name)
			}
		}
		if len(due) == 0 {
			return nil, nil
		}
		return alarms, nil
	})
	if err != nil {
		log.Printf("Alarm tick failed: %v", err)
		return
	}

	sort.Strings(due)
	for _, name := range due {
		sc.handler(ctx, name)
	}
}
