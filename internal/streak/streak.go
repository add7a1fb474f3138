// Package streak tracks consecutive calendar days with at least one
// completed focus session.
package streak

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/yusufnuru/undrift/internal/notify"
	"github.com/yusufnuru/undrift/internal/store"
)

// StorageKey is the durable record key for Data.
const StorageKey = "streak"

// Milestones are streak lengths that trigger a celebration notice.
var Milestones = []int{3, 7, 14, 21, 30, 60, 90, 180, 365}

type Data struct {
	CurrentStreak     int    `json:"currentStreak"`
	LongestStreak     int    `json:"longestStreak"`
	LastCompletedDate string `json:"lastCompletedDate"`
	StreakStartDate   string `json:"streakStartDate"`
}

// DaysBetween returns the absolute gap in whole calendar days between
// two YYYY-MM-DD local-date strings. Both dates are anchored at local
// midnight so the result is robust to DST shifts; it is not a wall-clock
// duration.
func DaysBetween(a, b string) int {
	ta, errA := time.ParseInLocation("2006-01-02", a, time.Local)
	tb, errB := time.ParseInLocation("2006-01-02", b, time.Local)
	if errA != nil || errB != nil {
		return 0
	}
	hours := tb.Sub(ta).Hours()
	if hours < 0 {
		hours = -hours
	}
	return int(hours/24 + 0.5)
}

type Manager struct {
	store    *store.Store
	notifier notify.Notifier
	now      func() time.Time
}

func NewManager(s *store.Store, n notify.Notifier) *Manager {
	return &Manager{store: s, notifier: n, now: time.Now}
}

func decode(found bool, raw []byte) (Data, error) {
	var data Data
	if found {
		if err := json.Unmarshal(raw, &data); err != nil {
			return Data{}, fmt.Errorf("decode %s: %w", StorageKey, err)
		}
	}
	return data, nil
}

// Get returns the streak record, zero-valued when absent.
func (m *Manager) Get(ctx context.Context) (Data, error) {
	var data Data
	if _, err := m.store.Get(ctx, StorageKey, &data); err != nil {
		return Data{}, err
	}
	return data, nil
}

// UpdateOnCompletion records a completed session for today. Idempotent
// within a day: a second completion on the same date changes nothing.
// A completion exactly one day after the last extends the streak; any
// larger gap (or no prior completion) starts a new streak of 1.
func (m *Manager) UpdateOnCompletion(ctx context.Context) (Data, error) {
	var updated Data
	var milestone int

	err := m.store.Update(ctx, StorageKey, func(found bool, raw []byte) (any, error) {
		data, err := decode(found, raw)
		if err != nil {
			return nil, err
		}
		today := m.now().Format("2006-01-02")

		if data.LastCompletedDate == today {
			updated = data
			return nil, nil
		}

		if data.LastCompletedDate != "" && DaysBetween(data.LastCompletedDate, today) == 1 {
			data.CurrentStreak++
		} else {
			data.CurrentStreak = 1
			data.StreakStartDate = today
		}
		data.LastCompletedDate = today
		if data.CurrentStreak > data.LongestStreak {
			data.LongestStreak = data.CurrentStreak
		}

		for _, ms := range Milestones {
			if data.CurrentStreak == ms {
				milestone = ms
			}
		}

		updated = data
		return data, nil
	})
	if err != nil {
		return Data{}, err
	}

	if milestone > 0 {
		m.notifier.Notify(
			fmt.Sprintf("streak-milestone-%d", milestone),
			fmt.Sprintf("%d-day streak!", milestone),
			fmt.Sprintf("You've completed a focus session %d days in a row. Keep the chain going.", milestone),
			2,
		)
	}
	return updated, nil
}

// CheckBroken zeroes the streak once two or more full calendar days pass
// without a completion. Safe to call repeatedly: once the streak is zero
// it is a no-op, so the broken notice fires exactly once.
func (m *Manager) CheckBroken(ctx context.Context) error {
	var broken, wasLongest bool
	var lost int

	err := m.store.Update(ctx, StorageKey, func(found bool, raw []byte) (any, error) {
		data, err := decode(found, raw)
		if err != nil {
			return nil, err
		}
		if data.CurrentStreak == 0 || data.LastCompletedDate == "" {
			return nil, nil
		}

		today := m.now().Format("2006-01-02")
		if DaysBetween(data.LastCompletedDate, today) < 2 {
			return nil, nil
		}

		broken = true
		lost = data.CurrentStreak
		wasLongest = data.CurrentStreak == data.LongestStreak
		data.CurrentStreak = 0
		data.StreakStartDate = ""
		return data, nil
	})
	if err != nil {
		return err
	}

	if broken {
		log.Printf("Streak broken after %d days", lost)
		message := fmt.Sprintf("Your %d-day streak has ended. Start a session today to begin a new one.", lost)
		if wasLongest {
			message = fmt.Sprintf("Your longest-ever streak of %d days has ended. A new record is waiting to happen.", lost)
		}
		m.notifier.Notify("streak-broken", "Streak lost", message, 1)
	}
	return nil
}

// NotifyAtRisk warns once per day, in the evening, when an active streak
// has no completion yet today. The alert date is recorded in the
// notification-state ledger.
func (m *Manager) NotifyAtRisk(ctx context.Context) error {
	data, err := m.Get(ctx)
	if err != nil {
		return err
	}
	today := m.now().Format("2006-01-02")
	if data.CurrentStreak == 0 || data.LastCompletedDate == today {
		return nil
	}

	atRisk := false
	err = m.store.Update(ctx, notify.StateKey, func(found bool, raw []byte) (any, error) {
		state := notify.DefaultState()
		if found {
			if err := json.Unmarshal(raw, &state); err != nil {
				return nil, fmt.Errorf("decode %s: %w", notify.StateKey, err)
			}
		}
		if state.LastStreakAlertDate == today {
			return nil, nil
		}
		state.LastStreakAlertDate = today
		atRisk = true
		return state, nil
	})
	if err != nil {
		return err
	}

	if atRisk {
		m.notifier.Notify(
			"streak-at-risk",
			"Your streak is at risk",
			fmt.Sprintf("No completed session yet today. Finish one before midnight to keep your %d-day streak.", data.CurrentStreak),
			1,
		)
	}
	return nil
}
