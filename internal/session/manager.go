// Package session manages the timed-blocking session lifecycle:
// start, end, interruptions, reflections, history, and the reward
// pipeline they trigger.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yusufnuru/undrift/internal/blocking"
	"github.com/yusufnuru/undrift/internal/gamification"
	"github.com/yusufnuru/undrift/internal/notify"
	"github.com/yusufnuru/undrift/internal/store"
	"github.com/yusufnuru/undrift/internal/streak"
)

// ErrNoActiveSession is returned by operations that require an active
// session.
var ErrNoActiveSession = errors.New("no active session")

// Timers is the slice of the alarm scheduler the session lifecycle
// needs: arm a one-shot at an absolute time, cancel by name.
type Timers interface {
	At(ctx context.Context, name string, t time.Time) error
	Clear(ctx context.Context, name string) error
}

type Manager struct {
	store        *store.Store
	enforcer     *blocking.Enforcer
	notifier     notify.Notifier
	timers       Timers
	streaks      *streak.Manager
	defaultSites []string
	warningLead  time.Duration
	now          func() time.Time
}

func NewManager(s *store.Store, enforcer *blocking.Enforcer, notifier notify.Notifier, timers Timers, streaks *streak.Manager, defaultSites []string, warningLead time.Duration) *Manager {
	return &Manager{
		store:        s,
		enforcer:     enforcer,
		notifier:     notifier,
		timers:       timers,
		streaks:      streaks,
		defaultSites: defaultSites,
		warningLead:  warningLead,
		now:          time.Now,
	}
}

// SetClock replaces the manager's time source.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// Current returns the session record, defaulted to the inactive shape
// when absent.
func (m *Manager) Current(ctx context.Context) (Session, error) {
	s := DefaultSession(m.defaultSites)
	if _, err := m.store.Get(ctx, StorageKey, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func decodeSession(raw []byte, fallback Session) (Session, error) {
	s := fallback
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("decode %s: %w", StorageKey, err)
	}
	return s, nil
}

// Start begins a new session blocking sites for durationMinutes,
// enables enforcement, initializes a fresh reward-cap context, resets
// the warning flag and arms the end and warning timers.
func (m *Manager) Start(ctx context.Context, durationMinutes int, sites []string) error {
	if durationMinutes <= 0 {
		return fmt.Errorf("invalid session duration: %d minutes", durationMinutes)
	}
	if len(sites) == 0 {
		sites = m.defaultSites
	}

	now := m.now()
	endsAt := now.Add(time.Duration(durationMinutes) * time.Minute)
	s := Session{
		IsActive:        true,
		EndsAt:          endsAt,
		BlockedSites:    sites,
		SessionID:       uuid.NewString(),
		StartedAt:       now,
		DurationMinutes: durationMinutes,
		Interruptions:   []Interruption{},
	}

	err := m.store.Update(ctx, StorageKey, func(bool, []byte) (any, error) {
		return s, nil
	})
	if err != nil {
		return err
	}

	m.enforcer.Enable(ctx, sites)

	// Through Update, not Put: the reset must serialize with the award
	// pipeline's read-modify-write on this key.
	err = m.store.Update(ctx, gamification.SessionCtxKey, func(bool, []byte) (any, error) {
		return gamification.DefaultSessionCtx(s.SessionID), nil
	})
	if err != nil {
		return err
	}

	err = m.store.Update(ctx, notify.StateKey, func(found bool, raw []byte) (any, error) {
		state := notify.DefaultState()
		if found {
			if err := json.Unmarshal(raw, &state); err != nil {
				return nil, fmt.Errorf("decode %s: %w", notify.StateKey, err)
			}
		}
		state.SessionWarningFired = false
		return state, nil
	})
	if err != nil {
		return err
	}

	if err := m.timers.At(ctx, AlarmSessionEnd, endsAt); err != nil {
		// A session without an end timer would never close. Roll the
		// start back rather than leave blocking stuck on.
		m.abortStart(ctx, s.SessionID)
		return fmt.Errorf("arm session end timer: %w", err)
	}
	if warningAt := endsAt.Add(-m.warningLead); warningAt.After(now) {
		// The warning is cosmetic; its timer failing must not lose the
		// session that is already running.
		if err := m.timers.At(ctx, AlarmSessionWarning, warningAt); err != nil {
			log.Printf("Failed to arm session warning timer: %v", err)
		}
	} else {
		// Too short for a warning. Make sure no stale one survives.
		if err := m.timers.Clear(ctx, AlarmSessionWarning); err != nil {
			log.Printf("Failed to clear stale warning timer: %v", err)
		}
	}

	log.Printf("Session %s started: %d minutes, %d site(s) blocked", s.SessionID, durationMinutes, len(sites))
	return nil
}

// abortStart deactivates a session whose start could not finish and
// lifts enforcement. The record is only touched while it still belongs
// to the aborted start.
func (m *Manager) abortStart(ctx context.Context, sessionID string) {
	err := m.store.Update(ctx, StorageKey, func(found bool, raw []byte) (any, error) {
		if !found {
			return nil, nil
		}
		s, err := decodeSession(raw, DefaultSession(m.defaultSites))
		if err != nil {
			return nil, err
		}
		if s.SessionID != sessionID || !s.IsActive {
			return nil, nil
		}
		s.IsActive = false
		return s, nil
	})
	if err != nil {
		log.Printf("Failed to roll back session %s: %v", sessionID, err)
	}
	m.enforcer.Disable(ctx)
}

// End closes the active session for the given reason. A no-op when no
// session is active. The reason decides completion: every reason except
// a manual end counts as completed.
func (m *Manager) End(ctx context.Context, reason string) error {
	var s Session
	ended := false

	err := m.store.Update(ctx, StorageKey, func(found bool, raw []byte) (any, error) {
		if !found {
			return nil, nil
		}
		var err error
		if s, err = decodeSession(raw, DefaultSession(m.defaultSites)); err != nil {
			return nil, err
		}
		if !s.IsActive {
			return nil, nil
		}

		s.IsActive = false
		s.EndedAt = m.now()
		s.EndReason = reason
		s.Completed = reason != EndReasonManual

		// Defensive repair: stored interruptions should only ever hold
		// "stayed" or "broke"; anything else is coerced on manual end.
		if reason == EndReasonManual {
			for i := range s.Interruptions {
				if s.Interruptions[i].Outcome != OutcomeStayed && s.Interruptions[i].Outcome != OutcomeBroke {
					s.Interruptions[i].Outcome = OutcomeBroke
				}
			}
		}

		ended = true
		return s, nil
	})
	if err != nil {
		return err
	}
	if !ended {
		return nil
	}

	m.enforcer.Disable(ctx)

	if err := m.timers.Clear(ctx, AlarmSessionEnd); err != nil {
		log.Printf("Failed to clear session end timer: %v", err)
	}
	if err := m.timers.Clear(ctx, AlarmSessionWarning); err != nil {
		log.Printf("Failed to clear session warning timer: %v", err)
	}

	err = m.store.Update(ctx, HistoryKey, func(found bool, raw []byte) (any, error) {
		h := DefaultHistory()
		if found {
			if err := json.Unmarshal(raw, &h); err != nil {
				return nil, fmt.Errorf("decode %s: %w", HistoryKey, err)
			}
		}
		h.Sessions = append([]Session{s}, h.Sessions...)
		if len(h.Sessions) > MaxHistorySessions {
			h.Sessions = h.Sessions[:MaxHistorySessions]
		}
		return h, nil
	})
	if err != nil {
		return err
	}

	if s.Completed {
		updated, err := m.streaks.UpdateOnCompletion(ctx)
		if err != nil {
			return err
		}

		actions := []xpAction{
			{gamification.SourceSessionComplete, 50, fmt.Sprintf("Completed %d-min focus session", s.DurationMinutes)},
		}
		if bonus := (s.DurationMinutes / 30) * 10; bonus > 0 {
			actions = append(actions, xpAction{gamification.SourceSessionDurationBonus, bonus, fmt.Sprintf("Duration bonus (%d min)", s.DurationMinutes)})
		}
		if updated.CurrentStreak > 0 {
			actions = append(actions, xpAction{gamification.SourceStreakDaily, 25, fmt.Sprintf("Streak bonus (day %d)", updated.CurrentStreak)})
		}

		_, err = m.processRewards(ctx,
			gamification.SessionCompleted{
				DurationMinutes:   s.DurationMinutes,
				InterruptionCount: len(s.Interruptions),
				StartedAt:         s.StartedAt,
			},
			actions,
			&gamification.CheckContext{
				SessionStartedAt:       s.StartedAt,
				SessionEndedAt:         s.EndedAt,
				SessionDurationMinutes: s.DurationMinutes,
			},
		)
		if err != nil {
			return err
		}

		m.notifier.Notify("session-complete", "Focus session complete!", completionMessage(s, updated.CurrentStreak), 2)
	} else if reason == EndReasonManual {
		if _, err := m.processRewards(ctx, gamification.SessionManualEnd{}, nil, nil); err != nil {
			return err
		}
	}

	log.Printf("Session %s ended (%s)", s.SessionID, reason)
	return nil
}

func completionMessage(s Session, currentStreak int) string {
	msg := fmt.Sprintf("You blocked %d site%s for %d minutes", len(s.BlockedSites), plural(len(s.BlockedSites)), s.DurationMinutes)
	if n := len(s.Interruptions); n > 0 {
		msg += fmt.Sprintf(" and resisted %d temptation%s", n, plural(n))
	}
	if currentStreak > 0 {
		msg += fmt.Sprintf(". Streak: %d day%s.", currentStreak, plural(currentStreak))
	} else {
		msg += "."
	}
	return msg
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// Reconcile realigns an active session with wall-clock time after a
// daemon restart: a session whose deadline is still ahead gets its
// enforcement and timers re-armed; one that expired while the daemon
// was down is force-ended as browser_closed.
func (m *Manager) Reconcile(ctx context.Context) error {
	s, err := m.Current(ctx)
	if err != nil {
		return err
	}
	if !s.IsActive {
		return nil
	}

	now := m.now()
	if !s.EndsAt.After(now) {
		log.Printf("Session %s expired while daemon was down, closing", s.SessionID)
		return m.End(ctx, EndReasonBrowserClosed)
	}

	m.enforcer.Enable(ctx, s.BlockedSites)
	if err := m.timers.At(ctx, AlarmSessionEnd, s.EndsAt); err != nil {
		return fmt.Errorf("re-arm session end timer: %w", err)
	}
	if warningAt := s.EndsAt.Add(-m.warningLead); warningAt.After(now) {
		if err := m.timers.At(ctx, AlarmSessionWarning, warningAt); err != nil {
			return fmt.Errorf("re-arm session warning timer: %w", err)
		}
	}
	log.Printf("Session %s re-armed, ends at %s", s.SessionID, s.EndsAt.Format(time.RFC3339))
	return nil
}

// LogInterruption records a resisted visit to a blocked domain and
// applies the capped resistance reward. Valid only while a session is
// active.
func (m *Manager) LogInterruption(ctx context.Context, domain string) (RewardOutcome, error) {
	if domain == "" {
		domain = "unknown"
	}

	active := false
	err := m.store.Update(ctx, StorageKey, func(found bool, raw []byte) (any, error) {
		if !found {
			return nil, nil
		}
		s, err := decodeSession(raw, DefaultSession(m.defaultSites))
		if err != nil {
			return nil, err
		}
		if !s.IsActive {
			return nil, nil
		}
		s.Interruptions = append(s.Interruptions, Interruption{
			Timestamp: m.now(),
			Domain:    domain,
			Outcome:   OutcomeStayed,
		})
		active = true
		return s, nil
	})
	if err != nil {
		return RewardOutcome{}, err
	}
	if !active {
		return RewardOutcome{}, ErrNoActiveSession
	}

	return m.processRewards(ctx,
		gamification.InterruptionResisted{},
		[]xpAction{{gamification.SourceInterruptionResisted, 15, "Resisted " + domain}},
		nil,
	)
}

// LogBreathe records a breathing exercise. Only a completed exercise
// moves counters and earns the capped reward.
func (m *Manager) LogBreathe(ctx context.Context, status, domain string) (RewardOutcome, error) {
	if status != "complete" {
		return RewardOutcome{NewAchievements: []gamification.Earned{}}, nil
	}
	desc := "Completed breathing exercise"
	if domain != "" {
		desc = "Completed breathing exercise on " + domain
	}
	return m.processRewards(ctx,
		gamification.BreathingCompleted{},
		[]xpAction{{gamification.SourceBreathingExercise, 10, desc}},
		nil,
	)
}

// SaveReflection appends to the reflection log. Only reflections of at
// least 10 characters earn XP; shorter ones are stored but unrewarded.
func (m *Manager) SaveReflection(ctx context.Context, text, domain string) (RewardOutcome, error) {
	cur, err := m.Current(ctx)
	if err != nil {
		return RewardOutcome{}, err
	}

	err = m.store.Update(ctx, ReflectionsKey, func(found bool, raw []byte) (any, error) {
		var reflections []Reflection
		if found {
			if err := json.Unmarshal(raw, &reflections); err != nil {
				return nil, fmt.Errorf("decode %s: %w", ReflectionsKey, err)
			}
		}
		return append(reflections, Reflection{
			Timestamp: m.now(),
			SessionID: cur.SessionID,
			Text:      text,
			Domain:    domain,
		}), nil
	})
	if err != nil {
		return RewardOutcome{}, err
	}

	if len([]rune(text)) < 10 {
		return RewardOutcome{NewAchievements: []gamification.Earned{}}, nil
	}
	return m.processRewards(ctx,
		gamification.ReflectionSubmitted{},
		[]xpAction{{gamification.SourceReflection, 10, "Submitted reflection"}},
		nil,
	)
}

// GetHistory returns the closed-session ring buffer.
func (m *Manager) GetHistory(ctx context.Context) (History, error) {
	h := DefaultHistory()
	if _, err := m.store.Get(ctx, HistoryKey, &h); err != nil {
		return History{}, err
	}
	return h, nil
}
