// Package engine is the top-level orchestrator: it reacts to timer
// firings and browser-bridge events, driving tracking, sessions,
// streaks and notifications. Handlers never propagate external-call
// failures; they log and degrade to a safe state.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/yusufnuru/undrift/internal/alarm"
	"github.com/yusufnuru/undrift/internal/config"
	"github.com/yusufnuru/undrift/internal/notify"
	"github.com/yusufnuru/undrift/internal/session"
	"github.com/yusufnuru/undrift/internal/store"
	"github.com/yusufnuru/undrift/internal/streak"
	"github.com/yusufnuru/undrift/internal/tracking"
	"github.com/yusufnuru/undrift/internal/urlutil"
)

// Recurring alarm names owned by the orchestrator.
const (
	AlarmHeartbeat   = "heartbeat"
	AlarmStreakCheck = "streak-check"
)

// Idle states reported by the browser bridge.
const (
	IdleStateActive = "active"
	IdleStateIdle   = "idle"
	IdleStateLocked = "locked"
)

type Engine struct {
	store    *store.Store
	cfg      *config.Config
	sessions *session.Manager
	tracker  *tracking.Tracker
	streaks  *streak.Manager
	notifier notify.Notifier
	sched    *alarm.Scheduler
	now      func() time.Time
}

func New(s *store.Store, cfg *config.Config, sessions *session.Manager, tracker *tracking.Tracker, streaks *streak.Manager, notifier notify.Notifier, sched *alarm.Scheduler) *Engine {
	return &Engine{
		store:    s,
		cfg:      cfg,
		sessions: sessions,
		tracker:  tracker,
		streaks:  streaks,
		notifier: notifier,
		sched:    sched,
		now:      time.Now,
	}
}

// Sessions exposes the lifecycle manager for the request surface.
func (e *Engine) Sessions() *session.Manager { return e.sessions }

// Tracker exposes the time-tracking accumulator for the request surface.
func (e *Engine) Tracker() *tracking.Tracker { return e.tracker }

// Streaks exposes the streak manager for the request surface.
func (e *Engine) Streaks() *streak.Manager { return e.streaks }

// HandleAlarm is the scheduler's dispatch entry point.
func (e *Engine) HandleAlarm(ctx context.Context, name string) {
	switch name {
	case session.AlarmSessionEnd:
		if err := e.sessions.End(ctx, session.EndReasonTimer); err != nil {
			log.Printf("Failed to end session on timer: %v", err)
		}
	case session.AlarmSessionWarning:
		e.handleSessionWarning(ctx)
	case AlarmHeartbeat:
		e.handleHeartbeat(ctx)
	case AlarmStreakCheck:
		if *e.cfg.Notifications.StreakAlerts {
			if err := e.streaks.NotifyAtRisk(ctx); err != nil {
				log.Printf("Streak at-risk check failed: %v", err)
			}
		}
	default:
		log.Printf("Unknown alarm fired: %s", name)
	}
}

// handleSessionWarning notifies once per session that the end is near.
// The session may have been replaced since the timer was armed, so the
// active flag is re-checked before firing.
func (e *Engine) handleSessionWarning(ctx context.Context) {
	s, err := e.sessions.Current(ctx)
	if err != nil || !s.IsActive {
		return
	}

	fired := false
	err = e.store.Update(ctx, notify.StateKey, func(found bool, raw []byte) (any, error) {
		state := notify.DefaultState()
		if found {
			if err := json.Unmarshal(raw, &state); err != nil {
				return nil, fmt.Errorf("decode %s: %w", notify.StateKey, err)
			}
		}
		if state.SessionWarningFired {
			return nil, nil
		}
		state.SessionWarningFired = true
		fired = true
		return state, nil
	})
	if err != nil {
		log.Printf("Session warning check failed: %v", err)
		return
	}
	if fired {
		minutes := *e.cfg.Daemon.SessionWarningMinutes
		e.notifier.Notify(
			"session-warning",
			"Focus session ending soon",
			fmt.Sprintf("%d minutes left. You've stayed focused this whole time.", minutes),
			1,
		)
	}
}

// handleHeartbeat runs the short-period periodic work: flush the open
// tracking span, fire any due time-on-site alerts, and catch streaks
// broken by a day rollover.
func (e *Engine) handleHeartbeat(ctx context.Context) {
	if err := e.tracker.Flush(ctx); err != nil {
		log.Printf("Heartbeat flush failed: %v", err)
	}
	if *e.cfg.Notifications.TimeAlerts {
		if err := e.checkTimeAlerts(ctx); err != nil {
			log.Printf("Time alert check failed: %v", err)
		}
	}
	if err := e.streaks.CheckBroken(ctx); err != nil {
		log.Printf("Streak break check failed: %v", err)
	}
}

// checkTimeAlerts fires an escalating notice when today's accumulated
// time on the currently tracked domain crosses a threshold. Each
// domain/threshold pair alerts at most once per day.
func (e *Engine) checkTimeAlerts(ctx context.Context) error {
	data, err := e.tracker.Get(ctx)
	if err != nil {
		return err
	}
	if data.Current == nil {
		return nil
	}

	today := e.now().Format("2006-01-02")
	domain := data.Current.Domain
	totalMinutes := float64(data.Daily[today][domain]) / 60

	var fired []int
	err = e.store.Update(ctx, notify.StateKey, func(found bool, raw []byte) (any, error) {
		state := notify.DefaultState()
		if found {
			if err := json.Unmarshal(raw, &state); err != nil {
				return nil, fmt.Errorf("decode %s: %w", notify.StateKey, err)
			}
		}
		if state.TimeAlertsSent == nil {
			state.TimeAlertsSent = map[string]map[string]string{}
		}
		if state.TimeAlertsSent[domain] == nil {
			state.TimeAlertsSent[domain] = map[string]string{}
		}

		for _, threshold := range e.cfg.Notifications.TimeAlertThresholds {
			key := strconv.Itoa(threshold)
			if totalMinutes >= float64(threshold) && state.TimeAlertsSent[domain][key] != today {
				state.TimeAlertsSent[domain][key] = today
				fired = append(fired, threshold)
			}
		}
		if len(fired) == 0 {
			return nil, nil
		}
		return state, nil
	})
	if err != nil {
		return err
	}

	for _, threshold := range fired {
		priority := 1
		if threshold >= 60 {
			priority = 2
		}
		e.notifier.Notify(
			fmt.Sprintf("time-alert-%s-%d", domain, threshold),
			fmt.Sprintf("%s: %d minutes", domain, threshold),
			fmt.Sprintf("You've spent %d minutes on %s today. Is this how you want to spend your time?", threshold, domain),
			priority,
		)
	}
	return nil
}

// trackURL points tracking at the domain of url, or stops tracking when
// the URL is absent, untrackable or unparseable. Any failure degrades to
// stopped tracking; the accumulator errs toward undercounting.
func (e *Engine) trackURL(ctx context.Context, url string) {
	if urlutil.IsTrackable(url) {
		if domain := urlutil.ExtractDomain(url); domain != "" {
			if err := e.tracker.Start(ctx, domain); err != nil {
				log.Printf("Failed to start tracking %s: %v", domain, err)
				e.stopTracking(ctx)
			}
			return
		}
	}
	e.stopTracking(ctx)
}

func (e *Engine) stopTracking(ctx context.Context) {
	if err := e.tracker.Stop(ctx); err != nil {
		log.Printf("Failed to stop tracking: %v", err)
	}
}

// HandleTabActivated reacts to a new active tab.
func (e *Engine) HandleTabActivated(ctx context.Context, url string) {
	e.trackURL(ctx, url)
}

// HandleTabUpdated reacts to a URL change on the focused, active tab.
func (e *Engine) HandleTabUpdated(ctx context.Context, url string) {
	e.trackURL(ctx, url)
}

// HandleTabRemoved resumes tracking for whatever tab is active now.
func (e *Engine) HandleTabRemoved(ctx context.Context, activeURL string) {
	e.trackURL(ctx, activeURL)
}

// HandleWindowFocus reacts to window focus moving; an empty URL means
// the browser lost focus entirely.
func (e *Engine) HandleWindowFocus(ctx context.Context, url string) {
	if url == "" {
		e.stopTracking(ctx)
		return
	}
	e.trackURL(ctx, url)
}

// HandleIdleState pauses tracking while the user is idle or the screen
// is locked, and resumes on return to activity.
func (e *Engine) HandleIdleState(ctx context.Context, state, activeURL string) {
	if state == IdleStateActive {
		e.trackURL(ctx, activeURL)
		return
	}
	e.stopTracking(ctx)
}

// Startup reconciles durable state after a daemon restart: recurring
// alarms are ensured, an active session is re-armed or force-ended
// against its deadline, rolled-over streak breaks are caught, and any
// tracking span that survived the restart is discarded rather than
// credited with downtime.
func (e *Engine) Startup(ctx context.Context) error {
	exists, err := e.sched.Exists(ctx, AlarmHeartbeat)
	if err != nil {
		return err
	}
	if !exists {
		period := time.Duration(*e.cfg.Daemon.HeartbeatSeconds) * time.Second
		if err := e.sched.Every(ctx, AlarmHeartbeat, period); err != nil {
			return fmt.Errorf("arm heartbeat: %w", err)
		}
	}

	exists, err = e.sched.Exists(ctx, AlarmStreakCheck)
	if err != nil {
		return err
	}
	if !exists {
		if err := e.sched.DailyAt(ctx, AlarmStreakCheck, *e.cfg.Daemon.StreakCheckHour, e.cfg.Daemon.StreakCheckMinute); err != nil {
			return fmt.Errorf("arm streak check: %w", err)
		}
	}

	if err := e.sessions.Reconcile(ctx); err != nil {
		return fmt.Errorf("reconcile session: %w", err)
	}
	if err := e.streaks.CheckBroken(ctx); err != nil {
		log.Printf("Streak break check failed on startup: %v", err)
	}
	if err := e.tracker.Discard(ctx); err != nil {
		log.Printf("Failed to discard stale tracking span: %v", err)
	}
	return nil
}

// Stats is the aggregate snapshot served to UI clients.
type Stats struct {
	TodayTracking     map[string]int64 `json:"todayTracking"`
	TotalTodaySeconds int64            `json:"totalTodaySeconds"`
	Streak            streak.Data      `json:"streak"`
	CompletedSessions int              `json:"completedSessions"`
	TotalSessions     int              `json:"totalSessions"`
	CompletionRate    int              `json:"completionRate"`
}

func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	domains, total, err := e.tracker.Today(ctx)
	if err != nil {
		return Stats{}, err
	}
	sd, err := e.streaks.Get(ctx)
	if err != nil {
		return Stats{}, err
	}
	history, err := e.sessions.GetHistory(ctx)
	if err != nil {
		return Stats{}, err
	}

	completed := 0
	for _, s := range history.Sessions {
		if s.Completed {
			completed++
		}
	}
	rate := 0
	if len(history.Sessions) > 0 {
		rate = int(float64(completed)/float64(len(history.Sessions))*100 + 0.5)
	}

	return Stats{
		TodayTracking:     domains,
		TotalTodaySeconds: total,
		Streak:            sd,
		CompletedSessions: completed,
		TotalSessions:     len(history.Sessions),
		CompletionRate:    rate,
	}, nil
}
