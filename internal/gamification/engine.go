// Package gamification implements the XP, counter and achievement
// engine as pure state transitions. Nothing in this package performs
// I/O; callers load Data from the store, apply transitions, and write
// the result back.
package gamification

import "time"

const (
	// DailyXPCap limits non-achievement XP earned per calendar day.
	DailyXPCap = 500

	maxHistory              = 50
	maxResistancePerSession = 5
	maxBreathingPerSession  = 3
)

// AwardResult describes the outcome of a single AwardXP call.
type AwardResult struct {
	Awarded   int
	LeveledUp bool
	NewLevel  int
}

// AwardXP applies one XP action to data in place. The daily cap applies
// to every source except achievements. When ctx is non-nil the
// per-session caps for interruption and breathing awards are enforced;
// a capped call yields Awarded == 0 but the cap counter has already
// consumed the slot.
func AwardXP(data *Data, source Source, amount int, description string, ctx *SessionCtx, now time.Time) AwardResult {
	today := now.Format("2006-01-02")

	// Lazy day rollover.
	if data.XP.TodayDate != today {
		data.XP.TodayEarned = 0
		data.XP.TodayDate = today
	}

	awarded := amount
	if source != SourceAchievement {
		remaining := DailyXPCap - data.XP.TodayEarned
		if remaining < 0 {
			remaining = 0
		}
		if awarded > remaining {
			awarded = remaining
		}
	}

	if ctx != nil {
		switch source {
		case SourceInterruptionResisted:
			if ctx.InterruptionsRewarded >= maxResistancePerSession {
				awarded = 0
			} else {
				ctx.InterruptionsRewarded++
			}
		case SourceBreathingExercise:
			if ctx.BreathingRewarded >= maxBreathingPerSession {
				awarded = 0
			} else {
				ctx.BreathingRewarded++
			}
		}
	}

	if awarded <= 0 {
		return AwardResult{NewLevel: data.XP.Level}
	}

	oldLevel := data.XP.Level
	data.XP.Total += awarded
	if source != SourceAchievement {
		data.XP.TodayEarned += awarded
	}
	data.XP.Level = CalculateLevel(data.XP.Total)

	data.XP.History = append([]XPEvent{{
		Timestamp:   now,
		Amount:      awarded,
		Source:      source,
		Description: description,
	}}, data.XP.History...)
	if len(data.XP.History) > maxHistory {
		data.XP.History = data.XP.History[:maxHistory]
	}

	return AwardResult{
		Awarded:   awarded,
		LeveledUp: data.XP.Level > oldLevel,
		NewLevel:  data.XP.Level,
	}
}

// CounterEvent is the closed set of behavioral events that move counters.
type CounterEvent interface{ counterEvent() }

type SessionCompleted struct {
	DurationMinutes   int
	InterruptionCount int
	StartedAt         time.Time
}

type SessionManualEnd struct{}
type InterruptionResisted struct{}
type BreathingCompleted struct{}
type ReflectionSubmitted struct{}

func (SessionCompleted) counterEvent()     {}
func (SessionManualEnd) counterEvent()     {}
func (InterruptionResisted) counterEvent() {}
func (BreathingCompleted) counterEvent()   {}
func (ReflectionSubmitted) counterEvent()  {}

// UpdateCounters applies one behavioral event to the counters in place.
// Counter movement is independent of reward suppression; a capped XP
// award still advances its counter here.
func UpdateCounters(data *Data, event CounterEvent) {
	c := &data.Counters

	switch ev := event.(type) {
	case SessionCompleted:
		c.TotalSessionsCompleted++
		c.TotalFocusMinutes += ev.DurationMinutes
		c.TotalTimeSavedMinutes += ev.DurationMinutes
		c.ConsecutiveCompletedSessions++
		if ev.InterruptionCount == 0 {
			c.ConsecutiveCleanSessions++
		} else {
			c.ConsecutiveCleanSessions = 0
		}
	case SessionManualEnd:
		c.ConsecutiveCompletedSessions = 0
		c.ConsecutiveCleanSessions = 0
	case InterruptionResisted:
		c.TotalInterruptionsResisted++
	case BreathingCompleted:
		c.TotalBreathingExercises++
	case ReflectionSubmitted:
		c.TotalReflections++
	}
}

// CheckContext carries session and streak facts that the custom
// achievement checks need but the counters cannot supply.
type CheckContext struct {
	SessionStartedAt       time.Time
	SessionEndedAt         time.Time
	SessionDurationMinutes int
	CurrentStreak          int
}

// CheckAchievements walks the catalog in order and earns anything whose
// condition now holds. Earning is one-way; already-earned ids are
// skipped, so repeated checks with unchanged state are no-ops.
func CheckAchievements(data *Data, checkCtx *CheckContext, now time.Time) []Earned {
	earnedIDs := make(map[string]bool, len(data.Achievements.Earned))
	for _, a := range data.Achievements.Earned {
		earnedIDs[a.ID] = true
	}

	var newAchievements []Earned
	for _, def := range Definitions {
		if earnedIDs[def.ID] {
			continue
		}

		earned := false
		if def.Requirement != nil {
			earned = data.Counters.value(def.Requirement.Counter) >= def.Requirement.Threshold
		}
		if def.CustomCheck != "" {
			earned = evaluateCustomCheck(def.CustomCheck, &data.Counters, checkCtx)
		}

		if earned {
			a := Earned{ID: def.ID, EarnedAt: now, Tier: def.Tier}
			newAchievements = append(newAchievements, a)
			data.Achievements.Earned = append(data.Achievements.Earned, a)
		}
	}
	return newAchievements
}

var streakChecks = map[string]int{
	"streak_3":   3,
	"streak_7":   7,
	"streak_14":  14,
	"streak_30":  30,
	"streak_60":  60,
	"streak_90":  90,
	"streak_180": 180,
	"streak_365": 365,
}

func evaluateCustomCheck(check string, counters *Counters, ctx *CheckContext) bool {
	if threshold, ok := streakChecks[check]; ok {
		return ctx != nil && ctx.CurrentStreak >= threshold
	}

	switch check {
	case "night_owl":
		if ctx == nil || ctx.SessionEndedAt.IsZero() {
			return false
		}
		hour := ctx.SessionEndedAt.Hour()
		return hour >= 0 && hour < 5
	case "early_bird":
		if ctx == nil || ctx.SessionStartedAt.IsZero() {
			return false
		}
		return ctx.SessionStartedAt.Hour() < 6
	case "marathon":
		return ctx != nil && ctx.SessionDurationMinutes >= 180
	case "iron_will":
		// Needs per-day tracking; approximated with the running total.
		return counters.TotalInterruptionsResisted >= 10
	case "perfectionist", "clean_slate":
		// Not evaluable from counters alone. Permanently false.
		return false
	}
	return false
}
