package gamification

import "time"

// StorageKey is the durable record key for Data. SessionCtxKey holds the
// per-session reward-cap counters for the currently active session.
const (
	StorageKey    = "gamification"
	SessionCtxKey = "gamificationSessionCtx"
)

type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

type Category string

const (
	CategorySession      Category = "session"
	CategoryStreak       Category = "streak"
	CategoryResistance   Category = "resistance"
	CategoryTime         Category = "time"
	CategoryTimeSaved    Category = "time_saved"
	CategoryIntervention Category = "intervention"
	CategorySpecial      Category = "special"
)

// Source identifies what earned a piece of XP.
type Source string

const (
	SourceSessionComplete      Source = "session_complete"
	SourceSessionDurationBonus Source = "session_duration_bonus"
	SourceStreakDaily          Source = "streak_daily"
	SourceInterruptionResisted Source = "interruption_resisted"
	SourceBreathingExercise    Source = "breathing_exercise"
	SourceReflection           Source = "reflection"
	SourceAchievement          Source = "achievement"
)

// Definition is a static catalog entry. Threshold achievements name a
// counter and a value; the rest dispatch to a named custom check.
type Definition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Tier        Tier
	Category    Category
	Hidden      bool
	Requirement *Requirement
	CustomCheck string
}

type Requirement struct {
	Counter   string
	Threshold int
}

// Earned marks a permanently-unlocked achievement.
type Earned struct {
	ID       string    `json:"id"`
	EarnedAt time.Time `json:"earnedAt"`
	Tier     Tier      `json:"tier"`
}

type XPEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Amount      int       `json:"amount"`
	Source      Source    `json:"source"`
	Description string    `json:"description"`
}

type Counters struct {
	TotalSessionsCompleted       int `json:"totalSessionsCompleted"`
	TotalInterruptionsResisted   int `json:"totalInterruptionsResisted"`
	TotalFocusMinutes            int `json:"totalFocusMinutes"`
	TotalBreathingExercises      int `json:"totalBreathingExercises"`
	TotalReflections             int `json:"totalReflections"`
	TotalTimeSavedMinutes        int `json:"totalTimeSavedMinutes"`
	ConsecutiveCompletedSessions int `json:"consecutiveCompletedSessions"`
	ConsecutiveCleanSessions     int `json:"consecutiveCleanSessions"`
}

// value resolves a counter by its catalog name.
func (c *Counters) value(name string) int {
	switch name {
	case "totalSessionsCompleted":
		return c.TotalSessionsCompleted
	case "totalInterruptionsResisted":
		return c.TotalInterruptionsResisted
	case "totalFocusMinutes":
		return c.TotalFocusMinutes
	case "totalBreathingExercises":
		return c.TotalBreathingExercises
	case "totalReflections":
		return c.TotalReflections
	case "totalTimeSavedMinutes":
		return c.TotalTimeSavedMinutes
	case "consecutiveCompletedSessions":
		return c.ConsecutiveCompletedSessions
	case "consecutiveCleanSessions":
		return c.ConsecutiveCleanSessions
	}
	return 0
}

type XPState struct {
	Total       int       `json:"total"`
	TodayEarned int       `json:"todayEarned"`
	TodayDate   string    `json:"todayDate"`
	Level       int       `json:"level"`
	History     []XPEvent `json:"history"`
}

type Achievements struct {
	Earned []Earned `json:"earned"`
}

// Data is the full persisted gamification record. Level is always
// recomputed from Total, never trusted independently.
type Data struct {
	XP           XPState      `json:"xp"`
	Achievements Achievements `json:"achievements"`
	Counters     Counters     `json:"counters"`
}

// SessionCtx carries the per-session reward caps. A stored context whose
// SessionID does not match the active session is stale and is discarded.
type SessionCtx struct {
	SessionID            string `json:"sessionId"`
	InterruptionsRewarded int   `json:"interruptionsRewarded"`
	BreathingRewarded     int   `json:"breathingRewarded"`
}

// DefaultData returns the uninitialized record shape.
func DefaultData(now time.Time) Data {
	return Data{
		XP: XPState{
			Level:     1,
			TodayDate: now.Format("2006-01-02"),
			History:   []XPEvent{},
		},
		Achievements: Achievements{Earned: []Earned{}},
	}
}

func DefaultSessionCtx(sessionID string) SessionCtx {
	return SessionCtx{SessionID: sessionID}
}
