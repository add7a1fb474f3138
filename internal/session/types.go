package session

import "time"

// Durable record keys owned by this package.
const (
	StorageKey     = "session"
	HistoryKey     = "sessionHistory"
	ReflectionsKey = "reflections"
)

// Named timers armed for the active session.
const (
	AlarmSessionEnd     = "sessionEnd"
	AlarmSessionWarning = "session-warning"
)

// End reasons. Only a manual end counts as not completed.
const (
	EndReasonTimer         = "timer"
	EndReasonManual        = "manual"
	EndReasonBrowserClosed = "browser_closed"
)

// Interruption outcomes.
const (
	OutcomeStayed = "stayed"
	OutcomeBroke  = "broke"
)

// MaxHistorySessions bounds the session-history ring buffer.
const MaxHistorySessions = 100

// Interruption records an attempt to visit a blocked domain during an
// active session.
type Interruption struct {
	Timestamp time.Time `json:"timestamp"`
	Domain    string    `json:"domain"`
	Outcome   string    `json:"outcome"`
}

// Session is the single timed-blocking interval record. Exactly one
// exists at a time; it is overwritten by the next start rather than
// deleted.
type Session struct {
	IsActive        bool           `json:"isActive"`
	EndsAt          time.Time      `json:"endsAt"`
	BlockedSites    []string       `json:"blockedSites"`
	SessionID       string         `json:"sessionId"`
	StartedAt       time.Time      `json:"startedAt"`
	DurationMinutes int            `json:"durationMinutes"`
	Interruptions   []Interruption `json:"interruptions"`
	EndReason       string         `json:"endReason,omitempty"`
	Completed       bool           `json:"completed,omitempty"`
	EndedAt         time.Time      `json:"endedAt"`
}

// DefaultSession is the inactive shape returned when no session record
// exists yet.
func DefaultSession(defaultSites []string) Session {
	return Session{
		BlockedSites:  defaultSites,
		Interruptions: []Interruption{},
	}
}

// History is the most-recent-first ring buffer of closed sessions.
type History struct {
	Sessions     []Session `json:"sessions"`
	LastSyncedAt time.Time `json:"lastSyncedAt"`
}

func DefaultHistory() History {
	return History{Sessions: []Session{}}
}

// Reflection is one entry of the append-only reflection log.
type Reflection struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"sessionId"`
	Text      string    `json:"text"`
	Domain    string    `json:"domain,omitempty"`
}
