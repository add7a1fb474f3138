package notify

// StateKey is the durable record key for State.
const StateKey = "notificationState"

// State is a pure de-duplication ledger. It suppresses repeat notices
// and never drives business logic.
type State struct {
	// TimeAlertsSent maps domain -> threshold minutes (as a string key,
	// JSON objects only key on strings) -> date the alert fired.
	TimeAlertsSent      map[string]map[string]string `json:"timeAlertsSent"`
	LastStreakAlertDate string                       `json:"lastStreakAlertDate"`
	SessionWarningFired bool                         `json:"sessionWarningFired"`
}

func DefaultState() State {
	return State{TimeAlertsSent: map[string]map[string]string{}}
}
