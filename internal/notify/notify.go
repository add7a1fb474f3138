// Package notify sends desktop notifications and keeps the
// de-duplication ledger that suppresses repeat notices.
package notify

import (
	"fmt"
	"log"
	"sync"

	"github.com/godbus/dbus/v5"
)

// Notifier displays a titled message addressable by id. Posting the same
// id again replaces the previous notification instead of stacking.
// Delivery is best-effort; implementations must not fail the caller.
type Notifier interface {
	Notify(id, title, message string, priority int)
}

// DBusNotifier sends notifications through org.freedesktop.Notifications
// on the session bus.
type DBusNotifier struct {
	conn *dbus.Conn

	mu  sync.Mutex
	ids map[string]uint32
}

func NewDBusNotifier() (*DBusNotifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &DBusNotifier{conn: conn, ids: make(map[string]uint32)}, nil
}

func (n *DBusNotifier) Close() error {
	return n.conn.Close()
}

// Notify displays the notification. Failures are logged and swallowed;
// notifications never block or abort the triggering logic.
func (n *DBusNotifier) Notify(id, title, message string, priority int) {
	n.mu.Lock()
	replaces := n.ids[id]
	n.mu.Unlock()

	urgency := byte(1)
	if priority >= 2 {
		urgency = 2
	}

	obj := n.conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"undrift",
		replaces,
		"appointment-soon",
		title,
		message,
		[]string{},
		map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(urgency),
		},
		int32(10000),
	)
	if call.Err != nil {
		log.Printf("Failed to send notification %q: %v", id, call.Err)
		return
	}

	var assigned uint32
	if err := call.Store(&assigned); err != nil {
		return
	}
	n.mu.Lock()
	n.ids[id] = assigned
	n.mu.Unlock()
}
