package blocking

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// D-Bus addressing for enforcement directives. The browser companion
// subscribes to these signals and performs the actual rule install and
// tab rewriting.
const (
	SignalPath      = "/io/github/yusufnuru/undrift"
	SignalInterface = "io.github.yusufnuru.undrift.Enforcement"

	SignalRulesChanged = SignalInterface + ".BlockRulesChanged"
	SignalRulesCleared = SignalInterface + ".BlockRulesCleared"
	SignalRedirectTabs = SignalInterface + ".RedirectTabs"
	SignalRestoreTabs  = SignalInterface + ".RestoreTabs"
)

// BusDirector implements RuleEngine and TabController by emitting
// enforcement signals on the session bus.
type BusDirector struct {
	conn *dbus.Conn
}

func NewBusDirector(conn *dbus.Conn) *BusDirector {
	return &BusDirector{conn: conn}
}

func (d *BusDirector) emit(name string, values ...any) error {
	if err := d.conn.Emit(dbus.ObjectPath(SignalPath), name, values...); err != nil {
		return fmt.Errorf("emit %s: %w", name, err)
	}
	return nil
}

func (d *BusDirector) Apply(_ context.Context, sites []string) error {
	return d.emit(SignalRulesChanged, sites)
}

func (d *BusDirector) Clear(_ context.Context) error {
	return d.emit(SignalRulesCleared)
}

func (d *BusDirector) Redirect(_ context.Context, sites []string) error {
	return d.emit(SignalRedirectTabs, sites)
}

func (d *BusDirector) Restore(_ context.Context) error {
	return d.emit(SignalRestoreTabs)
}
