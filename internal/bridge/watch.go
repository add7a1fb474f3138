// Package bridge listens for browser events on the session bus. The
// browser companion emits a signal for every tab, window-focus and idle
// transition; this watcher translates them into orchestrator calls.
package bridge

import (
	"context"
	"fmt"
	"log"

	"github.com/godbus/dbus/v5"

	"github.com/yusufnuru/undrift/internal/engine"
	"github.com/yusufnuru/undrift/internal/ipc"
)

// Watch subscribes to bridge signals until ctx is cancelled.
func Watch(ctx context.Context, eng *engine.Engine) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(ipc.BridgePath),
		dbus.WithMatchInterface(ipc.BridgeInterface),
	); err != nil {
		return fmt.Errorf("add match failed: %w", err)
	}

	c := make(chan *dbus.Signal, 10)
	conn.Signal(c)

	for {
		select {
		case sig := <-c:
			dispatch(ctx, eng, sig)
		case <-ctx.Done():
			return nil
		}
	}
}

func dispatch(ctx context.Context, eng *engine.Engine, sig *dbus.Signal) {
	switch sig.Name {
	case ipc.SignalTabActivated:
		url, ok := stringArg(sig, 0)
		if !ok {
			log.Println("TabActivated: missing url argument")
			return
		}
		eng.HandleTabActivated(ctx, url)

	case ipc.SignalTabUpdated:
		url, ok := stringArg(sig, 0)
		if !ok {
			log.Println("TabUpdated: missing url argument")
			return
		}
		eng.HandleTabUpdated(ctx, url)

	case ipc.SignalTabRemoved:
		// Body carries the URL of whichever tab is active now, possibly
		// empty when none remains.
		url, _ := stringArg(sig, 0)
		eng.HandleTabRemoved(ctx, url)

	case ipc.SignalWindowFocusChanged:
		url, _ := stringArg(sig, 0)
		eng.HandleWindowFocus(ctx, url)

	case ipc.SignalIdleStateChanged:
		state, ok := stringArg(sig, 0)
		if !ok {
			log.Println("IdleStateChanged: missing state argument")
			return
		}
		url, _ := stringArg(sig, 1)
		eng.HandleIdleState(ctx, state, url)
	}
}

func stringArg(sig *dbus.Signal, i int) (string, bool) {
	if len(sig.Body) <= i {
		return "", false
	}
	s, ok := sig.Body[i].(string)
	return s, ok
}
