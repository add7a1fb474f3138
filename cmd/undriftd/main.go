package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/yusufnuru/undrift/internal/alarm"
	"github.com/yusufnuru/undrift/internal/blocking"
	"github.com/yusufnuru/undrift/internal/bridge"
	"github.com/yusufnuru/undrift/internal/config"
	"github.com/yusufnuru/undrift/internal/engine"
	"github.com/yusufnuru/undrift/internal/ipc"
	"github.com/yusufnuru/undrift/internal/notify"
	"github.com/yusufnuru/undrift/internal/session"
	"github.com/yusufnuru/undrift/internal/store"
	"github.com/yusufnuru/undrift/internal/streak"
	"github.com/yusufnuru/undrift/internal/tracking"
)

func main() {
	// check for argument to determine config location
	argPath := defaultConfigPath()
	if len(os.Args) > 1 {
		argPath = os.Args[1]
	}
	log.Println("Using config file at:", argPath)
	cfg, err := config.LoadFromFile(argPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Daemon.DBPath), 0755); err != nil {
		log.Fatal("Failed to create data directory:", err)
	}
	st, err := store.Open(cfg.Daemon.DBPath)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	defer st.Close()

	notifier, err := notify.NewDBusNotifier()
	if err != nil {
		log.Fatal("Failed to connect notifier:", err)
	}
	defer notifier.Close()

	busConn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Fatal("Failed to connect to session bus:", err)
	}
	defer busConn.Close()

	director := blocking.NewBusDirector(busConn)
	enforcer := blocking.NewEnforcer(director, director)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	streaks := streak.NewManager(st, notifier)
	tracker := tracking.NewTracker(st)

	var eng *engine.Engine
	sched := alarm.NewScheduler(st, func(ctx context.Context, name string) {
		eng.HandleAlarm(ctx, name)
	})

	sessions := session.NewManager(st, enforcer, notifier, sched, streaks,
		cfg.Blocking.DefaultSites,
		time.Duration(*cfg.Daemon.SessionWarningMinutes)*time.Minute)
	eng = engine.New(st, cfg, sessions, tracker, streaks, notifier, sched)

	if err := eng.Startup(ctx); err != nil {
		log.Fatal("Startup reconciliation failed:", err)
	}

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	var wg sync.WaitGroup

	// Watch the browser bridge for tab/window/idle events
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("Monitoring dbus for browser events...")
		if err := bridge.Watch(ctx, eng); err != nil {
			log.Println("bridge watcher error:", err)
		}
	}()

	// Serve the request surface
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("Opening D-Bus service...")
		if err := serveUndrift(ctx, busConn, eng, st); err != nil {
			log.Println("undrift service error:", err)
		}
	}()

	// Run the durable alarm scheduler
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := sched.Run(ctx); err != nil {
			log.Println("scheduler error:", err)
		}
	}()

	wg.Wait()
	fmt.Println("Shutdown complete")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "undrift", "config.toml")
}

func serveUndrift(ctx context.Context, conn *dbus.Conn, eng *engine.Engine, st *store.Store) error {
	reply, err := conn.RequestName(ipc.ServiceName, dbus.NameFlagDoNotQueue)
	if err != nil || reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("failed to request name: %w", err)
	}

	svc := &ipc.Service{Engine: eng, Store: st}
	if err := conn.Export(svc, dbus.ObjectPath(ipc.ObjectPath), ipc.InterfaceName); err != nil {
		return fmt.Errorf("failed to export interface: %w", err)
	}

	<-ctx.Done()
	return nil
}
