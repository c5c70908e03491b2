package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fbcli/internal/auth"
	"fbcli/internal/browser"
	"fbcli/internal/logging"
	"fbcli/internal/marketplace"
	"fbcli/internal/messenger"
	"fbcli/internal/session"
)

// Test seams. launcher nil means the rod launcher.
var (
	launcher  browser.Launcher
	pinSettle = auth.DefaultPinSettle
)

// app bundles the collaborators of a single command run. All of them share
// one browser page.
type app struct {
	mgr         *browser.Manager
	auth        *auth.Machine
	marketplace *marketplace.Service
	messenger   *messenger.Service
}

func newApp() *app {
	opts := []browser.Option{browser.WithDelays(cfg.DelayRange())}
	if launcher != nil {
		opts = append(opts, browser.WithLauncher(launcher))
	}
	mgr := browser.NewManager(browser.FromAppConfig(cfg), session.NewStore(cfg.SessionPath()), opts...)
	mgr.SetHeadless(!headed && cfg.Facebook.Headless)

	machine := auth.New(mgr, cfg)
	pin := auth.NewPinHandler(mgr, cfg).WithSettle(pinSettle)

	return &app{
		mgr:         mgr,
		auth:        machine,
		marketplace: marketplace.New(mgr, machine, cfg),
		messenger:   messenger.New(mgr, machine, pin, cfg),
	}
}

// withApp runs fn with a fresh app and a context cancelled on SIGINT or
// SIGTERM. The browser is always closed afterwards, which flushes cookies.
func withApp(fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	defer func() {
		// The run context may already be cancelled; cookies are still flushed.
		if err := a.mgr.Close(context.Background()); err != nil {
			logging.Get(logging.CategoryCLI).Warn("close browser: %v", err)
		}
	}()

	return fn(ctx, a)
}
