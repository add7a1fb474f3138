// Package blocking turns the active session's site list into enforced
// block rules. The actual redirect mechanism lives in the browser-side
// collaborator; this package only drives it.
package blocking

import (
	"context"
	"log"
)

// RuleEngine installs and removes the network-level block rules for a
// domain set. Apply atomically replaces any previously installed set.
type RuleEngine interface {
	Apply(ctx context.Context, sites []string) error
	Clear(ctx context.Context) error
}

// TabController rewrites already-open tabs. Redirect sends every tab
// matching the blocked set to the intervention page; Restore navigates
// intervention-page tabs back to their original URLs.
type TabController interface {
	Redirect(ctx context.Context, sites []string) error
	Restore(ctx context.Context) error
}

// Enforcer coordinates rules and tabs for session start and end.
// Capability calls are best-effort: a failure is logged and enforcement
// continues partially applied.
type Enforcer struct {
	Rules RuleEngine
	Tabs  TabController
}

func NewEnforcer(rules RuleEngine, tabs TabController) *Enforcer {
	return &Enforcer{Rules: rules, Tabs: tabs}
}

// Enable installs rules for sites and redirects any open matching tabs,
// so blocking takes effect on existing tabs as well as new navigations.
func (e *Enforcer) Enable(ctx context.Context, sites []string) {
	if err := e.Rules.Apply(ctx, sites); err != nil {
		log.Printf("Failed to apply block rules: %v", err)
	}
	if err := e.Tabs.Redirect(ctx, sites); err != nil {
		log.Printf("Failed to redirect open tabs: %v", err)
	}
}

// Disable removes all rules and restores intervention-page tabs.
func (e *Enforcer) Disable(ctx context.Context) {
	if err := e.Rules.Clear(ctx); err != nil {
		log.Printf("Failed to clear block rules: %v", err)
	}
	if err := e.Tabs.Restore(ctx); err != nil {
		log.Printf("Failed to restore tabs: %v", err)
	}
}
